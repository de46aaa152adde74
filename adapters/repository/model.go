package repository

import (
	"database/sql"
	"time"

	"github.com/chararch/batchstat"
)

// db row models, converted to entities before leaving the adapter

type jobDBModel struct {
	JobId              int64
	JobConfigurationId int64
	ParentJobId        sql.NullInt64
	Status             string
	Skipped            bool
	CreateTime         sql.NullTime
	SubmitTime         sql.NullTime
	CompleteTime       sql.NullTime
	LastUpdated        sql.NullTime
	LastError          sql.NullString
	Version            int64
}

func (m *jobDBModel) toEntity() *batchstat.Job {
	return &batchstat.Job{
		JobId:              m.JobId,
		JobConfigurationId: m.JobConfigurationId,
		ParentJobId:        nullInt64Ptr(m.ParentJobId),
		Status:             batchstat.JobStatus(m.Status),
		Skipped:            m.Skipped,
		CreateTime:         m.CreateTime.Time,
		SubmitTime:         nullTimePtr(m.SubmitTime),
		CompleteTime:       nullTimePtr(m.CompleteTime),
		LastUpdated:        m.LastUpdated.Time,
		LastError:          nullStringPtr(m.LastError),
		Version:            m.Version,
	}
}

type jobConfigurationDBModel struct {
	JobConfigurationId         int64
	BatchId                    int64
	ConfigurationId            int64
	Skipped                    bool
	Overridden                 bool
	OverrideReason             sql.NullString
	OverrideJobConfigurationId sql.NullInt64
	CreateTime                 sql.NullTime
	LastUpdated                sql.NullTime
}

func (m *jobConfigurationDBModel) toEntity() *batchstat.JobConfiguration {
	return &batchstat.JobConfiguration{
		JobConfigurationId:         m.JobConfigurationId,
		BatchId:                    m.BatchId,
		ConfigurationId:            m.ConfigurationId,
		Skipped:                    m.Skipped,
		Overridden:                 m.Overridden,
		OverrideReason:             nullStringPtr(m.OverrideReason),
		OverrideJobConfigurationId: nullInt64Ptr(m.OverrideJobConfigurationId),
		CreateTime:                 m.CreateTime.Time,
		LastUpdated:                m.LastUpdated.Time,
	}
}

type batchDBModel struct {
	BatchId      int64
	StepId       int64
	Status       string
	CreateTime   sql.NullTime
	SubmitTime   sql.NullTime
	CompleteTime sql.NullTime
	LastUpdated  sql.NullTime
	Version      int64
}

func (m *batchDBModel) toEntity() *batchstat.Batch {
	return &batchstat.Batch{
		BatchId:      m.BatchId,
		StepId:       m.StepId,
		Status:       batchstat.BatchStatus(m.Status),
		CreateTime:   m.CreateTime.Time,
		SubmitTime:   nullTimePtr(m.SubmitTime),
		CompleteTime: nullTimePtr(m.CompleteTime),
		LastUpdated:  m.LastUpdated.Time,
		Version:      m.Version,
	}
}

type configurationDBModel struct {
	ConfigurationId int64
	Name            string
	Settings        string
	Footprint       string
	CreateTime      sql.NullTime
}

func (m *configurationDBModel) toEntity() (*batchstat.Configuration, error) {
	settings := batchstat.NewSettings()
	if m.Settings != "" {
		if err := settings.FromString(m.Settings); err != nil {
			return nil, err
		}
	}
	return &batchstat.Configuration{
		ConfigurationId: m.ConfigurationId,
		Name:            m.Name,
		Settings:        settings,
		Footprint:       m.Footprint,
		CreateTime:      m.CreateTime.Time,
	}, nil
}

type jobStatusRuleDBModel struct {
	Skipped        bool
	Status         string
	ReportStatus   string
	AgeCalculation string
	NextBestAction string
	IsTerminal     bool
}

func (m *jobStatusRuleDBModel) toEntity() *batchstat.JobStatusRule {
	return &batchstat.JobStatusRule{
		Skipped:        m.Skipped,
		Status:         batchstat.JobStatus(m.Status),
		ReportStatus:   batchstat.ReportStatus(m.ReportStatus),
		AgeCalculation: batchstat.AgeCalculation(m.AgeCalculation),
		NextBestAction: m.NextBestAction,
		IsTerminal:     m.IsTerminal,
	}
}

func nullTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func nullStringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullInt64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	i := v.Int64
	return &i
}
