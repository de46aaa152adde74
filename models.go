package batchstat

import (
	"time"
)

// Job one concrete execution attempt against the external compute system.
// Rows are created by the submission pipeline and mutated by the polling
// pipeline, this engine only reads them.
type Job struct {
	JobId              int64
	JobConfigurationId int64
	ParentJobId        *int64
	Status             JobStatus
	Skipped            bool
	CreateTime         time.Time
	SubmitTime         *time.Time
	CompleteTime       *time.Time
	LastUpdated        time.Time
	LastError          *string
	Version            int64
}

// JobConfiguration one parameterized unit of work within a batch, potentially
// resubmitted as multiple Jobs. OverrideJobConfigurationId links to the
// configuration that superseded this one.
type JobConfiguration struct {
	JobConfigurationId         int64
	BatchId                    int64
	ConfigurationId            int64
	Skipped                    bool
	Overridden                 bool
	OverrideReason             *string
	OverrideJobConfigurationId *int64
	CreateTime                 time.Time
	LastUpdated                time.Time
}

// Batch a unit of work comprising many job configurations submitted together,
// owned by a workflow step.
type Batch struct {
	BatchId      int64
	StepId       int64
	Status       BatchStatus
	CreateTime   time.Time
	SubmitTime   *time.Time
	CompleteTime *time.Time
	LastUpdated  time.Time
	Version      int64
}

// Configuration point-in-time settings snapshot referenced by a
// JobConfiguration. Footprint is the md5 of the settings, two configurations
// with the same footprint carry identical settings.
type Configuration struct {
	ConfigurationId int64
	Name            string
	Settings        Settings
	Footprint       string
	CreateTime      time.Time
}

// JobStatusRule one row of the rule table: the behavior of a (skipped, raw
// status) pair. The table is the single source of behavioral truth for
// status derivation.
type JobStatusRule struct {
	Skipped        bool
	Status         JobStatus
	ReportStatus   ReportStatus
	AgeCalculation AgeCalculation
	NextBestAction string
	IsTerminal     bool
}

// AgeCalculation selector for the age formula of a status
type AgeCalculation string

const (
	SinceCreated            AgeCalculation = "SINCE_CREATED"
	SinceSubmitted          AgeCalculation = "SINCE_SUBMITTED"
	CompletedMinusSubmitted AgeCalculation = "COMPLETED_MINUS_SUBMITTED"
	UpdatedMinusCreated     AgeCalculation = "UPDATED_MINUS_CREATED"
)

// ResolvedJob derived view of one job, recomputed on every read, never
// persisted. AgeHours is nil when the rule's formula needs a timestamp the
// job does not have yet.
type ResolvedJob struct {
	JobId              int64
	JobConfigurationId int64
	Status             JobStatus
	Skipped            bool
	ReportStatus       ReportStatus
	AgeHours           *float64
	NextBestAction     string
	IsTerminal         bool
	IsSuccessful       bool
	NeedsAttention     bool
	LastError          *string
}

// JobCounts per-raw-status counts over the non-skipped jobs of a configuration
type JobCounts struct {
	Total       int
	Unsubmitted int
	Failed      int
	Cancelled   int
	Errored     int
	Finished    int
}

// AggregatedConfiguration derived view of one job configuration and its jobs
type AggregatedConfiguration struct {
	JobConfigurationId int64
	BatchId            int64
	Skipped            bool
	Overridden         bool
	OverrideReason     *string
	ReportStatus       ConfigurationReportStatus
	Counts             JobCounts
	HasFinishedJob     bool
	HasFailures        bool
	HasErrors          bool
	HasUnsubmitted     bool
	ProgressPercent    float64
}

// AggregatedBatch derived view of one batch, its configurations and jobs
type AggregatedBatch struct {
	BatchId                   int64
	Status                    BatchStatus
	ReportStatus              BatchReportStatus
	TotalConfigurations       int
	NonSkippedConfigurations  int
	FulfilledConfigurations   int
	UnfulfilledConfigurations int
	SkippedConfigurations     int
	Counts                    JobCounts
	TotalJobs                 int
	AllJobsUnsubmitted        bool
	HasAnyFailures            bool
	HasAnyErrors              bool
	CompletionPercent         float64
	AgeHours                  *float64
	RecommendedAction         string
}

// BatchSnapshot one batch with all of its configurations and jobs, read at a
// single consistent point so the rollup never sees a torn view.
type BatchSnapshot struct {
	Batch          *Batch
	Configurations []*JobConfiguration
	Jobs           []*Job
}
