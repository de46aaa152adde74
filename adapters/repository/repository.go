package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/chararch/batchstat"
	"github.com/chararch/batchstat/adapters/txn"
)

const (
	jobColumns              = "job_id, job_configuration_id, parent_job_id, status, skipped, create_time, submit_time, complete_time, last_updated, last_error, version"
	jobConfigurationColumns = "job_configuration_id, batch_id, configuration_id, skipped, overridden, override_reason, override_job_configuration_id, create_time, last_updated"
	batchColumns            = "batch_id, step_id, status, create_time, submit_time, complete_time, last_updated, version"
	configurationColumns    = "configuration_id, name, settings, footprint, create_time"
	ruleColumns             = "skipped, status, report_status, age_calculation, next_best_action, is_terminal"
)

// queryer satisfied by *sql.DB and *sql.Tx, lets the snapshot read run the
// same queries inside one transaction.
type queryer interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

// New create a mysql backed batchstat.Repository. The sql driver must be
// registered by the caller.
func New(db *sql.DB, logger batchstat.Logger) batchstat.Repository {
	return &mysqlRepository{
		db:     db,
		txnMgr: txn.NewTransactionManager(db),
		logger: logger,
	}
}

type mysqlRepository struct {
	db     *sql.DB
	txnMgr batchstat.TransactionManager
	logger batchstat.Logger
}

func (r *mysqlRepository) FindJob(jobId int64) (*batchstat.Job, batchstat.BatchError) {
	jobs, err := r.queryJobs(r.db, "SELECT "+jobColumns+" FROM job WHERE job_id = ?", jobId)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, nil
	}
	return jobs[0], nil
}

func (r *mysqlRepository) FindJobsByConfiguration(jobConfigurationId int64) ([]*batchstat.Job, batchstat.BatchError) {
	return r.queryJobs(r.db, "SELECT "+jobColumns+" FROM job WHERE job_configuration_id = ? ORDER BY job_id", jobConfigurationId)
}

func (r *mysqlRepository) FindJobsByBatch(batchId int64) ([]*batchstat.Job, batchstat.BatchError) {
	return r.queryJobs(r.db, "SELECT "+jobColumnsAliased("j")+" FROM job j JOIN job_configuration jc ON j.job_configuration_id = jc.job_configuration_id WHERE jc.batch_id = ? ORDER BY j.job_id", batchId)
}

func (r *mysqlRepository) FindJobConfiguration(jobConfigurationId int64) (*batchstat.JobConfiguration, batchstat.BatchError) {
	configs, err := r.queryJobConfigurations(r.db, "SELECT "+jobConfigurationColumns+" FROM job_configuration WHERE job_configuration_id = ?", jobConfigurationId)
	if err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		return nil, nil
	}
	return configs[0], nil
}

func (r *mysqlRepository) FindConfigurationsByBatch(batchId int64) ([]*batchstat.JobConfiguration, batchstat.BatchError) {
	return r.queryJobConfigurations(r.db, "SELECT "+jobConfigurationColumns+" FROM job_configuration WHERE batch_id = ? ORDER BY job_configuration_id", batchId)
}

func (r *mysqlRepository) FindBatch(batchId int64) (*batchstat.Batch, batchstat.BatchError) {
	return r.queryBatch(r.db, batchId)
}

func (r *mysqlRepository) FindConfiguration(configurationId int64) (*batchstat.Configuration, batchstat.BatchError) {
	rows, err := r.db.Query("SELECT "+configurationColumns+" FROM configuration WHERE configuration_id = ?", configurationId)
	if err != nil {
		return nil, batchstat.NewBatchError(batchstat.ErrCodeDbFail, "query configuration:%v failed", configurationId, err)
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, nil
	}
	m := configurationDBModel{}
	if err := rows.Scan(&m.ConfigurationId, &m.Name, &m.Settings, &m.Footprint, &m.CreateTime); err != nil {
		return nil, batchstat.NewBatchError(batchstat.ErrCodeDbFail, "scan configuration:%v failed", configurationId, err)
	}
	entity, err := m.toEntity()
	if err != nil {
		return nil, batchstat.NewBatchError(batchstat.ErrCodeDbFail, "parse settings of configuration:%v failed", configurationId, err)
	}
	return entity, nil
}

// FindBatchSnapshot read a batch with its configurations and jobs in a single
// transaction, the rollup never runs against a torn view of children.
func (r *mysqlRepository) FindBatchSnapshot(batchId int64) (*batchstat.BatchSnapshot, batchstat.BatchError) {
	tx, err := r.txnMgr.BeginReadTx()
	if err != nil {
		return nil, err
	}
	tx1 := tx.(*sql.Tx)
	snapshot, err := r.readSnapshot(tx1, batchId)
	if err != nil {
		if er := r.txnMgr.Rollback(tx); er != nil {
			r.logger.Error(context.Background(), "rollback snapshot read of batch:%v error:%v", batchId, er)
		}
		return nil, err
	}
	if err := r.txnMgr.Commit(tx); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (r *mysqlRepository) readSnapshot(tx *sql.Tx, batchId int64) (*batchstat.BatchSnapshot, batchstat.BatchError) {
	batch, err := r.queryBatch(tx, batchId)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, nil
	}
	configs, err := r.queryJobConfigurations(tx, "SELECT "+jobConfigurationColumns+" FROM job_configuration WHERE batch_id = ? ORDER BY job_configuration_id", batchId)
	if err != nil {
		return nil, err
	}
	jobs, err := r.queryJobs(tx, "SELECT "+jobColumnsAliased("j")+" FROM job j JOIN job_configuration jc ON j.job_configuration_id = jc.job_configuration_id WHERE jc.batch_id = ? ORDER BY j.job_id", batchId)
	if err != nil {
		return nil, err
	}
	return &batchstat.BatchSnapshot{Batch: batch, Configurations: configs, Jobs: jobs}, nil
}

func (r *mysqlRepository) LoadStatusRules() ([]*batchstat.JobStatusRule, batchstat.BatchError) {
	rows, err := r.db.Query("SELECT " + ruleColumns + " FROM job_status_rule")
	if err != nil {
		return nil, batchstat.NewBatchError(batchstat.ErrCodeDbFail, "query job status rules failed", err)
	}
	defer func() { _ = rows.Close() }()
	rules := make([]*batchstat.JobStatusRule, 0)
	for rows.Next() {
		m := jobStatusRuleDBModel{}
		if err := rows.Scan(&m.Skipped, &m.Status, &m.ReportStatus, &m.AgeCalculation, &m.NextBestAction, &m.IsTerminal); err != nil {
			return nil, batchstat.NewBatchError(batchstat.ErrCodeDbFail, "scan job status rule failed", err)
		}
		rules = append(rules, m.toEntity())
	}
	if err := rows.Err(); err != nil {
		return nil, batchstat.NewBatchError(batchstat.ErrCodeDbFail, "iterate job status rules failed", err)
	}
	return rules, nil
}

// SaveStatusRules replace the persisted rule table, used for seeding
func (r *mysqlRepository) SaveStatusRules(rules []*batchstat.JobStatusRule) batchstat.BatchError {
	tx, err := r.txnMgr.BeginTx()
	if err != nil {
		return err
	}
	tx1 := tx.(*sql.Tx)
	if _, er := tx1.Exec("DELETE FROM job_status_rule"); er != nil {
		_ = r.txnMgr.Rollback(tx)
		return batchstat.NewBatchError(batchstat.ErrCodeDbFail, "clear job status rules failed", er)
	}
	for _, rule := range rules {
		_, er := tx1.Exec("INSERT INTO job_status_rule ("+ruleColumns+") VALUES (?, ?, ?, ?, ?, ?)",
			rule.Skipped, string(rule.Status), string(rule.ReportStatus), string(rule.AgeCalculation), rule.NextBestAction, rule.IsTerminal)
		if er != nil {
			_ = r.txnMgr.Rollback(tx)
			return batchstat.NewBatchError(batchstat.ErrCodeDbFail, "insert job status rule skipped:%v status:%v failed", rule.Skipped, rule.Status, er)
		}
	}
	return r.txnMgr.Commit(tx)
}

// UpdateJobStatus persist a lifecycle transition of a job. The transition is
// validated against the lifecycle table and guarded by the current status, a
// concurrent change leaves the row untouched and is reported.
func (r *mysqlRepository) UpdateJobStatus(jobId int64, from, to batchstat.JobStatus) batchstat.BatchError {
	if err := batchstat.ValidateTransition(from, to); err != nil {
		return err
	}
	res, err := r.db.Exec("UPDATE job SET status = ?, last_updated = ?, version = version + 1 WHERE job_id = ? AND status = ?",
		string(to), time.Now(), jobId, string(from))
	if err != nil {
		return batchstat.NewBatchError(batchstat.ErrCodeDbFail, "update status of job:%v failed", jobId, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return batchstat.NewBatchError(batchstat.ErrCodeDbFail, "update status of job:%v failed", jobId, err)
	}
	if affected == 0 {
		return batchstat.NewBatchError(batchstat.ErrCodeGeneral, "job:%v is no longer in status:%v, transition to:%v not applied", jobId, from, to)
	}
	return nil
}

func (r *mysqlRepository) queryBatch(q queryer, batchId int64) (*batchstat.Batch, batchstat.BatchError) {
	rows, err := q.Query("SELECT "+batchColumns+" FROM batch WHERE batch_id = ?", batchId)
	if err != nil {
		return nil, batchstat.NewBatchError(batchstat.ErrCodeDbFail, "query batch:%v failed", batchId, err)
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, nil
	}
	m := batchDBModel{}
	if err := rows.Scan(&m.BatchId, &m.StepId, &m.Status, &m.CreateTime, &m.SubmitTime, &m.CompleteTime, &m.LastUpdated, &m.Version); err != nil {
		return nil, batchstat.NewBatchError(batchstat.ErrCodeDbFail, "scan batch:%v failed", batchId, err)
	}
	return m.toEntity(), nil
}

func (r *mysqlRepository) queryJobs(q queryer, query string, args ...interface{}) ([]*batchstat.Job, batchstat.BatchError) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, batchstat.NewBatchError(batchstat.ErrCodeDbFail, "query jobs failed", err)
	}
	defer func() { _ = rows.Close() }()
	jobs := make([]*batchstat.Job, 0)
	for rows.Next() {
		m := jobDBModel{}
		if err := rows.Scan(&m.JobId, &m.JobConfigurationId, &m.ParentJobId, &m.Status, &m.Skipped, &m.CreateTime, &m.SubmitTime, &m.CompleteTime, &m.LastUpdated, &m.LastError, &m.Version); err != nil {
			return nil, batchstat.NewBatchError(batchstat.ErrCodeDbFail, "scan job failed", err)
		}
		jobs = append(jobs, m.toEntity())
	}
	if err := rows.Err(); err != nil {
		return nil, batchstat.NewBatchError(batchstat.ErrCodeDbFail, "iterate jobs failed", err)
	}
	return jobs, nil
}

func (r *mysqlRepository) queryJobConfigurations(q queryer, query string, args ...interface{}) ([]*batchstat.JobConfiguration, batchstat.BatchError) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, batchstat.NewBatchError(batchstat.ErrCodeDbFail, "query job configurations failed", err)
	}
	defer func() { _ = rows.Close() }()
	configs := make([]*batchstat.JobConfiguration, 0)
	for rows.Next() {
		m := jobConfigurationDBModel{}
		if err := rows.Scan(&m.JobConfigurationId, &m.BatchId, &m.ConfigurationId, &m.Skipped, &m.Overridden, &m.OverrideReason, &m.OverrideJobConfigurationId, &m.CreateTime, &m.LastUpdated); err != nil {
			return nil, batchstat.NewBatchError(batchstat.ErrCodeDbFail, "scan job configuration failed", err)
		}
		configs = append(configs, m.toEntity())
	}
	if err := rows.Err(); err != nil {
		return nil, batchstat.NewBatchError(batchstat.ErrCodeDbFail, "iterate job configurations failed", err)
	}
	return configs, nil
}

func jobColumnsAliased(alias string) string {
	return alias + ".job_id, " + alias + ".job_configuration_id, " + alias + ".parent_job_id, " + alias + ".status, " + alias + ".skipped, " + alias + ".create_time, " + alias + ".submit_time, " + alias + ".complete_time, " + alias + ".last_updated, " + alias + ".last_error, " + alias + ".version"
}
