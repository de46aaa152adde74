package batchstat

// Repository access to the persisted workflow rows. Find methods return nil
// without error when the entity does not exist, stores report access failures
// as BatchError. UpdateJobStatus is the single write on the interface, it is
// used by the polling collaborator and must enforce the job lifecycle
// transition table.
type Repository interface {
	FindJob(jobId int64) (*Job, BatchError)
	FindJobsByConfiguration(jobConfigurationId int64) ([]*Job, BatchError)
	FindJobsByBatch(batchId int64) ([]*Job, BatchError)

	FindJobConfiguration(jobConfigurationId int64) (*JobConfiguration, BatchError)
	FindConfigurationsByBatch(batchId int64) ([]*JobConfiguration, BatchError)

	FindBatch(batchId int64) (*Batch, BatchError)
	FindConfiguration(configurationId int64) (*Configuration, BatchError)

	// FindBatchSnapshot read a batch with all of its configurations and jobs
	// at a single consistent point, so rollups never run against a torn view.
	FindBatchSnapshot(batchId int64) (*BatchSnapshot, BatchError)

	LoadStatusRules() ([]*JobStatusRule, BatchError)
	SaveStatusRules(rules []*JobStatusRule) BatchError

	UpdateJobStatus(jobId int64, from, to JobStatus) BatchError
}
