package batchstat

import (
	"testing"

	"github.com/bmizerany/assert"
)

func testConfig(id, batchId int64) *JobConfiguration {
	return &JobConfiguration{
		JobConfigurationId: id,
		BatchId:            batchId,
		ConfigurationId:    100 + id,
	}
}

func resolvedJob(id, configId int64, status JobStatus) *ResolvedJob {
	report := ReportInProgress
	switch status {
	case INITIATED:
		report = ReportUnsubmitted
	case FINISHED:
		report = ReportCompleted
	case FAILED:
		report = ReportFailed
	case ERROR:
		report = ReportError
	case CANCELLED:
		report = ReportCancelled
	}
	return &ResolvedJob{
		JobId:              id,
		JobConfigurationId: configId,
		Status:             status,
		ReportStatus:       report,
	}
}

func skippedJob(id, configId int64, status JobStatus) *ResolvedJob {
	job := resolvedJob(id, configId, status)
	job.Skipped = true
	job.ReportStatus = ReportSkipped
	return job
}

func TestAggregateEmptyConfiguration(t *testing.T) {
	aggregator := NewConfigurationAggregator()
	aggregated, err := aggregator.Aggregate(testConfig(1, 1), nil)
	assert.T(t, err == nil, err)
	assert.Equal(t, ConfigUnfulfilled, aggregated.ReportStatus)
	assert.Equal(t, 0, aggregated.Counts.Total)
	assert.Equal(t, 0.0, aggregated.ProgressPercent)
}

func TestAggregateFinishedJobWins(t *testing.T) {
	aggregator := NewConfigurationAggregator()
	jobs := []*ResolvedJob{
		resolvedJob(1, 1, FAILED),
		resolvedJob(2, 1, FINISHED),
		resolvedJob(3, 1, ERROR),
		resolvedJob(4, 1, INITIATED),
	}
	aggregated, err := aggregator.Aggregate(testConfig(1, 1), jobs)
	assert.T(t, err == nil, err)
	assert.Equal(t, ConfigFulfilled, aggregated.ReportStatus)
	assert.T(t, aggregated.HasFinishedJob)
	assert.T(t, aggregated.HasFailures)
	assert.T(t, aggregated.HasErrors)
	assert.T(t, aggregated.HasUnsubmitted)
	assert.Equal(t, 4, aggregated.Counts.Total)
	assert.Equal(t, 1, aggregated.Counts.Finished)
	assert.Equal(t, 25.0, aggregated.ProgressPercent)
}

func TestAggregateSkippedConfiguration(t *testing.T) {
	aggregator := NewConfigurationAggregator()
	config := testConfig(1, 1)
	config.Skipped = true
	// skip precedence dominates finished jobs
	aggregated, err := aggregator.Aggregate(config, []*ResolvedJob{resolvedJob(1, 1, FINISHED)})
	assert.T(t, err == nil, err)
	assert.Equal(t, ConfigSkipped, aggregated.ReportStatus)
}

func TestAggregateOverriddenConfigurationIsSkipped(t *testing.T) {
	aggregator := NewConfigurationAggregator()
	config := testConfig(1, 1)
	config.Overridden = true
	reason := "superseded by rerun"
	config.OverrideReason = &reason
	aggregated, err := aggregator.Aggregate(config, []*ResolvedJob{resolvedJob(1, 1, FAILED)})
	assert.T(t, err == nil, err)
	assert.Equal(t, ConfigSkipped, aggregated.ReportStatus)
	assert.T(t, aggregated.Overridden)
	assert.Equal(t, &reason, aggregated.OverrideReason)
}

func TestAggregateExcludesSkippedJobsFromCounts(t *testing.T) {
	aggregator := NewConfigurationAggregator()
	jobs := []*ResolvedJob{
		resolvedJob(1, 1, INITIATED),
		skippedJob(2, 1, FAILED),
		skippedJob(3, 1, FINISHED),
	}
	aggregated, err := aggregator.Aggregate(testConfig(1, 1), jobs)
	assert.T(t, err == nil, err)
	assert.Equal(t, 1, aggregated.Counts.Total)
	assert.Equal(t, 0, aggregated.Counts.Failed)
	assert.Equal(t, 0, aggregated.Counts.Finished)
	// the skipped FINISHED job does not fulfill the configuration
	assert.Equal(t, ConfigUnfulfilled, aggregated.ReportStatus)
}

func TestAggregateProgressRounding(t *testing.T) {
	aggregator := NewConfigurationAggregator()
	jobs := []*ResolvedJob{
		resolvedJob(1, 1, FINISHED),
		resolvedJob(2, 1, INITIATED),
		resolvedJob(3, 1, INITIATED),
	}
	aggregated, err := aggregator.Aggregate(testConfig(1, 1), jobs)
	assert.T(t, err == nil, err)
	assert.Equal(t, 33.33, aggregated.ProgressPercent)
	assert.T(t, aggregated.ProgressPercent >= 0 && aggregated.ProgressPercent <= 100)
}

func TestAggregateRejectsForeignJobs(t *testing.T) {
	aggregator := NewConfigurationAggregator()
	aggregated, err := aggregator.Aggregate(testConfig(1, 1), []*ResolvedJob{resolvedJob(1, 99, FINISHED)})
	assert.T(t, aggregated == nil)
	assert.T(t, err != nil)
	assert.Equal(t, ErrCodeInconsistent, err.Code())
}
