package batchstat

import (
	"testing"
	"time"

	"github.com/bmizerany/assert"
)

func testBatch(status BatchStatus) *Batch {
	return &Batch{
		BatchId:     1,
		StepId:      5,
		Status:      status,
		CreateTime:  testNow.Add(-24 * time.Hour),
		LastUpdated: testNow.Add(-1 * time.Hour),
	}
}

func testBatchAggregator(t *testing.T) (*BatchAggregator, *ConfigurationAggregator) {
	return NewBatchAggregatorWithClock(fixedClock), NewConfigurationAggregator()
}

func aggregateConfig(t *testing.T, aggregator *ConfigurationAggregator, config *JobConfiguration, jobs []*ResolvedJob) *AggregatedConfiguration {
	aggregated, err := aggregator.Aggregate(config, jobs)
	assert.T(t, err == nil, err)
	return aggregated
}

func TestBatchTwoConfigsPartiallyFulfilled(t *testing.T) {
	batchAggregator, configAggregator := testBatchAggregator(t)
	batch := testBatch(BatchActive)
	batch.SubmitTime = timePtr(testNow.Add(-12 * time.Hour))

	jobsA := []*ResolvedJob{resolvedJob(1, 1, FINISHED)}
	jobsB := []*ResolvedJob{resolvedJob(2, 2, INITIATED)}
	configs := []*AggregatedConfiguration{
		aggregateConfig(t, configAggregator, testConfig(1, 1), jobsA),
		aggregateConfig(t, configAggregator, testConfig(2, 1), jobsB),
	}
	assert.Equal(t, ConfigFulfilled, configs[0].ReportStatus)
	assert.Equal(t, ConfigUnfulfilled, configs[1].ReportStatus)

	aggregated, err := batchAggregator.Aggregate(batch, configs, append(jobsA, jobsB...))
	assert.T(t, err == nil, err)
	assert.Equal(t, 1, aggregated.FulfilledConfigurations)
	assert.Equal(t, 2, aggregated.TotalConfigurations)
	assert.T(t, !aggregated.AllJobsUnsubmitted)
	assert.Equal(t, BatchReportIncomplete, aggregated.ReportStatus)
	assert.Equal(t, 50.0, aggregated.CompletionPercent)
	assert.Equal(t, ActionTrackJobs, aggregated.RecommendedAction)
}

func TestBatchAllJobsUnsubmitted(t *testing.T) {
	batchAggregator, configAggregator := testBatchAggregator(t)
	batch := testBatch(BatchInitiated)

	var jobs []*ResolvedJob
	var configs []*AggregatedConfiguration
	jobId := int64(1)
	for configId := int64(1); configId <= 3; configId++ {
		var configJobs []*ResolvedJob
		count := 1
		if configId == 1 {
			count = 3
		}
		for i := 0; i < count; i++ {
			configJobs = append(configJobs, resolvedJob(jobId, configId, INITIATED))
			jobId++
		}
		jobs = append(jobs, configJobs...)
		configs = append(configs, aggregateConfig(t, configAggregator, testConfig(configId, 1), configJobs))
	}
	assert.Equal(t, 5, len(jobs))

	aggregated, err := batchAggregator.Aggregate(batch, configs, jobs)
	assert.T(t, err == nil, err)
	assert.T(t, aggregated.AllJobsUnsubmitted)
	assert.Equal(t, BatchReportUnsubmitted, aggregated.ReportStatus)
	assert.Equal(t, ActionSubmitBatch, aggregated.RecommendedAction)
}

func TestBatchSkipPrecedenceDominatesErrors(t *testing.T) {
	batchAggregator, configAggregator := testBatchAggregator(t)
	batch := testBatch(BatchActive)
	batch.SubmitTime = timePtr(testNow.Add(-2 * time.Hour))

	configA := testConfig(1, 1)
	configA.Skipped = true
	configB := testConfig(2, 1)
	configB.Skipped = true
	jobs := []*ResolvedJob{resolvedJob(1, 1, ERROR), resolvedJob(2, 2, ERROR)}
	configs := []*AggregatedConfiguration{
		aggregateConfig(t, configAggregator, configA, jobs[:1]),
		aggregateConfig(t, configAggregator, configB, jobs[1:]),
	}

	aggregated, err := batchAggregator.Aggregate(batch, configs, jobs)
	assert.T(t, err == nil, err)
	assert.Equal(t, BatchReportSkipped, aggregated.ReportStatus)
	assert.Equal(t, 0.0, aggregated.CompletionPercent)
}

func TestBatchErrorPrecedesFailed(t *testing.T) {
	batchAggregator, configAggregator := testBatchAggregator(t)
	batch := testBatch(BatchActive)
	batch.SubmitTime = timePtr(testNow.Add(-2 * time.Hour))

	jobsA := []*ResolvedJob{resolvedJob(1, 1, FAILED)}
	jobsB := []*ResolvedJob{resolvedJob(2, 2, ERROR)}
	configs := []*AggregatedConfiguration{
		aggregateConfig(t, configAggregator, testConfig(1, 1), jobsA),
		aggregateConfig(t, configAggregator, testConfig(2, 1), jobsB),
	}

	aggregated, err := batchAggregator.Aggregate(batch, configs, append(jobsA, jobsB...))
	assert.T(t, err == nil, err)
	assert.Equal(t, BatchReportError, aggregated.ReportStatus)
	assert.T(t, aggregated.HasAnyFailures)
	assert.T(t, aggregated.HasAnyErrors)
}

func TestBatchAllFulfilled(t *testing.T) {
	batchAggregator, configAggregator := testBatchAggregator(t)
	batch := testBatch(BatchCompleted)
	batch.SubmitTime = timePtr(testNow.Add(-10 * time.Hour))
	batch.CompleteTime = timePtr(testNow.Add(-4 * time.Hour))

	jobsA := []*ResolvedJob{resolvedJob(1, 1, FINISHED)}
	jobsB := []*ResolvedJob{resolvedJob(2, 2, FINISHED)}
	configs := []*AggregatedConfiguration{
		aggregateConfig(t, configAggregator, testConfig(1, 1), jobsA),
		aggregateConfig(t, configAggregator, testConfig(2, 1), jobsB),
	}

	aggregated, err := batchAggregator.Aggregate(batch, configs, append(jobsA, jobsB...))
	assert.T(t, err == nil, err)
	assert.Equal(t, BatchReportCompleted, aggregated.ReportStatus)
	assert.Equal(t, 100.0, aggregated.CompletionPercent)
	assert.Equal(t, ActionProceedNextStep, aggregated.RecommendedAction)
	assert.T(t, aggregated.AgeHours != nil)
	assert.Equal(t, 6.0, *aggregated.AgeHours)
}

func TestBatchEmptyIsVacuouslyUnsubmittedOnlyWithJobs(t *testing.T) {
	batchAggregator, _ := testBatchAggregator(t)
	batch := testBatch(BatchInitiated)
	// no configurations, no jobs: allJobsUnsubmitted holds vacuously but the
	// UNSUBMITTED rule requires at least one job
	aggregated, err := batchAggregator.Aggregate(batch, nil, nil)
	assert.T(t, err == nil, err)
	assert.T(t, aggregated.AllJobsUnsubmitted)
	assert.Equal(t, BatchReportIncomplete, aggregated.ReportStatus)
	assert.Equal(t, 0.0, aggregated.CompletionPercent)
	assert.Equal(t, ActionSubmitBatch, aggregated.RecommendedAction)
}

func TestBatchRecommendedActions(t *testing.T) {
	batchAggregator, configAggregator := testBatchAggregator(t)

	// ACTIVE with no unfulfilled configurations reconciles
	batch := testBatch(BatchActive)
	batch.SubmitTime = timePtr(testNow.Add(-1 * time.Hour))
	jobs := []*ResolvedJob{resolvedJob(1, 1, FINISHED)}
	configs := []*AggregatedConfiguration{aggregateConfig(t, configAggregator, testConfig(1, 1), jobs)}
	aggregated, err := batchAggregator.Aggregate(batch, configs, jobs)
	assert.T(t, err == nil, err)
	assert.Equal(t, ActionReconBatch, aggregated.RecommendedAction)

	// FAILED and ERROR route to review
	for _, status := range []BatchStatus{BatchFailed, BatchErrored} {
		aggregated, err = batchAggregator.Aggregate(testBatch(status), configs, jobs)
		assert.T(t, err == nil, err)
		assert.Equal(t, ActionReviewFailedJobs, aggregated.RecommendedAction)
	}

	// CANCELLED has no table entry
	aggregated, err = batchAggregator.Aggregate(testBatch(BatchCancelled), configs, jobs)
	assert.T(t, err == nil, err)
	assert.Equal(t, ActionNone, aggregated.RecommendedAction)
}

func TestBatchAgeFormulas(t *testing.T) {
	batchAggregator, _ := testBatchAggregator(t)

	// INITIATED ages since creation
	aggregated, err := batchAggregator.Aggregate(testBatch(BatchInitiated), nil, nil)
	assert.T(t, err == nil, err)
	assert.T(t, aggregated.AgeHours != nil)
	assert.Equal(t, 24.0, *aggregated.AgeHours)

	// ACTIVE without a submit timestamp is not applicable
	aggregated, err = batchAggregator.Aggregate(testBatch(BatchActive), nil, nil)
	assert.T(t, err == nil, err)
	assert.T(t, aggregated.AgeHours == nil)

	// terminal statuses without completion timestamps are not applicable
	batch := testBatch(BatchFailed)
	batch.SubmitTime = timePtr(testNow.Add(-3 * time.Hour))
	aggregated, err = batchAggregator.Aggregate(batch, nil, nil)
	assert.T(t, err == nil, err)
	assert.T(t, aggregated.AgeHours == nil)
}

func TestBatchRejectsForeignChildren(t *testing.T) {
	batchAggregator, configAggregator := testBatchAggregator(t)
	batch := testBatch(BatchActive)

	// configuration of another batch
	foreign := aggregateConfig(t, configAggregator, testConfig(1, 99), []*ResolvedJob{resolvedJob(1, 1, INITIATED)})
	aggregated, err := batchAggregator.Aggregate(batch, []*AggregatedConfiguration{foreign}, nil)
	assert.T(t, aggregated == nil)
	assert.T(t, err != nil)
	assert.Equal(t, ErrCodeInconsistent, err.Code())

	// job referencing a configuration outside the batch
	config := aggregateConfig(t, configAggregator, testConfig(1, 1), nil)
	stray := resolvedJob(7, 42, RUNNING)
	aggregated, err = batchAggregator.Aggregate(batch, []*AggregatedConfiguration{config}, []*ResolvedJob{stray})
	assert.T(t, aggregated == nil)
	assert.T(t, err != nil)
	assert.Equal(t, ErrCodeInconsistent, err.Code())
}
