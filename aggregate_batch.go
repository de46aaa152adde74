package batchstat

import (
	"time"

	"github.com/samber/lo"
)

// batch-level recommended operator actions
const (
	ActionSubmitBatch      = "Submit Batch"
	ActionTrackJobs        = "Track Jobs"
	ActionReconBatch       = "Recon Batch"
	ActionReviewFailedJobs = "Review Failed Jobs"
	ActionProceedNextStep  = "Proceed to Next Step"
)

// BatchAggregator rolls the aggregated configurations and resolved jobs of a
// batch up into its batch-level reporting status, completion percentage, age
// and recommended action. Pure projection over the snapshot passed in,
// deterministic for a fixed clock.
type BatchAggregator struct {
	now func() time.Time
}

func NewBatchAggregator() *BatchAggregator {
	return &BatchAggregator{now: time.Now}
}

// NewBatchAggregatorWithClock an aggregator with a fixed clock, for
// deterministic tests
func NewBatchAggregatorWithClock(now func() time.Time) *BatchAggregator {
	return &BatchAggregator{now: now}
}

// Aggregate derive the batch-level view. Configurations must belong to the
// batch and jobs to one of its configurations, anything else is an
// inconsistent snapshot.
func (a *BatchAggregator) Aggregate(batch *Batch, configs []*AggregatedConfiguration, jobs []*ResolvedJob) (*AggregatedBatch, BatchError) {
	configIds := make(map[int64]bool, len(configs))
	for _, config := range configs {
		if config.BatchId != batch.BatchId {
			return nil, NewBatchError(ErrCodeInconsistent, "configuration:%v belongs to batch:%v, not to batch:%v",
				config.JobConfigurationId, config.BatchId, batch.BatchId)
		}
		configIds[config.JobConfigurationId] = true
	}
	for _, job := range jobs {
		if !configIds[job.JobConfigurationId] {
			return nil, NewBatchError(ErrCodeInconsistent, "job:%v references configuration:%v which is not part of batch:%v",
				job.JobId, job.JobConfigurationId, batch.BatchId)
		}
	}

	totalConfigs := len(configs)
	skippedConfigs := countByReportStatus(configs, ConfigSkipped)
	fulfilledConfigs := countByReportStatus(configs, ConfigFulfilled)
	unfulfilledConfigs := countByReportStatus(configs, ConfigUnfulfilled)
	nonSkippedConfigs := totalConfigs - skippedConfigs

	counts := JobCounts{}
	for _, config := range configs {
		counts.Total += config.Counts.Total
		counts.Unsubmitted += config.Counts.Unsubmitted
		counts.Failed += config.Counts.Failed
		counts.Cancelled += config.Counts.Cancelled
		counts.Errored += config.Counts.Errored
		counts.Finished += config.Counts.Finished
	}

	allUnsubmitted := lo.EveryBy(jobs, func(job *ResolvedJob) bool { return job.ReportStatus == ReportUnsubmitted })
	hasErrorReport := lo.SomeBy(jobs, func(job *ResolvedJob) bool { return job.ReportStatus == ReportError })
	hasFailedReport := lo.SomeBy(jobs, func(job *ResolvedJob) bool { return job.ReportStatus == ReportFailed })

	completion := float64(0)
	if nonSkippedConfigs > 0 {
		completion = round2(float64(fulfilledConfigs) / float64(nonSkippedConfigs) * 100)
	}

	return &AggregatedBatch{
		BatchId:                   batch.BatchId,
		Status:                    batch.Status,
		ReportStatus:              batchReportStatus(totalConfigs, skippedConfigs, fulfilledConfigs, len(jobs), allUnsubmitted, hasErrorReport, hasFailedReport),
		TotalConfigurations:       totalConfigs,
		NonSkippedConfigurations:  nonSkippedConfigs,
		FulfilledConfigurations:   fulfilledConfigs,
		UnfulfilledConfigurations: unfulfilledConfigs,
		SkippedConfigurations:     skippedConfigs,
		Counts:                    counts,
		TotalJobs:                 len(jobs),
		AllJobsUnsubmitted:        allUnsubmitted,
		HasAnyFailures:            lo.SomeBy(configs, func(config *AggregatedConfiguration) bool { return config.HasFailures }),
		HasAnyErrors:              lo.SomeBy(configs, func(config *AggregatedConfiguration) bool { return config.HasErrors }),
		CompletionPercent:         completion,
		AgeHours:                  batchAgeHours(batch, a.now()),
		RecommendedAction:         recommendedAction(batch.Status, unfulfilledConfigs),
	}, nil
}

// batchReportStatus precedence rules of the batch rollup. Several conditions
// can hold at once, the first applicable rule is authoritative: a fully
// skipped batch reports SKIPPED even when underlying jobs are in ERROR, and
// ERROR precedes FAILED.
func batchReportStatus(totalConfigs, skippedConfigs, fulfilledConfigs, totalJobs int, allUnsubmitted, hasErrorReport, hasFailedReport bool) BatchReportStatus {
	switch {
	case totalConfigs > 0 && skippedConfigs == totalConfigs:
		return BatchReportSkipped
	case totalConfigs > 0 && fulfilledConfigs == totalConfigs:
		return BatchReportCompleted
	case allUnsubmitted && totalJobs > 0:
		return BatchReportUnsubmitted
	case hasErrorReport:
		return BatchReportError
	case hasFailedReport:
		return BatchReportFailed
	}
	return BatchReportIncomplete
}

// batchAgeHours age of the batch, formula selected by the raw lifecycle
// status, nil when a required timestamp is absent.
func batchAgeHours(batch *Batch, now time.Time) *float64 {
	switch batch.Status {
	case BatchInitiated:
		return hoursPtr(hoursBetween(batch.CreateTime, now))
	case BatchActive:
		if batch.SubmitTime == nil {
			return nil
		}
		return hoursPtr(hoursBetween(*batch.SubmitTime, now))
	case BatchCompleted, BatchFailed, BatchCancelled:
		if batch.SubmitTime == nil || batch.CompleteTime == nil {
			return nil
		}
		return hoursPtr(hoursBetween(*batch.SubmitTime, *batch.CompleteTime))
	}
	return nil
}

// recommendedAction decision table keyed by raw batch status, evaluated top
// down.
func recommendedAction(status BatchStatus, unfulfilledConfigs int) string {
	switch {
	case status == BatchInitiated:
		return ActionSubmitBatch
	case status == BatchActive && unfulfilledConfigs > 0:
		return ActionTrackJobs
	case status == BatchActive:
		return ActionReconBatch
	case status == BatchFailed || status == BatchErrored:
		return ActionReviewFailedJobs
	case status == BatchCompleted:
		return ActionProceedNextStep
	}
	return ActionNone
}

func countByReportStatus(configs []*AggregatedConfiguration, status ConfigurationReportStatus) int {
	return lo.CountBy(configs, func(config *AggregatedConfiguration) bool { return config.ReportStatus == status })
}
