package batchstat

import (
	"github.com/samber/lo"
)

// ConfigurationAggregator rolls the resolved jobs of one job configuration up
// into its configuration-level reporting status and counts. Pure projection
// over the snapshot passed in.
type ConfigurationAggregator struct {
}

func NewConfigurationAggregator() *ConfigurationAggregator {
	return &ConfigurationAggregator{}
}

// Aggregate derive the configuration-level view. Every job must belong to the
// configuration, anything else is an inconsistent snapshot and is reported,
// never coerced to a default status.
func (a *ConfigurationAggregator) Aggregate(config *JobConfiguration, jobs []*ResolvedJob) (*AggregatedConfiguration, BatchError) {
	for _, job := range jobs {
		if job.JobConfigurationId != config.JobConfigurationId {
			return nil, NewBatchError(ErrCodeInconsistent, "job:%v belongs to configuration:%v, not to configuration:%v",
				job.JobId, job.JobConfigurationId, config.JobConfigurationId)
		}
	}

	// individually skipped jobs do not participate in counts
	counted := lo.Filter(jobs, func(job *ResolvedJob, _ int) bool { return !job.Skipped })
	counts := JobCounts{
		Total:       len(counted),
		Unsubmitted: countByStatus(counted, INITIATED),
		Failed:      countByStatus(counted, FAILED),
		Cancelled:   countByStatus(counted, CANCELLED),
		Errored:     countByStatus(counted, ERROR),
		Finished:    countByStatus(counted, FINISHED),
	}
	hasFinished := counts.Finished > 0

	// a configuration superseded by an override carries no work of its own,
	// it aggregates as skipped
	skipped := config.Skipped || config.Overridden

	progress := float64(0)
	if counts.Total > 0 {
		progress = round2(float64(counts.Finished) / float64(counts.Total) * 100)
	}

	return &AggregatedConfiguration{
		JobConfigurationId: config.JobConfigurationId,
		BatchId:            config.BatchId,
		Skipped:            skipped,
		Overridden:         config.Overridden,
		OverrideReason:     config.OverrideReason,
		ReportStatus:       configurationReportStatus(skipped, hasFinished, counts.Total),
		Counts:             counts,
		HasFinishedJob:     hasFinished,
		HasFailures:        counts.Failed > 0,
		HasErrors:          counts.Errored > 0,
		HasUnsubmitted:     counts.Unsubmitted > 0,
		ProgressPercent:    progress,
	}, nil
}

// configurationReportStatus precedence rules of the configuration rollup,
// first match wins. The UNKNOWN arm is unreachable by construction and kept
// so a future gap surfaces as a diagnostic instead of a silent default.
func configurationReportStatus(skipped, hasFinished bool, total int) ConfigurationReportStatus {
	switch {
	case skipped:
		return ConfigSkipped
	case hasFinished:
		return ConfigFulfilled
	case total > 0:
		return ConfigUnfulfilled
	case total == 0:
		return ConfigUnfulfilled
	}
	return ConfigUnknown
}

func countByStatus(jobs []*ResolvedJob, status JobStatus) int {
	return lo.CountBy(jobs, func(job *ResolvedJob) bool { return job.Status == status })
}
