package batchstat

import (
	"math"
	"time"
)

// Resolver projects one Job row into its derived ResolvedJob view. Purely a
// projection, deterministic for a fixed clock and a fixed job snapshot, never
// mutates the job.
type Resolver struct {
	registry *RuleRegistry
	now      func() time.Time
}

func NewResolver(registry *RuleRegistry) *Resolver {
	return &Resolver{registry: registry, now: time.Now}
}

// NewResolverWithClock a resolver with a fixed clock, for deterministic tests
func NewResolverWithClock(registry *RuleRegistry, now func() time.Time) *Resolver {
	return &Resolver{registry: registry, now: now}
}

// Resolve derive the reporting attributes of a job from the rule table
func (r *Resolver) Resolve(job *Job) (*ResolvedJob, BatchError) {
	rule, err := r.registry.Resolve(job.Skipped, job.Status)
	if err != nil {
		return nil, err
	}
	age, err := r.ageHours(rule.AgeCalculation, job)
	if err != nil {
		return nil, err
	}
	return &ResolvedJob{
		JobId:              job.JobId,
		JobConfigurationId: job.JobConfigurationId,
		Status:             job.Status,
		Skipped:            job.Skipped,
		ReportStatus:       rule.ReportStatus,
		AgeHours:           age,
		NextBestAction:     rule.NextBestAction,
		IsTerminal:         rule.IsTerminal,
		IsSuccessful:       job.Status == FINISHED && !job.Skipped,
		NeedsAttention:     job.Status == FAILED || job.Status == CANCELLED || job.Status == ERROR,
		LastError:          job.LastError,
	}, nil
}

// ageHours age of the job per the rule's formula, nil when a required
// timestamp is absent so callers never see a negative or NaN duration.
func (r *Resolver) ageHours(calculation AgeCalculation, job *Job) (*float64, BatchError) {
	switch calculation {
	case SinceCreated:
		return hoursPtr(hoursBetween(job.CreateTime, r.now())), nil
	case SinceSubmitted:
		if job.SubmitTime == nil {
			return nil, nil
		}
		return hoursPtr(hoursBetween(*job.SubmitTime, r.now())), nil
	case CompletedMinusSubmitted:
		if job.SubmitTime == nil || job.CompleteTime == nil {
			return nil, nil
		}
		return hoursPtr(hoursBetween(*job.SubmitTime, *job.CompleteTime)), nil
	case UpdatedMinusCreated:
		return hoursPtr(hoursBetween(job.CreateTime, job.LastUpdated)), nil
	}
	return nil, NewBatchError(ErrCodeGeneral, "unknown age calculation:%v", calculation)
}

func hoursBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours()
}

func hoursPtr(v float64) *float64 {
	return &v
}

// round2 round to two decimal places, used for percentages
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
