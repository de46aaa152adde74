package batchstat

import (
	"reflect"
	"testing"
	"time"

	"github.com/bmizerany/assert"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return testNow
}

func testResolver(t *testing.T) *Resolver {
	registry, err := NewRuleRegistry(DefaultRules())
	assert.T(t, err == nil, err)
	return NewResolverWithClock(registry, fixedClock)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func testJob(status JobStatus) *Job {
	return &Job{
		JobId:              1,
		JobConfigurationId: 10,
		Status:             status,
		CreateTime:         testNow.Add(-10 * time.Hour),
		LastUpdated:        testNow.Add(-1 * time.Hour),
	}
}

func TestResolveCarriesRuleVerbatim(t *testing.T) {
	resolver := testResolver(t)
	resolved, err := resolver.Resolve(testJob(INITIATED))
	assert.T(t, err == nil, err)
	assert.Equal(t, ReportUnsubmitted, resolved.ReportStatus)
	assert.Equal(t, ActionSubmitJob, resolved.NextBestAction)
	assert.T(t, !resolved.IsTerminal)
}

func TestResolveIsPure(t *testing.T) {
	resolver := testResolver(t)
	job := testJob(RUNNING)
	job.SubmitTime = timePtr(testNow.Add(-4 * time.Hour))
	first, err := resolver.Resolve(job)
	assert.T(t, err == nil, err)
	second, err := resolver.Resolve(job)
	assert.T(t, err == nil, err)
	assert.T(t, reflect.DeepEqual(first, second))
	// the job snapshot is untouched
	assert.Equal(t, RUNNING, job.Status)
}

func TestAgeSinceCreated(t *testing.T) {
	resolver := testResolver(t)
	resolved, err := resolver.Resolve(testJob(INITIATED))
	assert.T(t, err == nil, err)
	assert.T(t, resolved.AgeHours != nil)
	assert.Equal(t, 10.0, *resolved.AgeHours)
}

func TestAgeSinceSubmitted(t *testing.T) {
	resolver := testResolver(t)
	job := testJob(RUNNING)
	job.SubmitTime = timePtr(testNow.Add(-3 * time.Hour))
	resolved, err := resolver.Resolve(job)
	assert.T(t, err == nil, err)
	assert.T(t, resolved.AgeHours != nil)
	assert.Equal(t, 3.0, *resolved.AgeHours)
}

func TestAgeSinceSubmittedNotApplicableWithoutSubmitTime(t *testing.T) {
	resolver := testResolver(t)
	// RUNNING ages since submission, a row without a submit timestamp must
	// yield "not applicable", never a negative duration
	resolved, err := resolver.Resolve(testJob(RUNNING))
	assert.T(t, err == nil, err)
	assert.T(t, resolved.AgeHours == nil)
}

func TestAgeCompletedMinusSubmitted(t *testing.T) {
	resolver := testResolver(t)
	job := testJob(FINISHED)
	job.SubmitTime = timePtr(testNow.Add(-8 * time.Hour))
	job.CompleteTime = timePtr(testNow.Add(-2 * time.Hour))
	resolved, err := resolver.Resolve(job)
	assert.T(t, err == nil, err)
	assert.T(t, resolved.AgeHours != nil)
	assert.Equal(t, 6.0, *resolved.AgeHours)

	// either timestamp missing makes the formula inapplicable
	job.CompleteTime = nil
	resolved, err = resolver.Resolve(job)
	assert.T(t, err == nil, err)
	assert.T(t, resolved.AgeHours == nil)

	job.SubmitTime = nil
	job.CompleteTime = timePtr(testNow)
	resolved, err = resolver.Resolve(job)
	assert.T(t, err == nil, err)
	assert.T(t, resolved.AgeHours == nil)
}

func TestAgeUpdatedMinusCreated(t *testing.T) {
	resolver := testResolver(t)
	resolved, err := resolver.Resolve(testJob(ERROR))
	assert.T(t, err == nil, err)
	assert.T(t, resolved.AgeHours != nil)
	assert.Equal(t, 9.0, *resolved.AgeHours)
}

func TestSuccessAndAttentionFlags(t *testing.T) {
	resolver := testResolver(t)

	job := testJob(FINISHED)
	job.SubmitTime = timePtr(testNow.Add(-2 * time.Hour))
	job.CompleteTime = timePtr(testNow.Add(-1 * time.Hour))
	resolved, err := resolver.Resolve(job)
	assert.T(t, err == nil, err)
	assert.T(t, resolved.IsSuccessful)
	assert.T(t, !resolved.NeedsAttention)

	// a skipped FINISHED job is not a success
	job.Skipped = true
	resolved, err = resolver.Resolve(job)
	assert.T(t, err == nil, err)
	assert.T(t, !resolved.IsSuccessful)
	assert.Equal(t, ReportSkipped, resolved.ReportStatus)

	for _, status := range []JobStatus{FAILED, CANCELLED, ERROR} {
		resolved, err = resolver.Resolve(testJob(status))
		assert.T(t, err == nil, err)
		assert.T(t, resolved.NeedsAttention, status)
	}
	for _, status := range []JobStatus{INITIATED, RUNNING, FORCED_OK, CANCEL_REQUESTED} {
		resolved, err = resolver.Resolve(testJob(status))
		assert.T(t, err == nil, err)
		assert.T(t, !resolved.NeedsAttention, status)
	}
}
