package batchstat

import (
	"github.com/hashicorp/go-multierror"
)

type ruleKey struct {
	skipped bool
	status  JobStatus
}

// RuleRegistry immutable lookup table mapping (skipped, raw status) to its
// JobStatusRule. Built once, validated for totality over AllJobStatuses at
// build time, side effect free afterwards.
type RuleRegistry struct {
	rules map[ruleKey]*JobStatusRule
}

// NewRuleRegistry build a registry from a rule table. Construction fails if
// any (skipped, status) combination of the declared status set lacks a rule
// or is declared twice, every gap is collected into the returned error so the
// table can be fixed in one pass.
func NewRuleRegistry(rules []*JobStatusRule) (*RuleRegistry, BatchError) {
	m := make(map[ruleKey]*JobStatusRule, len(rules))
	var errs *multierror.Error
	for _, rule := range rules {
		key := ruleKey{skipped: rule.Skipped, status: rule.Status}
		if _, ok := m[key]; ok {
			errs = multierror.Append(errs, NewBatchError(ErrCodeGeneral, "duplicate rule for skipped:%v status:%v", rule.Skipped, rule.Status))
			continue
		}
		m[key] = rule
	}
	for _, status := range AllJobStatuses {
		for _, skipped := range []bool{false, true} {
			if _, ok := m[ruleKey{skipped: skipped, status: status}]; !ok {
				errs = multierror.Append(errs, NewBatchError(ErrCodeRuleNotFound, "no rule for skipped:%v status:%v", skipped, status))
			}
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, NewBatchError(ErrCodeGeneral, "rule table is not total over the declared status set", err)
	}
	return &RuleRegistry{rules: m}, nil
}

// Resolve look up the rule for a (skipped, status) pair. A miss is a rule
// drift between code and table, fatal, never defaulted.
func (r *RuleRegistry) Resolve(skipped bool, status JobStatus) (*JobStatusRule, BatchError) {
	rule, ok := r.rules[ruleKey{skipped: skipped, status: status}]
	if !ok {
		return nil, NewBatchError(ErrCodeRuleNotFound, "no status rule for skipped:%v status:%v", skipped, status)
	}
	return rule, nil
}

// Rules the rows of the registry, for persistence and inspection
func (r *RuleRegistry) Rules() []*JobStatusRule {
	rules := make([]*JobStatusRule, 0, len(r.rules))
	for _, status := range AllJobStatuses {
		for _, skipped := range []bool{false, true} {
			if rule, ok := r.rules[ruleKey{skipped: skipped, status: status}]; ok {
				rules = append(rules, rule)
			}
		}
	}
	return rules
}

// next best actions of the default rule table
const (
	ActionSubmitJob         = "Submit Job"
	ActionTrackJob          = "Track Job"
	ActionAwaitCancellation = "Await Cancellation"
	ActionResubmitJob       = "Resubmit Job"
	ActionReviewErrors      = "Review Errors"
	ActionNone              = "No Action Required"
)

// DefaultRules the shipped rule table. Skipped jobs always report SKIPPED and
// age by update-minus-create regardless of raw status.
func DefaultRules() []*JobStatusRule {
	builder := NewRuleSetBuilder()
	builder.On(INITIATED).Report(ReportUnsubmitted).Age(SinceCreated).Action(ActionSubmitJob)
	builder.On(SUBMITTED, QUEUED, PENDING, RUNNING).Report(ReportInProgress).Age(SinceSubmitted).Action(ActionTrackJob)
	builder.On(CANCEL_REQUESTED, CANCELLING).Report(ReportCancelling).Age(SinceSubmitted).Action(ActionAwaitCancellation)
	builder.On(CANCELLED).Report(ReportCancelled).Age(CompletedMinusSubmitted).Action(ActionResubmitJob).Terminal()
	builder.On(FAILED).Report(ReportFailed).Age(CompletedMinusSubmitted).Action(ActionReviewErrors).Terminal()
	builder.On(ERROR).Report(ReportError).Age(UpdatedMinusCreated).Action(ActionReviewErrors).Terminal()
	builder.On(FINISHED).Report(ReportCompleted).Age(CompletedMinusSubmitted).Action(ActionNone).Terminal()
	builder.On(FORCED_OK).Report(ReportForcedOk).Age(UpdatedMinusCreated).Action(ActionNone).Terminal()
	for _, status := range AllJobStatuses {
		rule := builder.On(status).Skipped().Report(ReportSkipped).Age(UpdatedMinusCreated).Action(ActionNone)
		if status.IsTerminal() {
			rule.Terminal()
		}
	}
	return builder.Build()
}
