package batchstat

// RuleSetBuilder fluent builder for rule tables. Each On(...) opens one rule
// applying to the given raw statuses, Build() flattens the set into rows for
// NewRuleRegistry.
type RuleSetBuilder interface {
	On(status ...JobStatus) RuleBuilder
	Build() []*JobStatusRule
}

// RuleBuilder builder of a single rule
type RuleBuilder interface {
	Skipped() RuleBuilder
	Report(status ReportStatus) RuleBuilder
	Age(calculation AgeCalculation) RuleBuilder
	Action(nextBestAction string) RuleBuilder
	Terminal() RuleBuilder
}

func NewRuleSetBuilder() RuleSetBuilder {
	return &ruleSetBuilder{}
}

type ruleSetBuilder struct {
	rules []*ruleBuilder
}

func (b *ruleSetBuilder) On(status ...JobStatus) RuleBuilder {
	if len(status) == 0 {
		panic("a rule must name at least one status")
	}
	rule := &ruleBuilder{statuses: status}
	b.rules = append(b.rules, rule)
	return rule
}

func (b *ruleSetBuilder) Build() []*JobStatusRule {
	rules := make([]*JobStatusRule, 0, len(b.rules))
	for _, rb := range b.rules {
		if rb.reportStatus == "" {
			panic("a rule must declare a report status")
		}
		if rb.ageCalculation == "" {
			panic("a rule must declare an age calculation")
		}
		for _, status := range rb.statuses {
			rules = append(rules, &JobStatusRule{
				Skipped:        rb.skipped,
				Status:         status,
				ReportStatus:   rb.reportStatus,
				AgeCalculation: rb.ageCalculation,
				NextBestAction: rb.nextBestAction,
				IsTerminal:     rb.terminal,
			})
		}
	}
	return rules
}

type ruleBuilder struct {
	statuses       []JobStatus
	skipped        bool
	reportStatus   ReportStatus
	ageCalculation AgeCalculation
	nextBestAction string
	terminal       bool
}

func (b *ruleBuilder) Skipped() RuleBuilder {
	b.skipped = true
	return b
}

func (b *ruleBuilder) Report(status ReportStatus) RuleBuilder {
	b.reportStatus = status
	return b
}

func (b *ruleBuilder) Age(calculation AgeCalculation) RuleBuilder {
	b.ageCalculation = calculation
	return b
}

func (b *ruleBuilder) Action(nextBestAction string) RuleBuilder {
	b.nextBestAction = nextBestAction
	return b
}

func (b *ruleBuilder) Terminal() RuleBuilder {
	b.terminal = true
	return b
}
