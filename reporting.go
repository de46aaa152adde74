package batchstat

import (
	"context"
)

// Reporter the read-side interface exposed to reporting, CLI and dashboard
// layers. Every operation returns a freshly derived value object, there are
// no persisted side effects and no caches to invalidate.
type Reporter interface {
	ResolveJob(ctx context.Context, jobId int64) (*ResolvedJob, error)
	AggregateConfiguration(ctx context.Context, jobConfigurationId int64) (*AggregatedConfiguration, error)
	AggregateBatch(ctx context.Context, batchId int64) (*AggregatedBatch, error)
}

// NewReporter create a Reporter over a repository, loading the rule table
// from the store. Registry construction validates totality and fails fast, a
// deployment with a rule gap never starts serving statuses.
func NewReporter(repository Repository) (Reporter, error) {
	rules, err := repository.LoadStatusRules()
	if err != nil {
		return nil, err
	}
	registry, err := NewRuleRegistry(rules)
	if err != nil {
		return nil, err
	}
	return NewReporterWithRegistry(repository, registry), nil
}

// NewReporterWithRegistry create a Reporter with an already validated registry
func NewReporterWithRegistry(repository Repository, registry *RuleRegistry) Reporter {
	return &reporter{
		repository:       repository,
		resolver:         NewResolver(registry),
		configAggregator: NewConfigurationAggregator(),
		batchAggregator:  NewBatchAggregator(),
	}
}

type reporter struct {
	repository       Repository
	resolver         *Resolver
	configAggregator *ConfigurationAggregator
	batchAggregator  *BatchAggregator
}

// ResolveJob derive the reporting view of one job
func (r *reporter) ResolveJob(ctx context.Context, jobId int64) (*ResolvedJob, error) {
	job, err := r.repository.FindJob(jobId)
	if err != nil {
		DefaultLogger.Error(ctx, "find job error, jobId:%v, err:%v", jobId, err)
		return nil, err
	}
	if job == nil {
		return nil, NewBatchError(ErrCodeNotFound, "job:%v not found", jobId)
	}
	resolved, err := r.resolver.Resolve(job)
	if err != nil {
		DefaultLogger.Error(ctx, "resolve job status error, jobId:%v, status:%v, skipped:%v, err:%v", jobId, job.Status, job.Skipped, err)
		return nil, err
	}
	return resolved, nil
}

// AggregateConfiguration derive the reporting view of one job configuration
// and its jobs
func (r *reporter) AggregateConfiguration(ctx context.Context, jobConfigurationId int64) (*AggregatedConfiguration, error) {
	config, err := r.repository.FindJobConfiguration(jobConfigurationId)
	if err != nil {
		DefaultLogger.Error(ctx, "find job configuration error, jobConfigurationId:%v, err:%v", jobConfigurationId, err)
		return nil, err
	}
	if config == nil {
		return nil, NewBatchError(ErrCodeNotFound, "job configuration:%v not found", jobConfigurationId)
	}
	jobs, err := r.repository.FindJobsByConfiguration(jobConfigurationId)
	if err != nil {
		DefaultLogger.Error(ctx, "find jobs of configuration error, jobConfigurationId:%v, err:%v", jobConfigurationId, err)
		return nil, err
	}
	resolved, rerr := r.resolveAll(ctx, jobs)
	if rerr != nil {
		return nil, rerr
	}
	return r.aggregateResolved(ctx, config, resolved)
}

func (r *reporter) resolveAll(ctx context.Context, jobs []*Job) ([]*ResolvedJob, error) {
	resolved := make([]*ResolvedJob, 0, len(jobs))
	for _, job := range jobs {
		rj, err := r.resolver.Resolve(job)
		if err != nil {
			DefaultLogger.Error(ctx, "resolve job status error, jobId:%v, status:%v, skipped:%v, err:%v", job.JobId, job.Status, job.Skipped, err)
			return nil, err
		}
		resolved = append(resolved, rj)
	}
	return resolved, nil
}

func (r *reporter) aggregateResolved(ctx context.Context, config *JobConfiguration, resolved []*ResolvedJob) (*AggregatedConfiguration, error) {
	aggregated, err := r.configAggregator.Aggregate(config, resolved)
	if err != nil {
		DefaultLogger.Error(ctx, "aggregate configuration error, jobConfigurationId:%v, err:%v", config.JobConfigurationId, err)
		return nil, err
	}
	if aggregated.ReportStatus == ConfigUnknown {
		// a rule gap, surfaced for correction rather than remapped
		DefaultLogger.Error(ctx, "configuration:%v aggregated to UNKNOWN, the rollup rules have a gap", config.JobConfigurationId)
	}
	return aggregated, nil
}

// AggregateBatch derive the reporting view of one batch. The snapshot is read
// at a single consistent point and configurations are aggregated in parallel
// on the task pool, the engine itself holds no shared mutable state.
func (r *reporter) AggregateBatch(ctx context.Context, batchId int64) (*AggregatedBatch, error) {
	snapshot, err := r.repository.FindBatchSnapshot(batchId)
	if err != nil {
		DefaultLogger.Error(ctx, "read batch snapshot error, batchId:%v, err:%v", batchId, err)
		return nil, err
	}
	if snapshot == nil || snapshot.Batch == nil {
		return nil, NewBatchError(ErrCodeNotFound, "batch:%v not found", batchId)
	}

	resolved, rerr := r.resolveAll(ctx, snapshot.Jobs)
	if rerr != nil {
		return nil, rerr
	}
	resolvedByConfig := make(map[int64][]*ResolvedJob, len(snapshot.Configurations))
	for _, job := range resolved {
		resolvedByConfig[job.JobConfigurationId] = append(resolvedByConfig[job.JobConfigurationId], job)
	}

	futures := make([]*Future, 0, len(snapshot.Configurations))
	for _, config := range snapshot.Configurations {
		config := config
		jobs := resolvedByConfig[config.JobConfigurationId]
		futures = append(futures, aggregationPool.Submit(ctx, func() (interface{}, error) {
			return r.aggregateResolved(ctx, config, jobs)
		}))
	}
	configs := make([]*AggregatedConfiguration, 0, len(futures))
	for _, future := range futures {
		val, er := future.Get()
		if er != nil {
			return nil, er
		}
		configs = append(configs, val.(*AggregatedConfiguration))
	}

	aggregated, aerr := r.batchAggregator.Aggregate(snapshot.Batch, configs, resolved)
	if aerr != nil {
		DefaultLogger.Error(ctx, "aggregate batch error, batchId:%v, err:%v", batchId, aerr)
		return nil, aerr
	}
	return aggregated, nil
}
