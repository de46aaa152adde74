package batchstat

import (
	"context"

	"github.com/panjf2000/ants/v2"
)

type taskPool struct {
	pool *ants.Pool
}

func newTaskPool(size int) *taskPool {
	pool, err := ants.NewPool(size)
	if err != nil {
		panic(err)
	}
	return &taskPool{pool: pool}
}

func (p *taskPool) SetMaxSize(size int) {
	p.pool.Tune(size)
}

// Submit submit a task to the pool, the returned Future completes when the
// task returns. If the pool rejects the task the Future completes with the
// rejection error.
func (p *taskPool) Submit(ctx context.Context, task func() (interface{}, error)) *Future {
	future := &Future{ch: make(chan taskResult, 1)}
	err := p.pool.Submit(func() {
		val, er := task()
		future.ch <- taskResult{val: val, err: er}
	})
	if err != nil {
		future.ch <- taskResult{err: NewBatchError(ErrCodeGeneral, "submit task to pool err", err)}
	}
	return future
}

type taskResult struct {
	val interface{}
	err error
}

// Future result holder of an async task
type Future struct {
	ch   chan taskResult
	done bool
	ret  taskResult
}

// Get wait for the task to finish and return its result, subsequent calls
// return the same result without blocking.
func (f *Future) Get() (interface{}, error) {
	if !f.done {
		f.ret = <-f.ch
		f.done = true
	}
	return f.ret.val, f.ret.err
}
