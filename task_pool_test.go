package batchstat

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/bmizerany/assert"
	"github.com/pkg/errors"
)

func TestTaskPoolSubmit(t *testing.T) {
	pool := newTaskPool(4)
	var ran int32

	futures := make([]*Future, 0, 16)
	for i := 0; i < 16; i++ {
		i := i
		futures = append(futures, pool.Submit(context.Background(), func() (interface{}, error) {
			atomic.AddInt32(&ran, 1)
			return i * 2, nil
		}))
	}
	for i, future := range futures {
		val, err := future.Get()
		assert.T(t, err == nil, err)
		assert.Equal(t, i*2, val.(int))
	}
	assert.Equal(t, int32(16), atomic.LoadInt32(&ran))
}

func TestFutureGetIsMemoized(t *testing.T) {
	pool := newTaskPool(1)
	future := pool.Submit(context.Background(), func() (interface{}, error) {
		return nil, errors.New("boom")
	})
	_, first := future.Get()
	_, second := future.Get()
	assert.T(t, first != nil)
	assert.Equal(t, first, second)
}
