package batchstat

import (
	"os"
)

var DefaultLogger Logger

// SetLogger set a logger instance for batchstat
func SetLogger(logger Logger) {
	DefaultLogger = logger
}

func init() {
	DefaultLogger = NewLogger(os.Stdout, Info)
}

// task pool
const (
	DefaultAggregationTaskPoolSize = 100
)

var aggregationPool = newTaskPool(DefaultAggregationTaskPoolSize)

// SetMaxAggregationTasks set max number of parallel configuration aggregations for batchstat
func SetMaxAggregationTasks(size int) {
	aggregationPool.SetMaxSize(size)
}
