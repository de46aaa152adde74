package batchstat

// TransactionManager used by repositories to group statements into a
// transaction. Snapshot reads use BeginReadTx so the store can hand out a
// read-only transaction where the driver supports it.
type TransactionManager interface {
	BeginTx() (tx interface{}, err BatchError)
	BeginReadTx() (tx interface{}, err BatchError)
	Commit(tx interface{}) BatchError
	Rollback(tx interface{}) BatchError
}
