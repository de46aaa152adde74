package txn

import (
	"context"
	"database/sql"

	"github.com/chararch/batchstat"
)

// DefaultTxManager default TransactionManager implementation
type DefaultTxManager struct {
	db *sql.DB
}

// NewTransactionManager create a TransactionManager instance
func NewTransactionManager(db *sql.DB) batchstat.TransactionManager {
	return &DefaultTxManager{
		db: db,
	}
}

// BeginTx begin a transaction
func (tm *DefaultTxManager) BeginTx() (interface{}, batchstat.BatchError) {
	tx, err := tm.db.Begin()
	if err != nil {
		return nil, batchstat.NewBatchError(batchstat.ErrCodeDbFail, "start transaction failed", err)
	}
	return tx, nil
}

// BeginReadTx begin a read-only transaction, used for consistent batch
// snapshot reads
func (tm *DefaultTxManager) BeginReadTx() (interface{}, batchstat.BatchError) {
	tx, err := tm.db.BeginTx(context.Background(), &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, batchstat.NewBatchError(batchstat.ErrCodeDbFail, "start read transaction failed", err)
	}
	return tx, nil
}

// Commit commit a transaction
func (tm *DefaultTxManager) Commit(tx interface{}) batchstat.BatchError {
	tx1 := tx.(*sql.Tx)
	err := tx1.Commit()
	if err != nil {
		return batchstat.NewBatchError(batchstat.ErrCodeDbFail, "transaction commit failed", err)
	}
	return nil
}

// Rollback rollback a transaction
func (tm *DefaultTxManager) Rollback(tx interface{}) batchstat.BatchError {
	tx1 := tx.(*sql.Tx)
	err := tx1.Rollback()
	if err != nil {
		return batchstat.NewBatchError(batchstat.ErrCodeDbFail, "transaction rollback failed", err)
	}
	return nil
}
