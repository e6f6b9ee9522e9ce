// Package transaction provides the atomic-scope primitive workflow runs
// are wrapped in when a definition is transactional.
//
// The contract is deliberately small: run a function, and if it returns an
// error, reverse every write made inside the scope before re-raising the
// error. The workflow engine opens at most one scope per run.
package transaction

import (
	"context"
	"database/sql"
	"fmt"
)

// Transactor runs a function inside an atomic scope.
type Transactor interface {
	// InTransaction executes fn. If fn returns an error, all writes made
	// within the scope are reversed and the error is returned unchanged.
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Nop is a Transactor without an atomic scope. It is the default for
// non-transactional workflows and for tests that only care about ordering.
type Nop struct{}

// InTransaction implements Transactor by calling fn directly.
func (Nop) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type txKey struct{}

// SQL is a Transactor over a database/sql handle. The open *sql.Tx travels
// in the context so services running inside the scope can pick it up with
// TxFrom.
type SQL struct {
	db *sql.DB
}

// NewSQL creates a Transactor over db.
func NewSQL(db *sql.DB) *SQL {
	return &SQL{db: db}
}

// InTransaction implements Transactor with BEGIN/COMMIT/ROLLBACK.
func (s *SQL) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to roll back transaction: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// TxFrom returns the transaction opened by SQL.InTransaction for this
// context, if any.
func TxFrom(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}
