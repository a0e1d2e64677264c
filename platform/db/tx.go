package db

import "context"

// WithTx runs fn inside a single transaction. The transaction is rolled back
// on error or panic and committed otherwise, so a cancelled request never
// leaves a partially applied operation behind.
func WithTx(ctx context.Context, pool Querier, fn func(q Querier) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
