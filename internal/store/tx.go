package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avoronov/cellarsync/models"
)

// txExecer is the subset of *sql.Tx the restore path uses. Narrowing the
// type keeps Tx constructible from fakes in tests.
type txExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Tx exposes the write operations a restore needs inside one database
// transaction. All methods run against the open transaction; nothing becomes
// visible until [DB.WithTx] commits.
type Tx struct {
	raw txExecer
}

// WithTx runs fn inside a single transaction. The transaction is committed
// when fn returns nil and rolled back otherwise; a rollback failure is
// logged, not returned, so fn's error stays matchable with errors.Is.
func (db *DB) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	if err := fn(&Tx{raw: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			db.logger.Err(rbErr).Str("func", "DB.WithTx").Msg("rollback failed")
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	return nil
}

// UpsertBatch inserts or replaces records in the kind's table within the
// transaction.
func (t *Tx) UpsertBatch(ctx context.Context, kind models.EntityKind, records []models.TrackedRecord) error {
	table, err := recordTable(kind)
	if err != nil {
		return err
	}

	return upsertRecordsOn(ctx, t.raw, table, records)
}

// Clear removes every record of the kind within the transaction.
func (t *Tx) Clear(ctx context.Context, kind models.EntityKind) error {
	table, err := recordTable(kind)
	if err != nil {
		return err
	}

	if _, err := t.raw.ExecContext(ctx, fmt.Sprintf(clearRecords, table)); err != nil {
		return fmt.Errorf("failed to clear %s in tx: %w", table, err)
	}

	return nil
}

// ClearQueue empties the sync queue within the transaction. A full restore
// supersedes every queued local mutation.
func (t *Tx) ClearQueue(ctx context.Context) error {
	if _, err := t.raw.ExecContext(ctx, clearQueue); err != nil {
		return fmt.Errorf("failed to clear sync queue in tx: %w", err)
	}

	return nil
}
