package store

import (
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/cellarsync/internal/logger"
	"github.com/avoronov/cellarsync/models"
)

var queueColumns = []string{
	"id", "kind", "payload", "enqueued_at", "retry_count", "max_retries", "status", "last_error",
}

func TestQueueRepository_Insert(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewQueueRepository(newDBFromSQL(db), logger.Nop())

	now := time.Now().UTC()
	op := models.SyncOperation{
		ID:         "op-1",
		Kind:       models.OpCreateBeer,
		Payload:    []byte(`{"record":{}}`),
		EnqueuedAt: now,
		MaxRetries: 5,
		Status:     models.OpPending,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sync_queue")).
		WithArgs(op.ID, op.Kind, string(op.Payload), op.EnqueuedAt, op.RetryCount, op.MaxRetries, op.Status, op.LastError).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Insert(testContext(), op)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueRepository_Pending_OrderedOldestFirst(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewQueueRepository(newDBFromSQL(db), logger.Nop())

	t1 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY enqueued_at ASC")).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows(queueColumns).
			AddRow("op-1", "create_brewery", `{}`, t1, 0, 5, "pending", "").
			AddRow("op-2", "create_beer", `{}`, t2, 1, 5, "pending", "prev failure"))

	ops, err := repo.Pending(testContext())
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, models.OperationID("op-1"), ops[0].ID)
	assert.Equal(t, models.OperationID("op-2"), ops[1].ID)
	assert.Equal(t, 1, ops[1].RetryCount)
	assert.Equal(t, "prev failure", ops[1].LastError)
}

func TestQueueRepository_Delete(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewQueueRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sync_queue WHERE id")).
		WithArgs(models.OperationID("op-1")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(testContext(), "op-1"))
}

func TestQueueRepository_Delete_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewQueueRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sync_queue WHERE id")).
		WithArgs(models.OperationID("missing")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(testContext(), "missing")
	assert.ErrorIs(t, err, ErrOperationNotFound)
}

func TestQueueRepository_Update(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewQueueRepository(newDBFromSQL(db), logger.Nop())

	op := models.SyncOperation{
		ID:         "op-1",
		RetryCount: 3,
		Status:     models.OpError,
		LastError:  "remote rejected payload",
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE sync_queue SET")).
		WithArgs(op.RetryCount, op.Status, op.LastError, op.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(testContext(), op))
}

func TestQueueRepository_Stats(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewQueueRepository(newDBFromSQL(db), logger.Nop())

	last := time.Date(2026, 5, 3, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 4).
			AddRow("error", 2))
	mock.ExpectQuery(regexp.QuoteMeta("MAX(enqueued_at)")).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(last))

	stats, err := repo.Stats(testContext())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.PendingCount)
	assert.Equal(t, 0, stats.SyncingCount)
	assert.Equal(t, 2, stats.ErrorCount)
	require.NotNil(t, stats.LastEnqueuedAt)
	assert.Equal(t, last, *stats.LastEnqueuedAt)
}

func TestQueueRepository_Stats_EmptyQueue(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewQueueRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}))
	mock.ExpectQuery(regexp.QuoteMeta("MAX(enqueued_at)")).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

	stats, err := repo.Stats(testContext())
	require.NoError(t, err)
	assert.Zero(t, stats.PendingCount)
	assert.Nil(t, stats.LastEnqueuedAt)
}
