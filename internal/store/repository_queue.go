package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/avoronov/cellarsync/internal/logger"
	"github.com/avoronov/cellarsync/models"
)

type queueRepository struct {
	*DB
	logger *logger.Logger
	sb     sq.StatementBuilderType
}

func NewQueueRepository(db *DB, logger *logger.Logger) QueueRepository {
	return &queueRepository{
		DB:     db,
		logger: logger,
		sb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (q *queueRepository) Insert(ctx context.Context, op models.SyncOperation) error {
	log := logger.FromContext(ctx)

	_, err := q.DB.ExecContext(ctx, insertOperation,
		op.ID,
		op.Kind,
		string(op.Payload),
		op.EnqueuedAt,
		op.RetryCount,
		op.MaxRetries,
		op.Status,
		op.LastError,
	)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Insert").
			Str("op_id", string(op.ID)).
			Str("kind", string(op.Kind)).
			Msg("failed to insert sync operation")
		return fmt.Errorf("failed to insert sync operation (id=%s): %w", op.ID, err)
	}

	return nil
}

func (q *queueRepository) Pending(ctx context.Context) ([]models.SyncOperation, error) {
	log := logger.FromContext(ctx)

	query, args, err := q.sb.
		Select("id", "kind", "payload", "enqueued_at", "retry_count", "max_retries", "status", "last_error").
		From("sync_queue").
		Where(sq.Eq{"status": models.OpPending}).
		OrderBy("enqueued_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := q.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Pending").
			Msg("failed to query pending operations")
		return nil, fmt.Errorf("failed to query pending operations: %w", err)
	}
	defer rows.Close()

	var ops []models.SyncOperation
	for rows.Next() {
		var op models.SyncOperation
		var payload string
		scanErr := rows.Scan(
			&op.ID,
			&op.Kind,
			&payload,
			&op.EnqueuedAt,
			&op.RetryCount,
			&op.MaxRetries,
			&op.Status,
			&op.LastError,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan sync operation row: %w", scanErr)
		}
		op.Payload = []byte(payload)
		ops = append(ops, op)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("rows error for pending operations: %w", rowsErr)
	}

	return ops, nil
}

func (q *queueRepository) Delete(ctx context.Context, id models.OperationID) error {
	res, err := q.DB.ExecContext(ctx, deleteOperation, id)
	if err != nil {
		return fmt.Errorf("failed to delete sync operation (id=%s): %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrOperationNotFound, id)
	}

	return nil
}

func (q *queueRepository) Update(ctx context.Context, op models.SyncOperation) error {
	res, err := q.DB.ExecContext(ctx, updateOperation,
		op.RetryCount,
		op.Status,
		op.LastError,
		op.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update sync operation (id=%s): %w", op.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrOperationNotFound, op.ID)
	}

	return nil
}

func (q *queueRepository) Stats(ctx context.Context) (models.QueueStats, error) {
	query, args, err := q.sb.
		Select("status", "COUNT(*)").
		From("sync_queue").
		GroupBy("status").
		ToSql()
	if err != nil {
		return models.QueueStats{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := q.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return models.QueueStats{}, fmt.Errorf("failed to query queue stats: %w", err)
	}
	defer rows.Close()

	var stats models.QueueStats
	for rows.Next() {
		var status models.OperationStatus
		var count int
		if scanErr := rows.Scan(&status, &count); scanErr != nil {
			return models.QueueStats{}, fmt.Errorf("failed to scan queue stats row: %w", scanErr)
		}
		switch status {
		case models.OpPending:
			stats.PendingCount = count
		case models.OpSyncing:
			stats.SyncingCount = count
		case models.OpError:
			stats.ErrorCount = count
		}
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return models.QueueStats{}, fmt.Errorf("rows error for queue stats: %w", rowsErr)
	}

	lastQuery, lastArgs, err := q.sb.
		Select("MAX(enqueued_at)").
		From("sync_queue").
		ToSql()
	if err != nil {
		return models.QueueStats{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var last sql.NullTime
	if err := q.DB.QueryRowContext(ctx, lastQuery, lastArgs...).Scan(&last); err != nil {
		return models.QueueStats{}, fmt.Errorf("failed to query last enqueued at: %w", err)
	}
	if last.Valid {
		t := last.Time.UTC()
		stats.LastEnqueuedAt = &t
	}

	return stats, nil
}
