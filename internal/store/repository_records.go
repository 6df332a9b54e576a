package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avoronov/cellarsync/internal/logger"
	"github.com/avoronov/cellarsync/models"
)

type recordRepository struct {
	*DB
	logger *logger.Logger
}

func NewRecordRepository(db *DB, logger *logger.Logger) RecordRepository {
	return &recordRepository{
		DB:     db,
		logger: logger,
	}
}

// recordTable maps a validated entity kind to its table name. The kind is an
// enum, never user input, but the check keeps table substitution safe.
func recordTable(kind models.EntityKind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEntityKind, kind)
	}
	return string(kind), nil
}

func (r *recordRepository) UpsertBatch(ctx context.Context, kind models.EntityKind, records []models.TrackedRecord) error {
	table, err := recordTable(kind)
	if err != nil {
		return err
	}

	return upsertRecordsOn(ctx, r.DB.DB, table, records)
}

// upsertRecordsOn runs the shared upsert against any execer so the same code
// serves both the pooled connection and an open transaction.
func upsertRecordsOn(ctx context.Context, execer txExecer, table string, records []models.TrackedRecord) error {
	log := logger.FromContext(ctx)

	query := fmt.Sprintf(upsertRecord, table)
	for _, rec := range records {
		_, err := execer.ExecContext(ctx, query,
			rec.ID,
			rec.ParentID,
			rec.Version,
			rec.UpdatedAt,
			rec.SyncStatus,
			rec.AssetRef,
			string(rec.Payload),
		)
		if err != nil {
			log.Err(err).
				Str("func", "recordRepository.UpsertBatch").
				Str("table", table).
				Str("id", rec.ID).
				Msg("failed to execute upsert for tracked record")
			return fmt.Errorf("failed to upsert record (id=%s): %w", rec.ID, err)
		}
	}

	return nil
}

func (r *recordRepository) GetAll(ctx context.Context, kind models.EntityKind) ([]models.TrackedRecord, error) {
	table, err := recordTable(kind)
	if err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, fmt.Sprintf(getAllRecords, table))
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.GetAll").
			Str("table", table).
			Msg("failed to execute query for getting all records")
		return nil, fmt.Errorf("failed to query all %s: %w", table, err)
	}
	defer rows.Close()

	var items []models.TrackedRecord
	for rows.Next() {
		rec, scanErr := scanRecord(rows, kind)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "recordRepository.GetAll").
				Str("table", table).
				Msg("failed to scan record row")
			return nil, fmt.Errorf("failed to scan %s row: %w", table, scanErr)
		}
		items = append(items, rec)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("rows error for %s: %w", table, rowsErr)
	}

	return items, nil
}

func (r *recordRepository) GetByID(ctx context.Context, kind models.EntityKind, id string) (models.TrackedRecord, error) {
	table, err := recordTable(kind)
	if err != nil {
		return models.TrackedRecord{}, err
	}

	row := r.DB.QueryRowContext(ctx, fmt.Sprintf(getRecordByID, table), id)
	rec, err := scanRecord(row, kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TrackedRecord{}, fmt.Errorf("%w: %s/%s", ErrRecordNotFound, table, id)
		}
		return models.TrackedRecord{}, fmt.Errorf("failed to scan %s row: %w", table, err)
	}

	return rec, nil
}

func (r *recordRepository) CountAll(ctx context.Context, kind models.EntityKind) (int, error) {
	table, err := recordTable(kind)
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.DB.QueryRowContext(ctx, fmt.Sprintf(countAllRecords, table)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}

	return count, nil
}

func (r *recordRepository) Delete(ctx context.Context, kind models.EntityKind, id string) error {
	table, err := recordTable(kind)
	if err != nil {
		return err
	}

	result, err := r.DB.ExecContext(ctx, fmt.Sprintf(deleteRecord, table), id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for %s: %w", table, err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (r *recordRepository) Clear(ctx context.Context, kind models.EntityKind) error {
	table, err := recordTable(kind)
	if err != nil {
		return err
	}

	if _, err := r.DB.ExecContext(ctx, fmt.Sprintf(clearRecords, table)); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}

	return nil
}

func (r *recordRepository) UpdatedAtIndex(ctx context.Context, kind models.EntityKind) (map[string]time.Time, error) {
	table, err := recordTable(kind)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, fmt.Sprintf(getUpdatedAtIndex, table))
	if err != nil {
		return nil, fmt.Errorf("failed to query updated_at index for %s: %w", table, err)
	}
	defer rows.Close()

	idx := make(map[string]time.Time)
	for rows.Next() {
		var id string
		var updatedAt time.Time
		if scanErr := rows.Scan(&id, &updatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan updated_at row for %s: %w", table, scanErr)
		}
		idx[id] = updatedAt
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("rows error for %s updated_at index: %w", table, rowsErr)
	}

	return idx, nil
}

func (r *recordRepository) SetAssetRef(ctx context.Context, kind models.EntityKind, id, ref string) error {
	table, err := recordTable(kind)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx, fmt.Sprintf(setAssetRef, table), ref, id)
	if err != nil {
		return fmt.Errorf("failed to set asset ref for %s/%s: %w", table, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s/%s", ErrRecordNotFound, table, id)
	}

	return nil
}

func (r *recordRepository) MarkSynced(ctx context.Context, kind models.EntityKind, id string) error {
	table, err := recordTable(kind)
	if err != nil {
		return err
	}

	if _, err := r.DB.ExecContext(ctx, fmt.Sprintf(markRecordSynced, table), models.SyncSynced, id); err != nil {
		return fmt.Errorf("failed to mark %s/%s synced: %w", table, id, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner, kind models.EntityKind) (models.TrackedRecord, error) {
	var rec models.TrackedRecord
	var payload string

	err := row.Scan(
		&rec.ID,
		&rec.ParentID,
		&rec.Version,
		&rec.UpdatedAt,
		&rec.SyncStatus,
		&rec.AssetRef,
		&payload,
	)
	if err != nil {
		return models.TrackedRecord{}, err
	}

	rec.Kind = kind
	rec.Payload = []byte(payload)
	return rec, nil
}
