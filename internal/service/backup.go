// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alexei Voronov

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avoronov/cellarsync/internal/logger"
	"github.com/avoronov/cellarsync/internal/store"
	"github.com/avoronov/cellarsync/models"
)

// BackupManager creates, restores, and prunes full-dataset snapshots. Every
// destructive restore takes a snapshot first, so the dataset as it existed
// before the restore is always recoverable.
type BackupManager struct {
	records store.RecordRepository
	backups store.BackupStore
	tx      store.TxRunner
	logger  *logger.Logger
}

func NewBackupManager(records store.RecordRepository, backups store.BackupStore, tx store.TxRunner, log *logger.Logger) *BackupManager {
	return &BackupManager{
		records: records,
		backups: backups,
		tx:      tx,
		logger:  log,
	}
}

// Create snapshots every tracked collection into the backup store and
// returns the stored snapshot's metadata.
func (m *BackupManager) Create(ctx context.Context, reason models.BackupReason) (models.BackupMetadata, error) {
	snapshot := models.BackupSnapshot{
		Metadata: models.BackupMetadata{
			ID:              uuid.NewString(),
			CreatedAt:       time.Now().UTC(),
			PerEntityCounts: make(map[models.EntityKind]int),
			Reason:          reason,
		},
		Records: make(map[models.EntityKind][]models.TrackedRecord),
	}

	for _, kind := range models.EntityKindsOrdered() {
		records, err := m.records.GetAll(ctx, kind)
		if err != nil {
			return models.BackupMetadata{}, fmt.Errorf("failed to read %s for backup: %w", kind, err)
		}

		snapshot.Records[kind] = records
		snapshot.Metadata.PerEntityCounts[kind] = len(records)
	}

	meta, err := m.backups.Write(ctx, snapshot)
	if err != nil {
		return models.BackupMetadata{}, fmt.Errorf("failed to write backup: %w", err)
	}

	m.logger.Info().
		Str("backup_id", meta.ID).
		Str("reason", string(meta.Reason)).
		Msg("backup created")

	return meta, nil
}

// Restore replaces the whole local dataset with the snapshot's contents in
// one transaction. The sync queue is cleared as well: queued mutations refer
// to a dataset that no longer exists after the restore.
func (m *BackupManager) Restore(ctx context.Context, id string) error {
	snapshot, err := m.backups.Read(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to read backup %s: %w", id, err)
	}

	err = m.tx.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.ClearQueue(ctx); err != nil {
			return err
		}

		for _, kind := range models.EntityKindsOrdered() {
			if err := tx.Clear(ctx, kind); err != nil {
				return err
			}
			if err := tx.UpsertBatch(ctx, kind, snapshot.Records[kind]); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to restore backup %s: %w", id, err)
	}

	m.logger.Info().Str("backup_id", id).Msg("backup restored")

	return nil
}

// List returns metadata for every stored snapshot, newest first.
func (m *BackupManager) List(ctx context.Context) ([]models.BackupMetadata, error) {
	return m.backups.List(ctx)
}

// Cleanup deletes every snapshot beyond the newest keep and returns how many
// were removed. A failed delete is logged and skipped; retention is advisory,
// not transactional.
func (m *BackupManager) Cleanup(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	metas, err := m.backups.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list backups: %w", err)
	}

	deleted := 0
	for _, meta := range metas[min(keep, len(metas)):] {
		if err := m.backups.Delete(ctx, meta.ID); err != nil {
			m.logger.Err(err).Str("backup_id", meta.ID).Msg("failed to delete expired backup")
			continue
		}
		deleted++
	}

	return deleted, nil
}
