// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alexei Voronov

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/avoronov/cellarsync/internal/logger"
	"github.com/avoronov/cellarsync/models"
)

const backupFilePrefix = "backup_"

// fileBackupStore persists full-dataset snapshots as JSON files in a single
// directory, one file per backup id. Snapshots are immutable once written.
type fileBackupStore struct {
	dir    string
	logger *logger.Logger
}

func NewFileBackupStore(dir string, logger *logger.Logger) (BackupStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("backup directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	return &fileBackupStore{dir: dir, logger: logger}, nil
}

func (s *fileBackupStore) path(id string) string {
	return filepath.Join(s.dir, backupFilePrefix+id+".json")
}

func (s *fileBackupStore) Write(ctx context.Context, snapshot models.BackupSnapshot) (models.BackupMetadata, error) {
	meta := snapshot.Metadata
	if meta.ID == "" {
		return models.BackupMetadata{}, fmt.Errorf("backup id is empty")
	}

	meta.Location = s.path(meta.ID)
	snapshot.Metadata = meta

	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return models.BackupMetadata{}, fmt.Errorf("encode backup snapshot: %w", err)
	}

	// Write to a temp file first so a crash mid-write never leaves a
	// half-written snapshot under a valid backup name.
	tmp, err := os.CreateTemp(s.dir, backupFilePrefix+"*.tmp")
	if err != nil {
		return models.BackupMetadata{}, fmt.Errorf("create backup temp file: %w", err)
	}
	if _, err = tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return models.BackupMetadata{}, fmt.Errorf("write backup snapshot: %w", err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return models.BackupMetadata{}, fmt.Errorf("close backup temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), meta.Location); err != nil {
		os.Remove(tmp.Name())
		return models.BackupMetadata{}, fmt.Errorf("finalize backup snapshot: %w", err)
	}

	s.logger.Info().
		Str("backup_id", meta.ID).
		Str("reason", string(meta.Reason)).
		Str("location", meta.Location).
		Msg("backup snapshot written")

	return meta, nil
}

func (s *fileBackupStore) Read(ctx context.Context, id string) (models.BackupSnapshot, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return models.BackupSnapshot{}, fmt.Errorf("%w: %s", ErrBackupNotFound, id)
		}
		return models.BackupSnapshot{}, fmt.Errorf("read backup snapshot: %w", err)
	}

	var snapshot models.BackupSnapshot
	if err = json.Unmarshal(data, &snapshot); err != nil {
		return models.BackupSnapshot{}, fmt.Errorf("decode backup snapshot %s: %w", id, err)
	}

	return snapshot, nil
}

func (s *fileBackupStore) List(ctx context.Context) ([]models.BackupMetadata, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	var metas []models.BackupMetadata
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, backupFilePrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}

		id := strings.TrimSuffix(strings.TrimPrefix(name, backupFilePrefix), ".json")
		snapshot, err := s.Read(ctx, id)
		if err != nil {
			// A corrupt snapshot should not hide the healthy ones.
			s.logger.Warn().Err(err).Str("file", name).Msg("skipping unreadable backup snapshot")
			continue
		}
		metas = append(metas, snapshot.Metadata)
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].CreatedAt.After(metas[j].CreatedAt)
	})

	return metas, nil
}

func (s *fileBackupStore) Delete(ctx context.Context, id string) error {
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrBackupNotFound, id)
		}
		return fmt.Errorf("delete backup snapshot: %w", err)
	}

	return nil
}
