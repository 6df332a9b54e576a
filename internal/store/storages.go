package store

import (
	"context"
	"fmt"

	"github.com/avoronov/cellarsync/internal/config"
	"github.com/avoronov/cellarsync/internal/logger"
)

// Storages groups all local storage repositories into a single value that can
// be passed around the service layer.
type Storages struct {
	// DB is the underlying SQLite handle; the service layer uses it for
	// transactional restores via [DB.WithTx].
	DB *DB

	// Records is the repository for tracked entity collections.
	Records RecordRepository

	// Queue is the durable sync-operation queue.
	Queue QueueRepository

	// Backups is the file-based snapshot store.
	Backups BackupStore
}

// NewStorages initialises the local storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path in cfg.DB.DSN, creating
//     the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Opens the backup snapshot directory.
func NewStorages(cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	backups, err := NewFileBackupStore(cfg.BackupDir, logger)
	if err != nil {
		return nil, fmt.Errorf("backup store error: %w", err)
	}

	return &Storages{
		DB:      db,
		Records: NewRecordRepository(db, logger),
		Queue:   NewQueueRepository(db, logger),
		Backups: backups,
	}, nil
}
