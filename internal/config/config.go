// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alexei Voronov

package config

import (
	"fmt"
	"time"
)

// StructuredConfig is the top-level configuration container for cellarsync.
// It aggregates all sub-configurations and is populated by merging values
// from environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Cloud holds the remote store endpoint and paging settings.
	Cloud Cloud `envPrefix:"CLOUD_"`

	// Storage holds configuration for all local persistence: the SQLite
	// database, the backup snapshot directory, and the asset cache.
	Storage Storage `envPrefix:"STORAGE_"`

	// Sync holds replication tuning knobs: retry bounds, batch sizes, and
	// backup retention.
	Sync Sync `envPrefix:"SYNC_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Cloud holds the remote document/object store settings.
type Cloud struct {
	// BaseURL is the HTTP endpoint of the cloud store
	// (e.g. "https://api.cellarsync.app").
	// Env: CLOUD_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout bounds each individual outbound request (e.g. "30s").
	// Env: CLOUD_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// PageSize is the bounded page size used for cursor-based listing.
	// Env: CLOUD_PAGE_SIZE
	PageSize int `env:"PAGE_SIZE"`
}

// Storage groups all local persistence locations.
type Storage struct {
	// DB holds the local SQLite settings.
	DB DB `envPrefix:"DB_"`

	// BackupDir is the directory where backup snapshot files are written,
	// keyed by backup id.
	// Env: STORAGE_BACKUP_DIR
	BackupDir string `env:"BACKUP_DIR"`

	// AssetDir is the local cache directory for downloaded label images.
	// Env: STORAGE_ASSET_DIR
	AssetDir string `env:"ASSET_DIR"`
}

// DB holds connection settings for the embedded database.
type DB struct {
	// DSN is the SQLite file path used to open the local database
	// (e.g. "/data/cellarsync.db").
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Sync holds replication behaviour settings.
type Sync struct {
	// MaxRetries is how many failed remote applies a queued operation is
	// allowed before it is dead-lettered.
	// Env: SYNC_MAX_RETRIES
	MaxRetries int `env:"MAX_RETRIES"`

	// InsertBatchSize is the number of records written per batch inside the
	// restore transaction.
	// Env: SYNC_INSERT_BATCH_SIZE
	InsertBatchSize int `env:"INSERT_BATCH_SIZE"`

	// BackupKeep is how many backup snapshots retention cleanup retains.
	// Env: SYNC_BACKUP_KEEP
	BackupKeep int `env:"BACKUP_KEEP"`

	// ProbeInterval is how often the network monitor probes the cloud
	// endpoint (e.g. "15s").
	// Env: SYNC_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`

	// AutoBackupInterval is how often the agent snapshots the local
	// dataset while running (e.g. "24h").
	// Env: SYNC_AUTO_BACKUP_INTERVAL
	AutoBackupInterval time.Duration `env:"AUTO_BACKUP_INTERVAL"`
}

// Defaults applied after merging when the operator left a knob unset.
const (
	defaultPageSize        = 100
	defaultMaxRetries      = 5
	defaultInsertBatchSize = 50
	defaultBackupKeep      = 3
	defaultProbeInterval   = 15 * time.Second
	defaultRequestTimeout  = 30 * time.Second
	defaultAutoBackup      = 24 * time.Hour
)

// GetConfig builds the merged configuration from env, flags, and an optional
// JSON file, fills defaults, and validates the result.
func GetConfig() (*StructuredConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
	if err != nil {
		return nil, fmt.Errorf("error building config: %w", err)
	}

	cfg.applyDefaults()

	return cfg, cfg.validate()
}

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Cloud.PageSize <= 0 {
		cfg.Cloud.PageSize = defaultPageSize
	}
	if cfg.Cloud.RequestTimeout <= 0 {
		cfg.Cloud.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Sync.MaxRetries <= 0 {
		cfg.Sync.MaxRetries = defaultMaxRetries
	}
	if cfg.Sync.InsertBatchSize <= 0 {
		cfg.Sync.InsertBatchSize = defaultInsertBatchSize
	}
	if cfg.Sync.BackupKeep <= 0 {
		cfg.Sync.BackupKeep = defaultBackupKeep
	}
	if cfg.Sync.ProbeInterval <= 0 {
		cfg.Sync.ProbeInterval = defaultProbeInterval
	}
	if cfg.Sync.AutoBackupInterval <= 0 {
		cfg.Sync.AutoBackupInterval = defaultAutoBackup
	}
}
