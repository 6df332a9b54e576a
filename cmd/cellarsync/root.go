// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alexei Voronov

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avoronov/cellarsync/internal/adapter"
	"github.com/avoronov/cellarsync/internal/config"
	"github.com/avoronov/cellarsync/internal/logger"
	"github.com/avoronov/cellarsync/internal/service"
	"github.com/avoronov/cellarsync/internal/store"
	"github.com/avoronov/cellarsync/models"
)

var rootCmd = &cobra.Command{
	Use:   "cellarsync",
	Short: "Offline-first replication core for the cellar tracker",
	Long: `cellarsync keeps a local beer-cellar collection in sync with its cloud copy.

Local mutations are written to SQLite first and queued durably; the sync
queue pushes them to the cloud whenever connectivity allows. The download
command restores the full cloud dataset onto the device with a selectable
conflict strategy, always taking a local backup before destroying anything.

Configuration comes from environment variables (CLOUD_BASE_URL,
STORAGE_DB_DSN, STORAGE_BACKUP_DIR, ...), command-line flags
(-cloud-url=..., -d=..., -backup-dir=...), or a JSON file (-config=...).`,
	SilenceUsage:       true,
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles everything a command needs after initialisation.
type app struct {
	cfg      *config.StructuredConfig
	logger   *logger.Logger
	storages *store.Storages
	services *service.Services
}

// newApp loads configuration and wires the replication core. Every command
// goes through here, so a broken config fails fast and uniformly.
func newApp() (*app, error) {
	log := logger.NewLogger("cellarsync")

	cfg, err := config.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	cloud, err := adapter.NewHTTPCloudStore(cfg.Cloud, log.GetChildLogger())
	if err != nil {
		return nil, fmt.Errorf("cloud adapter error: %w", err)
	}

	storages, err := store.NewStorages(cfg.Storage, log.GetChildLogger())
	if err != nil {
		return nil, fmt.Errorf("storage error: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   log,
		storages: storages,
		services: service.NewServices(cfg, storages, cloud, log),
	}, nil
}

func (a *app) close() {
	if err := a.storages.DB.Close(); err != nil {
		a.logger.Err(err).Msg("failed to close database")
	}
}

// connect marks the process as being on a wired transport and probes the
// cloud once. CLI invocations have no platform shell reporting transport
// changes, so the probe verdict is the whole story.
func (a *app) connect(ctx context.Context) models.NetworkState {
	a.services.Network.SetTransport(models.TransportWired)
	a.services.Network.Probe(ctx)
	return a.services.Network.State()
}
