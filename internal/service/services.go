// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alexei Voronov

// Package service implements the replication core: the durable sync queue,
// the conflict resolver, the cloud download orchestrator, the backup
// manager, and the network monitor. [Services] wires them together and is
// the single entry point the command layer talks to.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avoronov/cellarsync/internal/adapter"
	"github.com/avoronov/cellarsync/internal/config"
	"github.com/avoronov/cellarsync/internal/logger"
	"github.com/avoronov/cellarsync/internal/store"
	"github.com/avoronov/cellarsync/internal/workers"
	"github.com/avoronov/cellarsync/models"
)

// Services aggregates the replication components over one local store and
// one cloud endpoint. Create exactly one per database.
type Services struct {
	Queue     *QueueManager
	Downloads *DownloadOrchestrator
	Backups   *BackupManager
	Network   *NetworkMonitor

	records store.RecordRepository
	cloud   adapter.CloudStore
	logger  *logger.Logger

	backupKeep     int
	autoBackupSpan time.Duration
}

// NewServices wires the replication core from configuration, the local
// storage layer, and a cloud store implementation.
func NewServices(cfg *config.StructuredConfig, storages *store.Storages, cloud adapter.CloudStore, log *logger.Logger) *Services {
	gate := &runGate{}
	resolver := NewConflictResolver()

	network := NewNetworkMonitor(cloud, cfg.Sync.ProbeInterval, log.GetChildLogger())
	queue := NewQueueManager(storages.Queue, storages.Records, cloud, network, gate, cfg.Sync.MaxRetries, log.GetChildLogger())
	network.Notify(queue)

	backups := NewBackupManager(storages.Records, storages.Backups, storages.DB, log.GetChildLogger())
	downloads := NewDownloadOrchestrator(
		storages.Records,
		storages.DB,
		backups,
		cloud,
		resolver,
		network,
		gate,
		cfg.Cloud.PageSize,
		cfg.Sync.InsertBatchSize,
		cfg.Sync.BackupKeep,
		cfg.Storage.AssetDir,
		log.GetChildLogger(),
	)
	downloads.Notify(queue)

	return &Services{
		Queue:          queue,
		Downloads:      downloads,
		Backups:        backups,
		Network:        network,
		records:        storages.Records,
		cloud:          cloud,
		logger:         log,
		backupKeep:     cfg.Sync.BackupKeep,
		autoBackupSpan: cfg.Sync.AutoBackupInterval,
	}
}

// Run starts the background workers (network probing, queue processing, and
// periodic automatic backups) and blocks until ctx is cancelled.
func (s *Services) Run(ctx context.Context) {
	autoBackup := workers.NewPeriodic("auto_backup", s.autoBackupSpan, func(ctx context.Context) {
		if _, err := s.Backups.Create(ctx, models.BackupAuto); err != nil {
			s.logger.Err(err).Msg("automatic backup failed")
			return
		}
		if _, err := s.Backups.Cleanup(ctx, s.backupKeep); err != nil {
			s.logger.Err(err).Msg("backup retention cleanup failed")
		}
	}, s.logger.GetChildLogger())

	workers.New(s.Network, s.Queue, autoBackup).Run(ctx)
}

// TrackBrewery stores a new brewery locally and enqueues its cloud create.
// An empty ID is assigned.
func (s *Services) TrackBrewery(ctx context.Context, brewery models.Brewery) (models.TrackedRecord, error) {
	if brewery.ID == "" {
		brewery.ID = uuid.NewString()
	}

	rec, err := newRecord(models.EntityBrewery, brewery.ID, "", brewery)
	if err != nil {
		return models.TrackedRecord{}, err
	}

	return rec, s.saveAndEnqueue(ctx, rec, models.OpCreateBrewery)
}

// TrackBeer stores a new beer locally and enqueues its cloud create. The
// referenced brewery must already exist locally.
func (s *Services) TrackBeer(ctx context.Context, beer models.Beer) (models.TrackedRecord, error) {
	if beer.ID == "" {
		beer.ID = uuid.NewString()
	}

	if _, err := s.records.GetByID(ctx, models.EntityBrewery, beer.BreweryID); err != nil {
		return models.TrackedRecord{}, fmt.Errorf("brewery %s: %w", beer.BreweryID, err)
	}

	rec, err := newRecord(models.EntityBeer, beer.ID, beer.BreweryID, beer)
	if err != nil {
		return models.TrackedRecord{}, err
	}
	rec.AssetRef = beer.LabelImage

	return rec, s.saveAndEnqueue(ctx, rec, models.OpCreateBeer)
}

// UpdateBrewery rewrites an existing brewery and enqueues its cloud update.
func (s *Services) UpdateBrewery(ctx context.Context, brewery models.Brewery) error {
	rec, err := s.bumpRecord(ctx, models.EntityBrewery, brewery.ID, brewery)
	if err != nil {
		return err
	}

	return s.saveAndEnqueue(ctx, rec, models.OpUpdateBrewery)
}

// UpdateBeer rewrites an existing beer and enqueues its cloud update.
func (s *Services) UpdateBeer(ctx context.Context, beer models.Beer) error {
	rec, err := s.bumpRecord(ctx, models.EntityBeer, beer.ID, beer)
	if err != nil {
		return err
	}
	rec.ParentID = beer.BreweryID

	return s.saveAndEnqueue(ctx, rec, models.OpUpdateBeer)
}

// DeleteBrewery removes a brewery locally and enqueues its cloud delete.
func (s *Services) DeleteBrewery(ctx context.Context, id string) error {
	return s.deleteRecord(ctx, models.EntityBrewery, models.OpDeleteBrewery, id)
}

// DeleteBeer removes a beer locally and enqueues its cloud delete.
func (s *Services) DeleteBeer(ctx context.Context, id string) error {
	return s.deleteRecord(ctx, models.EntityBeer, models.OpDeleteBeer, id)
}

// AttachLabelImage points a beer at a local image file and enqueues its
// upload. The record shows the local path until the upload pass replaces it
// with the stored object's URL.
func (s *Services) AttachLabelImage(ctx context.Context, beerID, localFile string) error {
	if _, err := s.records.GetByID(ctx, models.EntityBeer, beerID); err != nil {
		return fmt.Errorf("beer %s: %w", beerID, err)
	}

	if err := s.records.SetAssetRef(ctx, models.EntityBeer, beerID, localFile); err != nil {
		return fmt.Errorf("failed to set asset ref: %w", err)
	}

	_, err := s.Queue.Enqueue(ctx, models.OpUploadAsset, models.UploadAssetPayload{
		BeerID:    beerID,
		LocalFile: localFile,
		Path:      labelPath(beerID, localFile),
	})

	return err
}

// DetachLabelImage clears a beer's label image and enqueues the remote
// object's removal.
func (s *Services) DetachLabelImage(ctx context.Context, beerID string) error {
	rec, err := s.records.GetByID(ctx, models.EntityBeer, beerID)
	if err != nil {
		return fmt.Errorf("beer %s: %w", beerID, err)
	}
	if rec.AssetRef == "" {
		return nil
	}

	if err := s.records.SetAssetRef(ctx, models.EntityBeer, beerID, ""); err != nil {
		return fmt.Errorf("failed to clear asset ref: %w", err)
	}

	_, err = s.Queue.Enqueue(ctx, models.OpDeleteAsset, models.DeleteAssetPayload{
		Path: labelPath(beerID, rec.AssetRef),
	})

	return err
}

// ListBreweries returns every locally tracked brewery.
func (s *Services) ListBreweries(ctx context.Context) ([]models.Brewery, error) {
	return listDecoded[models.Brewery](ctx, s.records, models.EntityBrewery)
}

// ListBeers returns every locally tracked beer.
func (s *Services) ListBeers(ctx context.Context) ([]models.Beer, error) {
	return listDecoded[models.Beer](ctx, s.records, models.EntityBeer)
}

// ForceSyncNow runs one queue pass synchronously.
func (s *Services) ForceSyncNow(ctx context.Context) error {
	return s.Queue.ForceSync(ctx)
}

// QueueStats returns the queue counters.
func (s *Services) QueueStats(ctx context.Context) (models.QueueStats, error) {
	return s.Queue.Stats(ctx)
}

// DownloadFromCloud runs a cloud restore with the given strategy.
func (s *Services) DownloadFromCloud(ctx context.Context, strategy models.ConflictStrategy, onProgress ProgressFunc) (models.DownloadResult, error) {
	return s.Downloads.Download(ctx, strategy, onProgress)
}

// AbortDownload cancels a running cloud restore.
func (s *Services) AbortDownload() {
	s.Downloads.Abort()
}

// CloudStats returns the remote per-collection counts.
func (s *Services) CloudStats(ctx context.Context) (models.CloudStats, error) {
	return s.cloud.Stats(ctx)
}

// NetworkState returns the current connectivity snapshot.
func (s *Services) NetworkState() models.NetworkState {
	return s.Network.State()
}

func newRecord(kind models.EntityKind, id, parentID string, entity any) (models.TrackedRecord, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return models.TrackedRecord{}, fmt.Errorf("failed to marshal %s: %w", kind, err)
	}

	return models.TrackedRecord{
		ID:         id,
		Kind:       kind,
		ParentID:   parentID,
		Version:    1,
		UpdatedAt:  time.Now().UTC(),
		SyncStatus: models.SyncPending,
		Payload:    raw,
	}, nil
}

// bumpRecord loads the current envelope, advances its version, and swaps in
// the new payload.
func (s *Services) bumpRecord(ctx context.Context, kind models.EntityKind, id string, entity any) (models.TrackedRecord, error) {
	rec, err := s.records.GetByID(ctx, kind, id)
	if err != nil {
		return models.TrackedRecord{}, fmt.Errorf("%s %s: %w", kind, id, err)
	}

	raw, err := json.Marshal(entity)
	if err != nil {
		return models.TrackedRecord{}, fmt.Errorf("failed to marshal %s: %w", kind, err)
	}

	rec.Version++
	rec.UpdatedAt = time.Now().UTC()
	rec.SyncStatus = models.SyncPending
	rec.Payload = raw

	return rec, nil
}

func (s *Services) saveAndEnqueue(ctx context.Context, rec models.TrackedRecord, op models.OperationKind) error {
	if err := s.records.UpsertBatch(ctx, rec.Kind, []models.TrackedRecord{rec}); err != nil {
		return fmt.Errorf("failed to save %s locally: %w", rec.Kind, err)
	}

	if _, err := s.Queue.Enqueue(ctx, op, models.RecordPayload{Record: rec}); err != nil {
		return err
	}

	return nil
}

func (s *Services) deleteRecord(ctx context.Context, kind models.EntityKind, op models.OperationKind, id string) error {
	if err := s.records.Delete(ctx, kind, id); err != nil {
		return fmt.Errorf("%s %s: %w", kind, id, err)
	}

	if _, err := s.Queue.Enqueue(ctx, op, models.DeletePayload{ID: id}); err != nil {
		return err
	}

	return nil
}

func listDecoded[T any](ctx context.Context, records store.RecordRepository, kind models.EntityKind) ([]T, error) {
	recs, err := records.GetAll(ctx, kind)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		var entity T
		if err := json.Unmarshal(rec.Payload, &entity); err != nil {
			return nil, fmt.Errorf("failed to decode %s %s: %w", kind, rec.ID, err)
		}
		out = append(out, entity)
	}

	return out, nil
}

func labelPath(beerID, file string) string {
	return "labels/" + beerID + assetExt(file)
}
