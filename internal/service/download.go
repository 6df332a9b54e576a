// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alexei Voronov

package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/avoronov/cellarsync/internal/adapter"
	"github.com/avoronov/cellarsync/internal/logger"
	"github.com/avoronov/cellarsync/internal/store"
	"github.com/avoronov/cellarsync/models"
)

// DownloadOrchestrator runs the cloud-to-device restore: snapshot the local
// dataset, fetch every remote collection page by page, validate parent
// references, apply the conflict strategy, and commit the surviving records
// in one transaction. Label images are fetched afterwards, best effort.
//
// Exactly one restore runs at a time; the run gate also blocks queue passes
// for the restore's whole duration.
type DownloadOrchestrator struct {
	records  store.RecordRepository
	tx       store.TxRunner
	backups  BackupCreator
	cloud    adapter.CloudStore
	resolver *ConflictResolver
	network  NetworkStatus
	gate     *runGate
	logger   *logger.Logger

	pageSize        int
	insertBatchSize int
	backupKeep      int
	assetDir        string

	mu     sync.Mutex
	cancel context.CancelFunc
	waker  Waker
}

func NewDownloadOrchestrator(
	records store.RecordRepository,
	tx store.TxRunner,
	backups BackupCreator,
	cloud adapter.CloudStore,
	resolver *ConflictResolver,
	network NetworkStatus,
	gate *runGate,
	pageSize, insertBatchSize, backupKeep int,
	assetDir string,
	log *logger.Logger,
) *DownloadOrchestrator {
	return &DownloadOrchestrator{
		records:         records,
		tx:              tx,
		backups:         backups,
		cloud:           cloud,
		resolver:        resolver,
		network:         network,
		gate:            gate,
		logger:          log,
		pageSize:        pageSize,
		insertBatchSize: insertBatchSize,
		backupKeep:      backupKeep,
		assetDir:        assetDir,
	}
}

// Notify registers the waker to poke once a restore releases the run gate,
// so queue passes skipped during the restore are re-run. Set during wiring,
// before the first Download.
func (o *DownloadOrchestrator) Notify(w Waker) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.waker = w
}

// Abort cancels the running restore. Abort before the commit rolls the
// restore back completely; after the commit it only stops the remaining
// image downloads. A no-op when no restore is running.
func (o *DownloadOrchestrator) Abort() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
}

func (o *DownloadOrchestrator) setCancel(cancel context.CancelFunc) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.cancel = cancel
}

// Download runs one restore with the given strategy. The progress callback
// receives a full snapshot at every step; pass nil to disable reporting.
//
// Until the insert transaction commits, any failure or Abort leaves the
// local dataset byte-for-byte untouched.
func (o *DownloadOrchestrator) Download(ctx context.Context, strategy models.ConflictStrategy, onProgress ProgressFunc) (models.DownloadResult, error) {
	if !strategy.Valid() {
		return models.DownloadResult{Phase: models.PhaseError, ErrorMessage: string(strategy)}, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
	if !o.network.State().Connected {
		return models.DownloadResult{Phase: models.PhaseError, ErrorMessage: ErrOffline.Error()}, ErrOffline
	}
	if !o.gate.tryBegin(stateDownloading) {
		return models.DownloadResult{Phase: models.PhaseError, ErrorMessage: ErrSyncInProgress.Error()}, ErrSyncInProgress
	}
	// Operations enqueued while the gate is held lose their wake token to a
	// skipped queue pass. Release the gate, then wake the queue so they flow.
	defer func() {
		o.gate.end()

		o.mu.Lock()
		waker := o.waker
		o.mu.Unlock()
		if waker != nil {
			waker.Wake()
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	o.setCancel(cancel)
	defer func() {
		cancel()
		o.setCancel(nil)
	}()

	progress := models.DownloadProgress{
		Phase:  models.PhasePreparing,
		Totals: make(map[models.EntityKind]int),
		Done:   make(map[models.EntityKind]int),
	}
	result := models.DownloadResult{Inserted: make(map[models.EntityKind]int)}

	emit := func() {
		if onProgress != nil {
			onProgress(progress.Clone())
		}
	}
	fail := func(err error) (models.DownloadResult, error) {
		phase := models.PhaseError
		if errors.Is(err, context.Canceled) {
			phase = models.PhaseRolledBack
		}
		o.logger.Err(err).Str("phase", string(phase)).Msg("cloud download failed")
		progress.Phase = phase
		progress.ErrorMessage = err.Error()
		emit()
		result.Phase = phase
		result.ErrorMessage = err.Error()
		return result, err
	}

	o.logger.Info().Str("strategy", string(strategy)).Msg("cloud download started")
	emit()

	localTotal := 0
	for _, kind := range models.EntityKindsOrdered() {
		count, err := o.records.CountAll(ctx, kind)
		if err != nil {
			return fail(fmt.Errorf("failed to count local %s: %w", kind, err))
		}
		localTotal += count
	}

	// KeepLocal over existing data has nothing to do: the local dataset is
	// the resolution for every record.
	if strategy == models.StrategyKeepLocal && localTotal > 0 {
		o.logger.Info().Msg("keep-local restore over non-empty dataset: nothing to do")
		progress.Phase = models.PhaseComplete
		emit()
		result.Phase = models.PhaseComplete
		return result, nil
	}

	if localTotal > 0 {
		progress.Phase = models.PhaseBackingUp
		emit()

		meta, err := o.backups.Create(ctx, models.BackupPreDownload)
		if err != nil {
			return fail(fmt.Errorf("failed to create pre-download backup: %w", err))
		}
		progress.BackupID = meta.ID
		result.BackupID = meta.ID
	}

	fetched, err := o.fetchAll(ctx, &progress, emit)
	if err != nil {
		return fail(err)
	}

	progress.Phase = models.PhaseValidating
	emit()
	valid, orphans := validateParents(fetched)
	progress.SkippedOrphans = orphans
	result.SkippedOrphans = orphans
	if orphans > 0 {
		o.logger.Warn().Int("count", orphans).Msg("skipping orphaned records")
		emit()
	}

	toInsert, err := o.resolveWinners(ctx, strategy, valid)
	if err != nil {
		return fail(err)
	}

	progress.Phase = models.PhaseInserting
	for _, kind := range models.EntityKindsOrdered() {
		progress.Totals[kind] = len(toInsert[kind])
		progress.Done[kind] = 0
	}
	emit()

	if err := o.insertAll(ctx, strategy, toInsert, &progress, emit); err != nil {
		return fail(err)
	}
	for _, kind := range models.EntityKindsOrdered() {
		result.Inserted[kind] = len(toInsert[kind])
	}

	o.downloadImages(ctx, toInsert[models.EntityBeer], &progress, &result, emit)

	if _, err := o.backups.Cleanup(ctx, o.backupKeep); err != nil {
		o.logger.Err(err).Msg("backup retention cleanup failed")
	}

	progress.Phase = models.PhaseComplete
	progress.CurrentItem = ""
	emit()
	result.Phase = models.PhaseComplete

	o.logger.Info().
		Int("orphans_skipped", result.SkippedOrphans).
		Int("images_done", result.ImagesDone).
		Int("images_failed", result.ImagesFailed).
		Msg("cloud download complete")

	return result, nil
}

// fetchAll pulls every collection page by page, parents first.
func (o *DownloadOrchestrator) fetchAll(ctx context.Context, progress *models.DownloadProgress, emit func()) (map[models.EntityKind][]models.TrackedRecord, error) {
	progress.Phase = models.PhaseFetching

	fetched := make(map[models.EntityKind][]models.TrackedRecord)
	for _, kind := range models.EntityKindsOrdered() {
		progress.FetchingKind = kind
		emit()

		cursor := ""
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			page, next, err := o.cloud.ListPage(ctx, kind, cursor, o.pageSize)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch %s page: %w", kind, err)
			}

			fetched[kind] = append(fetched[kind], page...)
			progress.Done[kind] = len(fetched[kind])
			emit()

			if next == "" {
				break
			}
			cursor = next
		}
		progress.Totals[kind] = len(fetched[kind])
	}
	progress.FetchingKind = ""

	return fetched, nil
}

// validateParents drops child records whose parent is absent from the
// fetched parent collection. The cloud can hold such orphans after a
// partially-applied delete; inserting them would violate the local schema's
// referential expectations.
func validateParents(fetched map[models.EntityKind][]models.TrackedRecord) (map[models.EntityKind][]models.TrackedRecord, int) {
	parentIDs := make(map[string]struct{}, len(fetched[models.EntityBrewery]))
	for _, rec := range fetched[models.EntityBrewery] {
		parentIDs[rec.ID] = struct{}{}
	}

	valid := make(map[models.EntityKind][]models.TrackedRecord, len(fetched))
	orphans := 0
	for kind, records := range fetched {
		if !kind.HasParent() {
			valid[kind] = records
			continue
		}

		kept := records[:0:0]
		for _, rec := range records {
			if _, ok := parentIDs[rec.ParentID]; !ok {
				orphans++
				continue
			}
			kept = append(kept, rec)
		}
		valid[kind] = kept
	}

	return valid, orphans
}

// resolveWinners applies the conflict strategy per record and returns the
// records to write. The local updated_at index is loaded before the insert
// transaction opens; the run gate keeps queue passes and other restores out
// of that window, but not direct collection edits. An edit landing there can
// lose to the restore, like the queue entry it produced; the pre-download
// backup is the recovery path.
func (o *DownloadOrchestrator) resolveWinners(ctx context.Context, strategy models.ConflictStrategy, valid map[models.EntityKind][]models.TrackedRecord) (map[models.EntityKind][]models.TrackedRecord, error) {
	var indexes map[models.EntityKind]map[string]time.Time
	if strategy == models.StrategyMergeByDate {
		indexes = make(map[models.EntityKind]map[string]time.Time)
		for _, kind := range models.EntityKindsOrdered() {
			index, err := o.records.UpdatedAtIndex(ctx, kind)
			if err != nil {
				return nil, fmt.Errorf("failed to index local %s: %w", kind, err)
			}
			indexes[kind] = index
		}
	}

	toInsert := make(map[models.EntityKind][]models.TrackedRecord, len(valid))
	for _, kind := range models.EntityKindsOrdered() {
		for _, rec := range valid[kind] {
			var localAt *time.Time
			if index, ok := indexes[kind]; ok {
				if at, exists := index[rec.ID]; exists {
					localAt = &at
				}
			}

			if o.resolver.Resolve(strategy, localAt, rec) != models.DecisionKeepRemote {
				continue
			}
			rec.SyncStatus = models.SyncSynced
			toInsert[kind] = append(toInsert[kind], rec)
		}
	}

	return toInsert, nil
}

// insertAll commits the winning records in one transaction. The sync queue
// is cleared first: pending local mutations are superseded by the restore.
// Any error, including cancellation, rolls the whole transaction back.
func (o *DownloadOrchestrator) insertAll(ctx context.Context, strategy models.ConflictStrategy, toInsert map[models.EntityKind][]models.TrackedRecord, progress *models.DownloadProgress, emit func()) error {
	return o.tx.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.ClearQueue(ctx); err != nil {
			return err
		}

		for _, kind := range models.EntityKindsOrdered() {
			if strategy == models.StrategyReplaceAll {
				if err := tx.Clear(ctx, kind); err != nil {
					return err
				}
			}

			records := toInsert[kind]
			for start := 0; start < len(records); start += o.insertBatchSize {
				if err := ctx.Err(); err != nil {
					return err
				}

				end := min(start+o.insertBatchSize, len(records))
				if err := tx.UpsertBatch(ctx, kind, records[start:end]); err != nil {
					return err
				}

				progress.Done[kind] = end
				emit()
			}
		}

		return nil
	})
}

// downloadImages fetches label images into the local asset cache and points
// each record's asset reference at the cached file. Failures are counted,
// logged, and skipped; the committed dataset is already complete without
// them. Cancellation stops the remaining downloads without error.
func (o *DownloadOrchestrator) downloadImages(ctx context.Context, beers []models.TrackedRecord, progress *models.DownloadProgress, result *models.DownloadResult, emit func()) {
	var withImages []models.TrackedRecord
	for _, rec := range beers {
		// A ref without a URL scheme already points at a local file.
		if isRemoteAssetRef(rec.AssetRef) {
			withImages = append(withImages, rec)
		}
	}

	progress.Phase = models.PhaseDownloadingImages
	progress.TotalImages = len(withImages)
	emit()

	if len(withImages) == 0 {
		return
	}

	if err := os.MkdirAll(o.assetDir, 0o755); err != nil {
		o.logger.Err(err).Str("dir", o.assetDir).Msg("failed to create asset cache dir")
		result.ImagesFailed = len(withImages)
		return
	}

	for _, rec := range withImages {
		if ctx.Err() != nil {
			o.logger.Info().Msg("image downloads interrupted")
			return
		}

		progress.CurrentItem = rec.ID
		if err := o.cacheImage(ctx, rec); err != nil {
			if errors.Is(err, adapter.ErrNotFound) {
				o.logger.Warn().Str("beer_id", rec.ID).Msg("label image missing remotely")
			} else {
				o.logger.Err(err).Str("beer_id", rec.ID).Msg("failed to cache label image")
			}
			result.ImagesFailed++
			emit()
			continue
		}

		progress.DoneImages++
		result.ImagesDone++
		emit()
	}
}

func (o *DownloadOrchestrator) cacheImage(ctx context.Context, rec models.TrackedRecord) error {
	data, err := o.cloud.DownloadAsset(ctx, rec.AssetRef)
	if err != nil {
		return err
	}

	local := filepath.Join(o.assetDir, rec.ID+assetExt(rec.AssetRef))
	if err := os.WriteFile(local, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cached image: %w", err)
	}

	if err := o.records.SetAssetRef(ctx, models.EntityBeer, rec.ID, local); err != nil {
		return fmt.Errorf("failed to point record at cached image: %w", err)
	}

	return nil
}

func isRemoteAssetRef(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func assetExt(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	if ext := path.Ext(url); ext != "" {
		return ext
	}
	return ".img"
}
