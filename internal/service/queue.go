// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alexei Voronov

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/avoronov/cellarsync/internal/adapter"
	"github.com/avoronov/cellarsync/internal/logger"
	"github.com/avoronov/cellarsync/internal/store"
	"github.com/avoronov/cellarsync/models"
)

// QueueManager owns the durable sync queue: every local mutation is enqueued
// here and applied to the cloud store in enqueue order by the next processing
// pass. An operation leaves the queue only after its remote write succeeded
// or after it exhausted its retries and was parked as a dead letter.
type QueueManager struct {
	queue   store.QueueRepository
	records store.RecordRepository
	cloud   adapter.CloudStore
	network NetworkStatus
	gate    *runGate
	logger  *logger.Logger

	maxRetries int
	wake       chan struct{}
}

func NewQueueManager(
	queue store.QueueRepository,
	records store.RecordRepository,
	cloud adapter.CloudStore,
	network NetworkStatus,
	gate *runGate,
	maxRetries int,
	log *logger.Logger,
) *QueueManager {
	return &QueueManager{
		queue:      queue,
		records:    records,
		cloud:      cloud,
		network:    network,
		gate:       gate,
		logger:     log,
		maxRetries: maxRetries,
		wake:       make(chan struct{}, 1),
	}
}

// Enqueue persists a new operation and requests a processing pass. The write
// is durable before Enqueue returns; the apply happens asynchronously.
func (q *QueueManager) Enqueue(ctx context.Context, kind models.OperationKind, payload any) (models.SyncOperation, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return models.SyncOperation{}, fmt.Errorf("failed to marshal %s payload: %w", kind, err)
	}

	op := models.SyncOperation{
		ID:         models.OperationID(uuid.NewString()),
		Kind:       kind,
		Payload:    raw,
		EnqueuedAt: time.Now().UTC(),
		MaxRetries: q.maxRetries,
		Status:     models.OpPending,
	}

	if err := q.queue.Insert(ctx, op); err != nil {
		return models.SyncOperation{}, fmt.Errorf("failed to enqueue %s: %w", kind, err)
	}

	q.logger.Debug().
		Str("operation_id", string(op.ID)).
		Str("kind", string(kind)).
		Msg("operation enqueued")

	q.Wake()

	return op, nil
}

// Wake requests a processing pass without blocking. Multiple wakes before
// the loop picks one up coalesce into a single pass.
func (q *QueueManager) Wake() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Start runs the queue loop until ctx is cancelled. One pass is triggered
// immediately to drain operations persisted by a previous run.
func (q *QueueManager) Start(ctx context.Context) {
	q.logger.Info().Msg("sync queue loop started")
	q.Wake()

	for {
		select {
		case <-ctx.Done():
			q.logger.Info().Msg("sync queue loop stopped")
			return
		case <-q.wake:
			if err := q.runPass(ctx); err != nil && !errors.Is(err, context.Canceled) {
				q.logger.Err(err).Str("func", "QueueManager.Start").Msg("queue pass failed")
			}
		}
	}
}

// ForceSync runs one processing pass synchronously. A no-op while offline or
// while another pass or a restore holds the run gate.
func (q *QueueManager) ForceSync(ctx context.Context) error {
	return q.runPass(ctx)
}

// Stats returns a read-only snapshot of queue counters.
func (q *QueueManager) Stats(ctx context.Context) (models.QueueStats, error) {
	return q.queue.Stats(ctx)
}

// runPass drains pending operations oldest-first. Operations enqueued while
// the pass is running are picked up by re-reading the queue until a read
// yields nothing new; seen ids are skipped so an operation that failed
// transiently waits for the next pass instead of looping inside this one.
func (q *QueueManager) runPass(ctx context.Context) error {
	if !q.network.State().Connected {
		q.logger.Debug().Msg("skipping queue pass: offline")
		return nil
	}

	if !q.gate.tryBegin(stateQueueing) {
		q.logger.Debug().Str("state", q.gate.current().String()).Msg("skipping queue pass: gate held")
		return nil
	}
	defer q.gate.end()

	seen := make(map[models.OperationID]struct{})
	for {
		pending, err := q.queue.Pending(ctx)
		if err != nil {
			return fmt.Errorf("failed to read pending operations: %w", err)
		}

		progressed := false
		for _, op := range pending {
			if _, ok := seen[op.ID]; ok {
				continue
			}
			seen[op.ID] = struct{}{}
			progressed = true

			if err := ctx.Err(); err != nil {
				return err
			}
			if !q.network.State().Connected {
				q.logger.Info().Msg("stopping queue pass: connectivity lost")
				return nil
			}

			if stop := q.process(ctx, op); stop {
				return nil
			}
		}

		if !progressed {
			return nil
		}
	}
}

// process applies one operation and updates its queue row accordingly. The
// returned flag stops the current pass when the cloud became unreachable;
// the operation stays pending without consuming a retry in that case.
func (q *QueueManager) process(ctx context.Context, op models.SyncOperation) (stop bool) {
	op.Status = models.OpSyncing
	if err := q.queue.Update(ctx, op); err != nil {
		q.logger.Err(err).Str("operation_id", string(op.ID)).Msg("failed to mark operation syncing")
	}

	applyErr := q.apply(ctx, op)
	if applyErr == nil {
		if err := q.queue.Delete(ctx, op.ID); err != nil {
			q.logger.Err(err).Str("operation_id", string(op.ID)).Msg("failed to delete applied operation")
		}
		return false
	}

	switch {
	case errors.Is(applyErr, adapter.ErrUnavailable):
		op.Status = models.OpPending
		op.LastError = applyErr.Error()
		stop = true
	case isPermanent(applyErr):
		op.Status = models.OpError
		op.LastError = applyErr.Error()
		q.logger.Err(applyErr).
			Str("operation_id", string(op.ID)).
			Str("kind", string(op.Kind)).
			Msg("operation dead-lettered")
	default:
		op.RetryCount++
		op.LastError = applyErr.Error()
		if op.RetryCount >= op.MaxRetries {
			op.Status = models.OpError
			q.logger.Err(applyErr).
				Str("operation_id", string(op.ID)).
				Int("retries", op.RetryCount).
				Msg("operation dead-lettered after retries")
		} else {
			op.Status = models.OpPending
		}
	}

	if err := q.queue.Update(ctx, op); err != nil {
		q.logger.Err(err).Str("operation_id", string(op.ID)).Msg("failed to update failed operation")
	}

	return stop
}

func isPermanent(err error) bool {
	return adapter.IsPermanent(err) ||
		errors.Is(err, ErrUnknownOperation) ||
		errors.Is(err, ErrAssetUnreadable)
}

// apply dispatches one operation against the cloud store. Remote deletes of
// already-missing targets count as success.
func (q *QueueManager) apply(ctx context.Context, op models.SyncOperation) error {
	payload, err := models.DecodePayload(op.Kind, op.Payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownOperation, err)
	}

	switch p := payload.(type) {
	case models.RecordPayload:
		if err := q.cloud.Put(ctx, p.Record.Kind, p.Record); err != nil {
			return err
		}
		if err := q.records.MarkSynced(ctx, p.Record.Kind, p.Record.ID); err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			q.logger.Err(err).Str("record_id", p.Record.ID).Msg("failed to mark record synced")
		}
		return nil

	case models.DeletePayload:
		kind := models.EntityKindFor(op.Kind)
		if err := q.cloud.Delete(ctx, kind, p.ID); err != nil && !errors.Is(err, adapter.ErrNotFound) {
			return err
		}
		return nil

	case models.UploadAssetPayload:
		return q.applyUpload(ctx, p)

	case models.DeleteAssetPayload:
		if err := q.cloud.DeleteAsset(ctx, p.Path); err != nil && !errors.Is(err, adapter.ErrNotFound) {
			return err
		}
		return nil
	}

	return fmt.Errorf("%w: %s", ErrUnknownOperation, op.Kind)
}

// applyUpload pushes a label image to the object store, rewrites the owning
// beer's asset reference to the stored URL, and enqueues a follow-up update
// so the remote record points at the stored object too.
func (q *QueueManager) applyUpload(ctx context.Context, p models.UploadAssetPayload) error {
	data, err := os.ReadFile(p.LocalFile)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAssetUnreadable, err)
	}

	url, err := q.cloud.UploadAsset(ctx, p.Path, data)
	if err != nil {
		return err
	}

	if err := q.records.SetAssetRef(ctx, models.EntityBeer, p.BeerID, url); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			// Beer was deleted while the upload waited in the queue.
			q.logger.Warn().Str("beer_id", p.BeerID).Msg("uploaded asset for a deleted beer")
			return nil
		}
		return fmt.Errorf("failed to store asset ref: %w", err)
	}

	record, err := q.records.GetByID(ctx, models.EntityBeer, p.BeerID)
	if err != nil {
		return fmt.Errorf("failed to reload beer after upload: %w", err)
	}

	if _, err := q.Enqueue(ctx, models.OpUpdateBeer, models.RecordPayload{Record: record}); err != nil {
		return err
	}

	return nil
}
