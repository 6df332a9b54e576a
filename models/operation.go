package models

import "time"

// OperationKind tags a queued mutation. Every local write enqueues exactly
// one operation; dispatch on the kind is exhaustive (see DecodePayload).
type OperationKind string

const (
	OpCreateBrewery OperationKind = "create_brewery"
	OpUpdateBrewery OperationKind = "update_brewery"
	OpDeleteBrewery OperationKind = "delete_brewery"
	OpCreateBeer    OperationKind = "create_beer"
	OpUpdateBeer    OperationKind = "update_beer"
	OpDeleteBeer    OperationKind = "delete_beer"
	OpUploadAsset   OperationKind = "upload_asset"
	OpDeleteAsset   OperationKind = "delete_asset"
)

// OperationStatus is the queue lifecycle state of a [SyncOperation].
type OperationStatus string

const (
	// OpPending means the operation is waiting for the next processing pass.
	OpPending OperationStatus = "pending"
	// OpSyncing means a pass is currently applying the operation remotely.
	OpSyncing OperationStatus = "syncing"
	// OpError means the operation exhausted its retries and is kept as a
	// dead letter for manual inspection. It is never retried automatically.
	OpError OperationStatus = "error"
)

// OperationID identifies one queued operation.
type OperationID string

// SyncOperation is one durable pending local mutation. Operations are deleted
// only after the corresponding remote write succeeds, or parked with
// Status == OpError once RetryCount reaches MaxRetries.
type SyncOperation struct {
	ID         OperationID     `json:"id"`
	Kind       OperationKind   `json:"kind"`
	Payload    []byte          `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
	RetryCount int             `json:"retry_count"`
	MaxRetries int             `json:"max_retries"`
	Status     OperationStatus `json:"status"`
	LastError  string          `json:"last_error,omitempty"`
}

// QueueStats is a read-only snapshot of the queue for observability. Error
// counts back the "needs attention" indicator in the UI layer.
type QueueStats struct {
	PendingCount   int        `json:"pending_count"`
	SyncingCount   int        `json:"syncing_count"`
	ErrorCount     int        `json:"error_count"`
	LastEnqueuedAt *time.Time `json:"last_enqueued_at,omitempty"`
}
