package store

import (
	"context"
	"time"

	"github.com/avoronov/cellarsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// RecordRepository is the local persistence surface for tracked entity
// collections. One implementation serves every [models.EntityKind]; the kind
// selects the backing table.
type RecordRepository interface {
	// UpsertBatch inserts or replaces the given records in the kind's table.
	UpsertBatch(ctx context.Context, kind models.EntityKind, records []models.TrackedRecord) error

	// GetAll returns every record of the kind.
	GetAll(ctx context.Context, kind models.EntityKind) ([]models.TrackedRecord, error)

	// GetByID returns a single record or [ErrRecordNotFound].
	GetByID(ctx context.Context, kind models.EntityKind, id string) (models.TrackedRecord, error)

	// CountAll returns the number of records of the kind.
	CountAll(ctx context.Context, kind models.EntityKind) (int, error)

	// Delete removes a single record or returns [ErrRecordNotFound].
	Delete(ctx context.Context, kind models.EntityKind, id string) error

	// Clear removes every record of the kind.
	Clear(ctx context.Context, kind models.EntityKind) error

	// UpdatedAtIndex returns id -> updated_at for every record of the kind.
	// Used by merge restores to decide winners without per-record queries.
	UpdatedAtIndex(ctx context.Context, kind models.EntityKind) (map[string]time.Time, error)

	// SetAssetRef rewrites a record's asset reference in place, leaving
	// version and updated_at untouched.
	SetAssetRef(ctx context.Context, kind models.EntityKind, id, ref string) error

	// MarkSynced flips a record's sync status to synced after its queued
	// operation has been applied remotely.
	MarkSynced(ctx context.Context, kind models.EntityKind, id string) error
}

// QueueRepository is the durable storage for pending sync operations.
type QueueRepository interface {
	// Insert appends a new operation to the queue.
	Insert(ctx context.Context, op models.SyncOperation) error

	// Pending returns all pending operations ordered by enqueued_at ascending.
	Pending(ctx context.Context) ([]models.SyncOperation, error)

	// Delete removes an operation after its remote write succeeded.
	Delete(ctx context.Context, id models.OperationID) error

	// Update rewrites an operation's status, retry count, and last error.
	Update(ctx context.Context, op models.SyncOperation) error

	// Stats returns a read-only snapshot of queue counters.
	Stats(ctx context.Context) (models.QueueStats, error)
}

// BackupStore persists full-dataset snapshots as standalone blobs keyed by
// backup id, outside the relational database.
type BackupStore interface {
	// Write persists a snapshot and returns its metadata with the storage
	// location filled in.
	Write(ctx context.Context, snapshot models.BackupSnapshot) (models.BackupMetadata, error)

	// Read loads the full snapshot for the given backup id.
	Read(ctx context.Context, id string) (models.BackupSnapshot, error)

	// List returns metadata for every stored snapshot, newest first.
	List(ctx context.Context) ([]models.BackupMetadata, error)

	// Delete removes a snapshot by id.
	Delete(ctx context.Context, id string) error
}

// TxRunner executes a function inside a single database transaction. The
// transaction is committed when fn returns nil and rolled back otherwise.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *Tx) error) error
}
