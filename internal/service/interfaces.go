package service

import (
	"context"

	"github.com/avoronov/cellarsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// NetworkStatus is the read side of connectivity state. The queue consults it
// before and during every processing pass.
type NetworkStatus interface {
	// State returns the current connectivity snapshot.
	State() models.NetworkState
}

// Waker requests a queue processing pass without blocking. Safe to call from
// any goroutine; redundant wakes coalesce.
type Waker interface {
	Wake()
}

// BackupCreator is the slice of the backup manager the download orchestrator
// needs: taking a snapshot before a destructive restore and pruning old ones
// after a successful one.
type BackupCreator interface {
	Create(ctx context.Context, reason models.BackupReason) (models.BackupMetadata, error)
	Cleanup(ctx context.Context, keep int) (int, error)
}

// ProgressFunc receives a full progress snapshot at every meaningful step of
// a cloud restore. A nil ProgressFunc is allowed and disables reporting.
type ProgressFunc func(models.DownloadProgress)
