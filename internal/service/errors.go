package service

import "errors"

var (
	// ErrSyncInProgress is returned when a restore cannot start because a
	// queue pass or another restore currently holds the run gate.
	ErrSyncInProgress = errors.New("another sync task is already running")

	// ErrOffline is returned when a restore is requested while the device
	// has no confirmed connectivity.
	ErrOffline = errors.New("device is offline")

	// ErrUnknownStrategy is returned for a conflict strategy outside the
	// supported set.
	ErrUnknownStrategy = errors.New("unknown conflict strategy")

	// ErrUnknownOperation marks a queued operation whose kind or payload
	// cannot be dispatched. Such operations are dead-lettered, never
	// retried.
	ErrUnknownOperation = errors.New("unknown sync operation kind")

	// ErrAssetUnreadable marks an upload whose source file cannot be read.
	// Retrying cannot fix a missing file, so the operation is dead-lettered.
	ErrAssetUnreadable = errors.New("asset source file unreadable")
)
