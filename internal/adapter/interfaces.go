// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alexei Voronov

// Package adapter provides transport-layer abstractions for communicating
// with the cellarsync cloud store.
//
// The primary abstraction is [CloudStore], which decouples the service layer
// from the underlying protocol. The package ships an HTTP/REST implementation
// ([NewHTTPCloudStore]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling, and [IsPermanent] to decide whether a failed operation
// should be retried or dead-lettered.
package adapter

import (
	"context"

	"github.com/avoronov/cellarsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/cloud_store_mock.go -package=mock

// CloudStore defines transport-agnostic communication with the remote
// document store and its binary object store. Implementations are
// responsible for serialisation and for mapping transport-level errors to
// the sentinel values defined in this package.
type CloudStore interface {
	// Ping probes the cloud endpoint. A nil return means the store is
	// reachable; the network monitor uses it for connectivity transitions.
	Ping(ctx context.Context) error

	// ListPage fetches one page of a collection using cursor-based
	// pagination. An empty cursor starts from the beginning; the returned
	// cursor is empty on the last page.
	ListPage(ctx context.Context, kind models.EntityKind, cursor string, pageSize int) ([]models.TrackedRecord, string, error)

	// Put creates or replaces one record in the remote collection.
	Put(ctx context.Context, kind models.EntityKind, record models.TrackedRecord) error

	// Delete removes one record from the remote collection.
	Delete(ctx context.Context, kind models.EntityKind, id string) error

	// UploadAsset stores binary data under the given object path and
	// returns the canonical remote URL of the stored object.
	UploadAsset(ctx context.Context, path string, data []byte) (string, error)

	// DownloadAsset fetches the binary object at the given URL.
	DownloadAsset(ctx context.Context, url string) ([]byte, error)

	// DeleteAsset removes the binary object at the given path.
	DeleteAsset(ctx context.Context, path string) error

	// Stats returns the remote per-collection record counts.
	Stats(ctx context.Context) (models.CloudStats, error)
}
