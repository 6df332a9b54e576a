package models

import (
	"encoding/json"
	"time"
)

// SyncStatus marks whether a local record has been propagated to the cloud.
type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSynced  SyncStatus = "synced"
)

// TrackedRecord is the generic envelope the replication core operates on.
// The entity payload itself stays opaque; only the fields needed for
// ordering, conflict resolution and orphan validation are lifted out.
type TrackedRecord struct {
	ID         string          `json:"id"`
	Kind       EntityKind      `json:"kind"`
	ParentID   string          `json:"parent_id,omitempty"`
	Version    int64           `json:"version"`
	UpdatedAt  time.Time       `json:"updated_at"`
	SyncStatus SyncStatus      `json:"sync_status"`
	AssetRef   string          `json:"asset_ref,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}
