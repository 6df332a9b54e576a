package models

import "time"

// BackupReason records why a snapshot was taken.
type BackupReason string

const (
	BackupPreDownload BackupReason = "pre_download"
	BackupManual      BackupReason = "manual"
	BackupAuto        BackupReason = "auto"
)

// BackupMetadata describes one durable local snapshot. Immutable once
// written; removed only by retention cleanup.
type BackupMetadata struct {
	ID              string             `json:"id"`
	CreatedAt       time.Time          `json:"created_at"`
	PerEntityCounts map[EntityKind]int `json:"per_entity_counts"`
	Reason          BackupReason       `json:"reason"`
	Location        string             `json:"location"`
}

// BackupSnapshot is the full serialized form stored on disk: metadata plus
// every tracked record per collection.
type BackupSnapshot struct {
	Metadata BackupMetadata                 `json:"metadata"`
	Records  map[EntityKind][]TrackedRecord `json:"records"`
}
