package models

// DownloadPhase is the current stage of a cloud restore. Phases advance
// linearly; any phase can fall into PhaseError or PhaseRolledBack.
type DownloadPhase string

const (
	PhasePreparing         DownloadPhase = "preparing"
	PhaseBackingUp         DownloadPhase = "backing_up"
	PhaseFetching          DownloadPhase = "fetching"
	PhaseValidating        DownloadPhase = "validating"
	PhaseInserting         DownloadPhase = "inserting"
	PhaseDownloadingImages DownloadPhase = "downloading_images"
	PhaseComplete          DownloadPhase = "complete"
	PhaseError             DownloadPhase = "error"
	PhaseRolledBack        DownloadPhase = "rolled_back"
)

// Terminal reports whether the phase ends the download.
func (p DownloadPhase) Terminal() bool {
	switch p {
	case PhaseComplete, PhaseError, PhaseRolledBack:
		return true
	}
	return false
}

// DownloadProgress is the full state snapshot handed to the progress callback
// at every meaningful step. Callers receive a copy, never a delta.
type DownloadProgress struct {
	Phase          DownloadPhase      `json:"phase"`
	FetchingKind   EntityKind         `json:"fetching_kind,omitempty"`
	Totals         map[EntityKind]int `json:"totals"`
	Done           map[EntityKind]int `json:"done"`
	TotalImages    int                `json:"total_images"`
	DoneImages     int                `json:"done_images"`
	SkippedOrphans int                `json:"skipped_orphans"`
	CurrentItem    string             `json:"current_item,omitempty"`
	BackupID       string             `json:"backup_id,omitempty"`
	ErrorMessage   string             `json:"error_message,omitempty"`
}

// Clone returns a deep copy safe to hand across the callback boundary.
func (p DownloadProgress) Clone() DownloadProgress {
	out := p
	out.Totals = make(map[EntityKind]int, len(p.Totals))
	for k, v := range p.Totals {
		out.Totals[k] = v
	}
	out.Done = make(map[EntityKind]int, len(p.Done))
	for k, v := range p.Done {
		out.Done[k] = v
	}
	return out
}

// DownloadResult summarises a finished (or failed) cloud restore.
type DownloadResult struct {
	Phase          DownloadPhase      `json:"phase"`
	Inserted       map[EntityKind]int `json:"inserted"`
	SkippedOrphans int                `json:"skipped_orphans"`
	ImagesDone     int                `json:"images_done"`
	ImagesFailed   int                `json:"images_failed"`
	BackupID       string             `json:"backup_id,omitempty"`
	ErrorMessage   string             `json:"error_message,omitempty"`
}

// CloudStats mirrors the remote store's per-collection counts.
type CloudStats struct {
	PerEntityCounts map[EntityKind]int `json:"per_entity_counts"`
	LastUpdated     string             `json:"last_updated,omitempty"`
}
