// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alexei Voronov

package service

import (
	"time"

	"github.com/avoronov/cellarsync/models"
)

// ConflictResolver decides, per candidate record, whether the local or the
// remote copy survives a restore. It holds no state and performs no I/O; the
// orchestrator feeds it the local updated_at index and applies the decisions.
type ConflictResolver struct{}

func NewConflictResolver() *ConflictResolver {
	return &ConflictResolver{}
}

// Resolve returns the decision for one remote candidate. localUpdatedAt is
// nil when no local record with the same id exists.
//
// ReplaceAll always keeps the remote copy. KeepLocal keeps an existing local
// copy and accepts the remote one only for ids absent locally. MergeByDate
// keeps the copy with the later updated_at; on an exact tie the remote copy
// wins, so a restore converges to the cloud state.
func (r *ConflictResolver) Resolve(strategy models.ConflictStrategy, localUpdatedAt *time.Time, remote models.TrackedRecord) models.Decision {
	if localUpdatedAt == nil {
		return models.DecisionKeepRemote
	}

	switch strategy {
	case models.StrategyReplaceAll:
		return models.DecisionKeepRemote
	case models.StrategyKeepLocal:
		return models.DecisionKeepLocal
	case models.StrategyMergeByDate:
		if localUpdatedAt.After(remote.UpdatedAt) {
			return models.DecisionKeepLocal
		}
		return models.DecisionKeepRemote
	}

	return models.DecisionSkip
}
