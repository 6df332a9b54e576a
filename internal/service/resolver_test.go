package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avoronov/cellarsync/models"
)

func TestConflictResolver_Resolve(t *testing.T) {
	resolver := NewConflictResolver()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	earlier := base.Add(-time.Hour)
	later := base.Add(time.Hour)

	remote := models.TrackedRecord{ID: "beer-1", Kind: models.EntityBeer, UpdatedAt: base}

	tests := []struct {
		name     string
		strategy models.ConflictStrategy
		localAt  *time.Time
		want     models.Decision
	}{
		{
			name:     "replace all keeps remote over existing local",
			strategy: models.StrategyReplaceAll,
			localAt:  &later,
			want:     models.DecisionKeepRemote,
		},
		{
			name:     "replace all keeps remote for new record",
			strategy: models.StrategyReplaceAll,
			localAt:  nil,
			want:     models.DecisionKeepRemote,
		},
		{
			name:     "keep local preserves existing record",
			strategy: models.StrategyKeepLocal,
			localAt:  &earlier,
			want:     models.DecisionKeepLocal,
		},
		{
			name:     "keep local accepts record absent locally",
			strategy: models.StrategyKeepLocal,
			localAt:  nil,
			want:     models.DecisionKeepRemote,
		},
		{
			name:     "merge keeps strictly newer local",
			strategy: models.StrategyMergeByDate,
			localAt:  &later,
			want:     models.DecisionKeepLocal,
		},
		{
			name:     "merge takes strictly newer remote",
			strategy: models.StrategyMergeByDate,
			localAt:  &earlier,
			want:     models.DecisionKeepRemote,
		},
		{
			name:     "merge prefers remote on equal timestamps",
			strategy: models.StrategyMergeByDate,
			localAt:  &base,
			want:     models.DecisionKeepRemote,
		},
		{
			name:     "merge takes remote for new record",
			strategy: models.StrategyMergeByDate,
			localAt:  nil,
			want:     models.DecisionKeepRemote,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolver.Resolve(tt.strategy, tt.localAt, remote)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConflictResolver_Resolve_UnknownStrategy(t *testing.T) {
	resolver := NewConflictResolver()
	at := time.Now().UTC()

	got := resolver.Resolve("mystery", &at, models.TrackedRecord{ID: "x", UpdatedAt: at})
	assert.Equal(t, models.DecisionSkip, got)
}
