package models

// ConflictStrategy is selected once per restore invocation and stays fixed
// for its whole lifetime.
type ConflictStrategy string

const (
	// StrategyReplaceAll discards local state and keeps every remote record.
	// This is the destructive path and always forces a pre-download backup.
	StrategyReplaceAll ConflictStrategy = "replace_all"
	// StrategyKeepLocal keeps local state untouched. With non-empty local
	// data the whole restore short-circuits before fetching anything.
	StrategyKeepLocal ConflictStrategy = "keep_local"
	// StrategyMergeByDate keeps, per record, the copy with the strictly
	// later updated_at. Equal timestamps prefer the remote copy.
	StrategyMergeByDate ConflictStrategy = "merge_by_date"
)

// Valid reports whether s is a known strategy.
func (s ConflictStrategy) Valid() bool {
	switch s {
	case StrategyReplaceAll, StrategyKeepLocal, StrategyMergeByDate:
		return true
	}
	return false
}

// Decision is the outcome of resolving one candidate record during a restore.
type Decision int

const (
	// DecisionKeepLocal leaves the local copy in place; nothing is written.
	DecisionKeepLocal Decision = iota
	// DecisionKeepRemote writes the remote copy over the local one.
	DecisionKeepRemote
	// DecisionSkip drops the candidate entirely (e.g. orphaned child).
	DecisionSkip
)

func (d Decision) String() string {
	switch d {
	case DecisionKeepLocal:
		return "keep_local"
	case DecisionKeepRemote:
		return "keep_remote"
	case DecisionSkip:
		return "skip"
	}
	return "unknown"
}
