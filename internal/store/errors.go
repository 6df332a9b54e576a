package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrRecordNotFound is returned when a query targets a tracked record
	// that does not exist in the local database.
	ErrRecordNotFound = errors.New("tracked record not found")

	// ErrOperationNotFound is returned when a queue update or delete targets
	// an operation id that is not in the sync queue.
	ErrOperationNotFound = errors.New("sync operation not found")

	// ErrUnknownEntityKind is returned when a caller passes an entity kind
	// that does not map to a known local table.
	ErrUnknownEntityKind = errors.New("unknown entity kind")

	// ErrBackupNotFound is returned when no snapshot exists for the
	// requested backup id.
	ErrBackupNotFound = errors.New("backup not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommittingTransaction is returned when committing an open
	// transaction fails. The transaction is considered rolled back.
	ErrCommittingTransaction = errors.New("failed to commit transaction")
)
