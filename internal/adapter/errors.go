package adapter

import "errors"

// Transport errors mapped from HTTP status codes. Callers match them with
// [errors.Is]; [IsPermanent] classifies them for retry decisions.
var (
	// ErrBadRequest means the cloud store rejected the payload as
	// malformed. Permanent: retrying the same payload cannot succeed.
	ErrBadRequest = errors.New("cloud rejected request as malformed")

	// ErrUnauthorized means the request lacked valid credentials.
	ErrUnauthorized = errors.New("cloud request unauthorized")

	// ErrNotFound means the target record or object does not exist remotely.
	ErrNotFound = errors.New("cloud resource not found")

	// ErrConflict means the remote copy changed since the client last saw it.
	ErrConflict = errors.New("cloud version conflict")

	// ErrUnavailable means the cloud store is temporarily unreachable or
	// overloaded. Transient: the operation stays pending and is retried.
	ErrUnavailable = errors.New("cloud temporarily unavailable")

	// ErrInternal means the cloud store failed server-side. Treated as
	// transient; it may resolve on a later pass.
	ErrInternal = errors.New("cloud internal error")
)

// IsPermanent reports whether err can never succeed on retry. Permanent
// failures are dead-lettered immediately instead of burning retries. When
// the remote cannot be classified the conservative default is transient.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrBadRequest) || errors.Is(err, ErrUnauthorized)
}
