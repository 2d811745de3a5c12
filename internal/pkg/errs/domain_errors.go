package errs

import "errors"

// Cross-layer sentinel errors. Usecases mark concrete failures with these so
// the handler layer can map them without importing infra.
var (
	// Access errors
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	// Idempotency errors
	ErrIdempotencyInProgress  = errors.New("idempotency in progress")
	ErrIdempotencyKeyMismatch = errors.New("idempotency key reused with different payload")
	ErrIdempotencyCheckFailed = errors.New("idempotency check failed")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
