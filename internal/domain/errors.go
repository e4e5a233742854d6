package domain

import "errors"

var (
	// ErrRecordNotFound is returned when a get/update/delete targets an id
	// that does not exist in the remote store.
	ErrRecordNotFound = errors.New("record not found")

	// ErrUnknownEntity is returned when a collection name is not registered.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrInvalidCredentials is returned by the login flow for a bad
	// email/password pair. It deliberately does not say which half failed.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTooManyAttempts is returned when the login rate limit is hit.
	ErrTooManyAttempts = errors.New("too many login attempts")
)

// BackendError wraps a failure of the remote store. The message is the
// remote error verbatim so the UI layer can surface it unchanged; Op and
// Entity exist for diagnostics only.
type BackendError struct {
	Op     string
	Entity string
	Err    error
}

func (e *BackendError) Error() string {
	return e.Err.Error()
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a missing-record error, unwrapping as
// needed.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}
