package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/screensync/internal/models"
)

// Failure taxonomy shared by every Port implementation.
var (
	// ErrNotFound indicates that the entity does not exist on the backend (non-retryable).
	ErrNotFound = errors.New("entity not found")

	// ErrAuthentication indicates missing or invalid credentials (non-retryable, fatal).
	ErrAuthentication = errors.New("authentication failed")

	// ErrAuthorization indicates that the caller may not perform the operation (non-retryable).
	ErrAuthorization = errors.New("authorization failed")

	// ErrNetwork indicates a transport or 5xx failure (retryable).
	ErrNetwork = errors.New("network error")

	// ErrTimeout indicates that a call exceeded its deadline (retryable).
	ErrTimeout = errors.New("timeout")

	// ErrConflict indicates that the stored version differs from the client base version.
	// It is a routing signal, not a failure: see ConflictError.
	ErrConflict = errors.New("conflict detected")

	// ErrInvalidState indicates a programming error in the caller (non-retryable).
	ErrInvalidState = errors.New("invalid state")

	// ErrBlocked indicates that an earlier item of the same entity failed in the same batch.
	ErrBlocked = errors.New("blocked by earlier item of the same entity")

	// ErrFatal indicates a malformed backend response; the caller must not retry.
	ErrFatal = errors.New("malformed backend response")

	// ErrNotConnected indicates that the backend is not reachable right now.
	ErrNotConnected = errors.New("backend not connected")
)

// ErrNotRegistered is returned by Registry.Get when no Port is registered.
// It is deliberately not part of the Port taxonomy above.
var ErrNotRegistered = errors.New("backend not registered")

// ConflictError carries both sides of a divergence detected by the backend.
type ConflictError struct {
	Local  *models.Entity // Local версия, которую пытался записать клиент (может быть nil для delete)
	Remote *models.Entity // Remote версия, хранящаяся на бэкенде
}

func (e *ConflictError) Error() string {
	var remoteVer int64
	if e.Remote != nil {
		remoteVer = e.Remote.Version
	}
	if e.Local == nil {
		return fmt.Sprintf("conflict detected: remote version %d", remoteVer)
	}
	return fmt.Sprintf("conflict detected: local version %d, remote version %d", e.Local.Version, remoteVer)
}

// Is makes errors.Is(err, ErrConflict) true for any ConflictError.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// IsConflict reports whether err signals a divergence.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// Error wraps a taxonomy error with the operation that produced it.
type Error struct {
	Err error
	Op  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap attaches op to err unless err is nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// IsRetryable reports whether the error may succeed on a later attempt.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrNetwork),
		errors.Is(err, ErrTimeout),
		errors.Is(err, ErrBlocked),
		errors.Is(err, ErrNotConnected),
		errors.Is(err, context.DeadlineExceeded):
		return true
	default:
		return false
	}
}

// Kind returns a stable name of the taxonomy class of err, used on the wire and in logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrAuthorization):
		return "authorization"
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrBlocked):
		return "blocked"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrFatal):
		return "fatal"
	case errors.Is(err, ErrNotConnected):
		return "not_connected"
	default:
		return "unknown"
	}
}

// FromKind is the inverse of Kind for sentinel classes.
func FromKind(kind string) error {
	switch kind {
	case "conflict":
		return ErrConflict
	case "not_found":
		return ErrNotFound
	case "authentication":
		return ErrAuthentication
	case "authorization":
		return ErrAuthorization
	case "timeout":
		return ErrTimeout
	case "network":
		return ErrNetwork
	case "blocked":
		return ErrBlocked
	case "invalid_state":
		return ErrInvalidState
	case "fatal":
		return ErrFatal
	case "not_connected":
		return ErrNotConnected
	default:
		return errors.New("unknown backend error")
	}
}
