package backend

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/screensync/internal/models"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err      error
		name     string
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "network", err: ErrNetwork, expected: true},
		{name: "timeout", err: ErrTimeout, expected: true},
		{name: "wrapped network", err: Wrap("sync batch", fmt.Errorf("dial: %w", ErrNetwork)), expected: true},
		{name: "deadline exceeded", err: context.DeadlineExceeded, expected: true},
		{name: "blocked", err: ErrBlocked, expected: true},
		{name: "not connected", err: ErrNotConnected, expected: true},
		{name: "not found", err: ErrNotFound, expected: false},
		{name: "authentication", err: ErrAuthentication, expected: false},
		{name: "authorization", err: ErrAuthorization, expected: false},
		{name: "invalid state", err: ErrInvalidState, expected: false},
		{name: "fatal", err: ErrFatal, expected: false},
		{name: "conflict", err: &ConflictError{}, expected: false},
		{name: "not registered", err: ErrNotRegistered, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRetryable(tt.err))
		})
	}
}

func TestConflictError(t *testing.T) {
	err := &ConflictError{
		Local:  &models.Entity{ID: "A", Version: 2},
		Remote: &models.Entity{ID: "A", Version: 3},
	}

	assert.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "conflict detected: local version 2, remote version 3", err.Error())

	var wrapped error = Wrap("sync batch", err)
	var ce *ConflictError
	assert.True(t, errors.As(wrapped, &ce))
	assert.Equal(t, int64(3), ce.Remote.Version)
}

func TestKindRoundTrip(t *testing.T) {
	for _, sentinel := range []error{
		ErrNotFound, ErrAuthentication, ErrAuthorization, ErrNetwork, ErrTimeout,
		ErrConflict, ErrInvalidState, ErrBlocked, ErrFatal, ErrNotConnected,
	} {
		kind := Kind(sentinel)
		assert.NotEqual(t, "unknown", kind)
		assert.ErrorIs(t, FromKind(kind), sentinel)
	}

	assert.Equal(t, "unknown", Kind(errors.New("boom")))
	assert.Equal(t, "", Kind(nil))
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap("op", nil))

	err := Wrap("fetch entity", ErrNotFound)
	assert.EqualError(t, err, "backend fetch entity: entity not found")
	assert.ErrorIs(t, err, ErrNotFound)
}
