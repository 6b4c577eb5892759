package accounting

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKind(t *testing.T) {
	for _, kind := range []ErrorKind{
		ErrorKindConnection, ErrorKindAuthentication, ErrorKindForbidden,
		ErrorKindNotFound, ErrorKindValidation, ErrorKindRateLimit,
		ErrorKindServer, ErrorKindGeneric,
	} {
		assert.True(t, kind.IsValid(), kind.String())
	}
	assert.False(t, ErrorKind("TEAPOT").IsValid())
}

func TestRemoteErrorRetryable(t *testing.T) {
	tests := []struct {
		kind      ErrorKind
		retryable bool
	}{
		{ErrorKindConnection, true},
		{ErrorKindServer, true},
		{ErrorKindRateLimit, true},
		{ErrorKindAuthentication, false},
		{ErrorKindForbidden, false},
		{ErrorKindNotFound, false},
		{ErrorKindValidation, false},
		{ErrorKindGeneric, false},
	}
	for _, tt := range tests {
		err := &RemoteError{Kind: tt.kind}
		assert.Equal(t, tt.retryable, err.Retryable(), tt.kind.String())
	}
}

func TestRemoteErrorMessage(t *testing.T) {
	err := &RemoteError{Kind: ErrorKindRateLimit, StatusCode: 429, Message: "slow down", RetryAfter: 5 * time.Second}
	assert.Contains(t, err.Error(), "slow down")
	assert.Contains(t, err.Error(), "429")
}

func TestAsRemoteError(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		inner := &RemoteError{Kind: ErrorKindServer}
		got, ok := AsRemoteError(inner)
		require.True(t, ok)
		assert.Same(t, inner, got)
	})

	t.Run("wrapped", func(t *testing.T) {
		inner := &RemoteError{Kind: ErrorKindNotFound}
		wrapped := fmt.Errorf("fetching accounts: %w", inner)
		got, ok := AsRemoteError(wrapped)
		require.True(t, ok)
		assert.Equal(t, ErrorKindNotFound, got.Kind)
	})

	t.Run("unrelated", func(t *testing.T) {
		_, ok := AsRemoteError(errors.New("plain"))
		assert.False(t, ok)
	})
}
