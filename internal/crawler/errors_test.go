package crawler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchErrorClassification(t *testing.T) {
	t.Parallel()

	base := errors.New("connection reset")
	transient := NewTransientError("https://example.com/", base)
	permanent := NewPermanentError("https://example.com/", base)

	require.True(t, IsTransient(transient))
	require.False(t, IsTransient(permanent))
	require.ErrorIs(t, transient, base)

	// classification survives wrapping
	wrapped := fmt.Errorf("attempt 2: %w", transient)
	require.True(t, IsTransient(wrapped))

	// unclassified errors are never retried
	require.False(t, IsTransient(base))
	require.False(t, IsTransient(nil))
}
