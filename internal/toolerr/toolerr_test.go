package toolerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	err := Validationf("limit must be a non-negative integer, got %d", -1)
	require.EqualError(t, err, "invalid input: limit must be a non-negative integer, got -1")
}

func TestKindOf(t *testing.T) {
	require.Equal(t, KindValidation, KindOf(Validationf("bad")))
	require.Equal(t, KindNotFound, KindOf(NotFoundf("missing")))
	require.Equal(t, KindUpstream, KindOf(Upstreamf("boom")))

	// Wrapping preserves the classification.
	wrapped := fmt.Errorf("call failed: %w", NotFoundf("missing"))
	require.Equal(t, KindNotFound, KindOf(wrapped))

	// Unclassified errors never masquerade as caller mistakes.
	require.Equal(t, KindUpstream, KindOf(errors.New("plain")))
	require.Equal(t, KindUpstream, KindOf(nil))
}

func TestUpstreamNil(t *testing.T) {
	require.NoError(t, Upstream(nil))
	require.Error(t, Upstream(errors.New("boom")))
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := Upstream(inner)
	require.ErrorIs(t, err, inner)
}
