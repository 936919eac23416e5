package streamerr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndIs(t *testing.T) {
	err := New(ProcessorNotFound, "processor %s not found", "P123")
	require.True(t, Is(err, ProcessorNotFound))
	assert.False(t, Is(err, LinkNotFound))
	assert.Contains(t, err.Error(), "P123")
}

func TestWrapUnwraps(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(GpuError, cause, "texture creation failed")
	assert.ErrorIs(t, err, cause)

	k, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, GpuError, k)
}

func TestKindOfNonStreamErr(t *testing.T) {
	_, ok := KindOf(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestWrappedThroughFmt(t *testing.T) {
	inner := New(InvalidLink, "mismatched schema")
	outer := fmt.Errorf("connect failed: %w", inner)
	assert.True(t, Is(outer, InvalidLink))
}
