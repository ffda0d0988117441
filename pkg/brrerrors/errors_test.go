package brrerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbedderUnavailableMessage(t *testing.T) {
	err := NewEmbedderUnavailable("all-MiniLM-L6-v2", "model not downloaded")
	assert.Equal(t, "embedder unavailable: all-MiniLM-L6-v2 — model not downloaded", err.Error())
}

func TestEmbeddingFailedWithCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewEmbeddingFailed("fast-model", cause)
	assert.Equal(t, "embedding failed for model fast-model: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestEmbeddingFailedWithoutCause(t *testing.T) {
	err := NewEmbeddingFailed("fast-model", nil)
	assert.Equal(t, "embedding failed for model fast-model", err.Error())
}

func TestIndexCorruptedMessage(t *testing.T) {
	err := NewIndexCorrupted("/tmp/idx", "dimension mismatch: header=384, data=128")
	assert.Equal(t, "index corrupted at /tmp/idx: dimension mismatch: header=384, data=128", err.Error())
}

func TestDimensionMismatchMessage(t *testing.T) {
	err := NewDimensionMismatch(384, 128)
	assert.Equal(t, "dimension mismatch: expected 384, found 128", err.Error())
}

func TestKindOfUnwrapsChain(t *testing.T) {
	inner := NewDimensionMismatch(1, 2)
	wrapped := NewEmbeddingFailed("m", inner)
	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindEmbeddingFailed, kind)

	// A non-*Error wrapper is unwrapped until the first *Error is found.
	kind, ok = KindOf(fmt.Errorf("context: %w", inner))
	assert.True(t, ok)
	assert.Equal(t, KindDimensionMismatch, kind)
}

func TestKindOfNoMatch(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
}
