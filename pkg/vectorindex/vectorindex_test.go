package vectorindex

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/orneryd/brr/pkg/brrerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDimensionMismatch(t *testing.T) {
	idx := New(3, "test")
	err := idx.Add("doc-1", []float32{1, 2})
	require.Error(t, err)
	kind, ok := brrerrors.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, brrerrors.KindDimensionMismatch, kind)
}

func TestAddDoesNotNormalize(t *testing.T) {
	idx := New(2, "test")
	require.NoError(t, idx.Add("doc-1", []float32{3, 4}))
	hits, err := idx.Search([]float32{3, 4}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 25.0, hits[0].Score, 1e-6)
}

func TestSearchEmptyIndex(t *testing.T) {
	idx := New(3, "test")
	hits, err := idx.Search([]float32{1, 2, 3}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchKLargerThanCount(t *testing.T) {
	idx := New(2, "test")
	idx.Add("a", []float32{1, 0})
	idx.Add("b", []float32{0, 1})
	hits, err := idx.Search([]float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSearchReturnsTopKByDescendingScore(t *testing.T) {
	idx := New(1, "test")
	idx.Add("low", []float32{1})
	idx.Add("high", []float32{10})
	idx.Add("mid", []float32{5})
	hits, err := idx.Search([]float32{1}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "high", hits[0].DocID)
	assert.Equal(t, "mid", hits[1].DocID)
}

func TestDocIDsReturnsDefensiveCopy(t *testing.T) {
	idx := New(1, "test")
	idx.Add("a", []float32{1})
	idx.Add("b", []float32{2})

	ids := idx.DocIDs()
	assert.Equal(t, []string{"a", "b"}, ids)

	ids[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, idx.DocIDs())
}

func TestSearchDimensionMismatch(t *testing.T) {
	idx := New(3, "test")
	idx.Add("a", []float32{1, 2, 3})
	_, err := idx.Search([]float32{1, 2}, 1)
	require.Error(t, err)
}

func TestTopKHandlesNaNAsNegativeInfinity(t *testing.T) {
	scores := []float64{math.NaN(), 5.0, 3.0}
	result := topKDotProduct(scores, 2)
	require.Len(t, result, 2)
	assert.Equal(t, 1, result[0])
	assert.Equal(t, 2, result[1])
}

func TestTopKStableTieBreak(t *testing.T) {
	scores := []float64{1.0, 1.0, 1.0}
	result := topKDotProduct(scores, 2)
	assert.Equal(t, []int{0, 1}, result)
}

func TestSaveLoadRoundTripF32(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "idx")

	idx := New(3, "fnv1a-3d")
	require.NoError(t, idx.Add("doc-1", []float32{1, 2, 3}))
	require.NoError(t, idx.Add("doc-2", []float32{4, 5, 6}))

	require.NoError(t, idx.Save(base, false))
	require.FileExists(t, base+".npz")
	require.FileExists(t, base+".json")

	loaded, err := Load(base)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Dimension())
	assert.Equal(t, "fnv1a-3d", loaded.EmbedderID())
	assert.Equal(t, 2, loaded.Count())

	hits, err := loaded.Search([]float32{1, 2, 3}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc-1", hits[0].DocID)
}

func TestSaveLoadRoundTripF16Quantization(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "idx")

	idx := New(2, "test")
	require.NoError(t, idx.Add("doc-1", []float32{0.5, -0.25}))

	require.NoError(t, idx.Save(base, true))

	data, err := os.ReadFile(base + ".json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"quantization": "f16"`)

	loaded, err := Load(base)
	require.NoError(t, err)
	hits, err := loaded.Search([]float32{0.5, -0.25}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.3125, hits[0].Score, 1e-3)
}

func TestLoadEmptyIndex(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "empty")

	idx := New(4, "test")
	require.NoError(t, idx.Save(base, false))

	loaded, err := Load(base)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Count())
	assert.Equal(t, 4, loaded.Dimension())
}

func TestLoadMissingFilesReturnsIndexCorrupted(t *testing.T) {
	_, err := Load("/nonexistent/path/idx")
	require.Error(t, err)
	kind, ok := brrerrors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, brrerrors.KindIndexCorrupted, kind)
}
