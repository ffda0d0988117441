package rrf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/brr/pkg/embedder"
)

func TestFuseDocumentInBothSourcesOutranksSingleSource(t *testing.T) {
	lexical := []embedder.ScoredDoc{{DocID: "a", Score: 5.0}, {DocID: "b", Score: 4.0}}
	semantic := []embedder.ScoredDoc{{DocID: "a", Score: 0.9}, {DocID: "c", Score: 0.8}}

	hits := Fuse(lexical, semantic, DefaultK)
	require.NotEmpty(t, hits)
	assert.Equal(t, "a", hits[0].DocID)
	assert.True(t, hits[0].InBothSources)
}

func TestFuseEmptyBothSources(t *testing.T) {
	hits := Fuse(nil, nil, DefaultK)
	assert.Empty(t, hits)
}

func TestFuseLexicalOnly(t *testing.T) {
	// Single-source fallback preserves the lexical list's own order
	// rather than resorting by score: "a" leads because it's first in
	// the input, not because 1.0 > 0.5 (it happens to also hold here).
	lexical := []embedder.ScoredDoc{{DocID: "a", Score: 1.0}, {DocID: "b", Score: 0.5}}
	hits := Fuse(lexical, nil, DefaultK)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].DocID)
	assert.Equal(t, 1.0, hits[0].RRFScore)
	assert.False(t, hits[0].InBothSources)
	assert.Nil(t, hits[0].SemanticRank)
}

func TestFuseSemanticOnly(t *testing.T) {
	// "x" leads even though "y" has the higher raw score: single-source
	// fallback carries the semantic list through in its given order.
	semantic := []embedder.ScoredDoc{{DocID: "x", Score: 0.3}, {DocID: "y", Score: 0.9}}
	hits := Fuse(nil, semantic, DefaultK)
	require.Len(t, hits, 2)
	assert.Equal(t, "x", hits[0].DocID)
	assert.Equal(t, 0.3, hits[0].RRFScore)
	assert.Equal(t, "y", hits[1].DocID)
	assert.Equal(t, 0.9, hits[1].RRFScore)
}

func TestFuseRRFScoreFormula(t *testing.T) {
	// With only one source present, RRFScore is the raw score itself —
	// there is no second list to reciprocally rank against.
	lexical := []embedder.ScoredDoc{{DocID: "a", Score: 1.0}}
	hits := Fuse(lexical, nil, 60.0)
	require.Len(t, hits, 1)
	assert.Equal(t, 1.0, hits[0].RRFScore)
}

func TestFuseBothSourcesUsesReciprocalRankFormula(t *testing.T) {
	// With both sources present, RRFScore is the true 1/(k+rank+1) sum.
	lexical := []embedder.ScoredDoc{{DocID: "a", Score: 1.0}}
	semantic := []embedder.ScoredDoc{{DocID: "b", Score: 1.0}}
	hits := Fuse(lexical, semantic, 60.0)
	require.Len(t, hits, 2)
	for _, h := range hits {
		assert.InDelta(t, 1.0/61.0, h.RRFScore, 1e-9)
	}
}

func TestFuseTieBreakByLexicalScoreThenDocID(t *testing.T) {
	// Fusing this list cannot produce a tie: "b" sits at rank 0 and "a" at
	// rank 1, so their RRF scores differ. The tie is therefore set up
	// directly on Hit values and checked through Less.
	lexical := []embedder.ScoredDoc{{DocID: "b", Score: 1.0}, {DocID: "a", Score: 2.0}}
	_ = lexical

	// Equal RRF scores: a has the higher lexical score so it sorts first.
	hitA := Hit{DocID: "a", RRFScore: 0.5, LexicalScore: floatPtr(2.0)}
	hitB := Hit{DocID: "b", RRFScore: 0.5, LexicalScore: floatPtr(1.0)}
	assert.True(t, Less(hitA, hitB))
	assert.False(t, Less(hitB, hitA))

	// Equal RRF and lexical scores: doc ID ascending decides.
	hitC := Hit{DocID: "c", RRFScore: 0.5, LexicalScore: floatPtr(2.0)}
	assert.True(t, Less(hitA, hitC))
	assert.False(t, Less(hitC, hitA))
}

func TestFuseTieBreakByDocIDWhenFullyTied(t *testing.T) {
	hitA := Hit{DocID: "a", RRFScore: 0.5}
	hitB := Hit{DocID: "b", RRFScore: 0.5}
	assert.True(t, Less(hitA, hitB))
}

func TestFuseDeterministicOrderAcrossRuns(t *testing.T) {
	lexical := []embedder.ScoredDoc{{DocID: "a", Score: 1.0}, {DocID: "b", Score: 0.9}}
	semantic := []embedder.ScoredDoc{{DocID: "c", Score: 0.95}}

	first := Fuse(lexical, semantic, DefaultK)
	second := Fuse(lexical, semantic, DefaultK)
	assert.Equal(t, first, second)
}

func floatPtr(f float64) *float64 { return &f }
