// Package rrf fuses ranked lexical and semantic result lists into a
// single ranking via Reciprocal Rank Fusion: a document's fused score is
// the sum of 1/(k+rank+1) across every source list it appears in, which
// rewards documents found by multiple independent signals without
// requiring their raw scores to be on comparable scales.
package rrf

import (
	"math"
	"sort"

	"github.com/orneryd/brr/pkg/embedder"
)

// DefaultK is the RRF smoothing constant used when callers don't supply
// their own. Larger k flattens the curve, giving low ranks relatively
// more weight; 60 is the de facto standard from the original RRF paper.
const DefaultK = 60.0

// Hit is one fused result. Rank/score fields are nil when the document
// was absent from that source's result list.
type Hit struct {
	DocID         string
	RRFScore      float64
	LexicalRank   *int
	SemanticRank  *int
	LexicalScore  *float64
	SemanticScore *float64
	InBothSources bool
}

type accumulator struct {
	docID         string
	rrfScore      float64
	lexicalRank   *int
	semanticRank  *int
	lexicalScore  *float64
	semanticScore *float64
}

// Fuse combines lexical and semantic result lists into a single ranked
// list. When both sources produced candidates, documents are combined via
// true Reciprocal Rank Fusion. When only one source produced candidates,
// there is nothing to reciprocally rank against: that source's list is
// carried through verbatim, in its own order, using its raw score as the
// RRF score rather than a synthesized 1/(k+rank+1) value. k defaults to
// DefaultK when <= 0.
//
// Sort order for the combined case (descending precedence): RRF score,
// then documents found by both sources before documents found by only
// one, then lexical score (absent treated as -Inf), then doc ID ascending
// — this last tie-break makes the output order fully deterministic even
// when every other key is equal.
func Fuse(lexical []embedder.ScoredDoc, semantic []embedder.ScoredDoc, k float64) []Hit {
	if k <= 0 {
		k = DefaultK
	}

	switch {
	case len(lexical) == 0 && len(semantic) == 0:
		return []Hit{}
	case len(lexical) == 0:
		return singleSourceHits(semantic, false)
	case len(semantic) == 0:
		return singleSourceHits(lexical, true)
	}

	return fuseBoth(lexical, semantic, k)
}

// singleSourceHits builds a fused list directly from one source's raw
// scores when the other source produced no candidates, preserving that
// source's order and ranks rather than computing an RRF score.
func singleSourceHits(docs []embedder.ScoredDoc, isLexical bool) []Hit {
	hits := make([]Hit, len(docs))
	for i, sd := range docs {
		rank := i
		score := sd.Score
		h := Hit{DocID: sd.DocID, RRFScore: score}
		if isLexical {
			h.LexicalRank = &rank
			h.LexicalScore = &score
		} else {
			h.SemanticRank = &rank
			h.SemanticScore = &score
		}
		hits[i] = h
	}
	return hits
}

func fuseBoth(lexical []embedder.ScoredDoc, semantic []embedder.ScoredDoc, k float64) []Hit {
	acc := make(map[string]*accumulator)
	order := make([]string, 0, len(lexical)+len(semantic))

	get := func(docID string) *accumulator {
		a, ok := acc[docID]
		if !ok {
			a = &accumulator{docID: docID}
			acc[docID] = a
			order = append(order, docID)
		}
		return a
	}

	for rank, sd := range lexical {
		a := get(sd.DocID)
		a.rrfScore += 1.0 / (k + float64(rank) + 1.0)
		r := rank
		a.lexicalRank = &r
		score := sd.Score
		a.lexicalScore = &score
	}

	for rank, sd := range semantic {
		a := get(sd.DocID)
		a.rrfScore += 1.0 / (k + float64(rank) + 1.0)
		r := rank
		a.semanticRank = &r
		score := sd.Score
		a.semanticScore = &score
	}

	hits := make([]Hit, 0, len(order))
	for _, id := range order {
		a := acc[id]
		hits = append(hits, Hit{
			DocID:         a.docID,
			RRFScore:      a.rrfScore,
			LexicalRank:   a.lexicalRank,
			SemanticRank:  a.semanticRank,
			LexicalScore:  a.lexicalScore,
			SemanticScore: a.semanticScore,
			InBothSources: a.lexicalRank != nil && a.semanticRank != nil,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return Less(hits[i], hits[j])
	})
	return hits
}

// Less reports whether hit a should sort before hit b under the 4-level
// tie-break documented on Fuse. Exported so callers that re-sort fused
// or blended hits (e.g. package blend) use the identical ordering.
func Less(a, b Hit) bool {
	if a.RRFScore != b.RRFScore {
		return a.RRFScore > b.RRFScore
	}
	if a.InBothSources != b.InBothSources {
		return a.InBothSources
	}
	as, bs := lexicalScoreOrNegInf(a), lexicalScoreOrNegInf(b)
	if as != bs {
		return as > bs
	}
	return a.DocID < b.DocID
}

func lexicalScoreOrNegInf(h Hit) float64 {
	if h.LexicalScore == nil {
		return math.Inf(-1)
	}
	return *h.LexicalScore
}
