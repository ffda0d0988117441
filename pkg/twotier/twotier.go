// Package twotier orchestrates the progressive hybrid search pipeline:
// an INITIAL phase fuses a fast embedder with the lexical backend, and an
// optional REFINED phase re-embeds with a slower/better embedder and
// blends the two rankings together. A caller that only wants the cheap
// result can stop after the first Next call; nothing in between is
// wasted, since the refinement only starts once it's actually asked for.
package twotier

import (
	"context"
	"log"

	"github.com/orneryd/brr/pkg/blend"
	"github.com/orneryd/brr/pkg/canonicalize"
	"github.com/orneryd/brr/pkg/config"
	"github.com/orneryd/brr/pkg/embedder"
	"github.com/orneryd/brr/pkg/queryclass"
	"github.com/orneryd/brr/pkg/rrf"
	"github.com/orneryd/brr/pkg/vectorindex"
)

// Phase identifies which stage of the pipeline a Result came from.
type Phase string

const (
	PhaseInitial          Phase = "initial"
	PhaseRefined          Phase = "refined"
	PhaseRefinementFailed Phase = "refinement_failed"
)

// Result is one yielded result set: the INITIAL phase's hits, and later
// (if refinement runs) the REFINED or REFINEMENT_FAILED phase's hits.
type Result struct {
	Phase Phase
	Hits  []rrf.Hit
}

// Searcher runs the two-tier search pipeline over a vector index, a fast
// embedder, an optional quality embedder, and an optional lexical
// backend.
type Searcher struct {
	Index           *vectorindex.Index
	FastEmbedder    embedder.Embedder
	QualityEmbedder embedder.Embedder // nil disables the REFINED phase
	Lexical         embedder.LexicalBackend
	Config          config.Config
}

// New constructs a Searcher. QualityEmbedder and Lexical may be nil.
func New(index *vectorindex.Index, fast embedder.Embedder, quality embedder.Embedder, lexical embedder.LexicalBackend, cfg config.Config) *Searcher {
	return &Searcher{Index: index, FastEmbedder: fast, QualityEmbedder: quality, Lexical: lexical, Config: cfg}
}

// Search starts a two-tier search for query, returning a Stream the
// caller advances with Next. At most two Results are ever produced.
func (s *Searcher) Search(query string, k int) *Stream {
	return &Stream{searcher: s, query: query, k: k}
}

// Stream is a stateful, finite, abandonable iterator over at most two
// Results. Not calling Next again after the first result is how a caller
// opts out of the refinement phase — no goroutine or resource is ever
// spun up for a Stream that's never advanced past INITIAL.
type Stream struct {
	searcher *Searcher
	query    string
	k        int

	done    bool
	emitted bool

	lexicalResults  []embedder.ScoredDoc
	semanticResults []embedder.ScoredDoc
	initialHits     []rrf.Hit
}

// Next advances the stream and returns the next Result. The second bool
// return is false once the stream is exhausted; calling Next again after
// that returns a zero Result and false.
func (st *Stream) Next(ctx context.Context) (Result, bool) {
	if st.done {
		return Result{}, false
	}

	if !st.emitted {
		return st.runInitial(ctx)
	}
	return st.runRefinement(ctx)
}

func (st *Stream) runInitial(ctx context.Context) (Result, bool) {
	st.emitted = true

	canonicalQuery := canonicalize.Query(st.query, 0)
	class := queryclass.Classify(canonicalQuery)
	if class == queryclass.ClassEmpty {
		st.done = true
		return Result{Phase: PhaseInitial, Hits: []rrf.Hit{}}, true
	}

	budget := queryclass.AdaptiveBudget(class, st.searcher.Config.CandidateMultiplier)
	semanticK := budget.SemanticMultiplier * st.k
	lexicalK := budget.LexicalMultiplier * st.k

	st.semanticResults = runSemantic(ctx, st.searcher.FastEmbedder, st.searcher.Index, canonicalQuery, semanticK)
	st.lexicalResults = runLexical(ctx, st.searcher.Lexical, canonicalQuery, lexicalK)

	fused := fuse(st.lexicalResults, st.semanticResults, st.searcher.Config.RRFK)
	st.initialHits = truncate(fused, st.k)

	if st.searcher.Config.FastOnly || st.searcher.QualityEmbedder == nil {
		st.done = true
	}

	return Result{Phase: PhaseInitial, Hits: st.initialHits}, true
}

func (st *Stream) runRefinement(ctx context.Context) (Result, bool) {
	st.done = true

	blended, err := st.computeQualityBlend(ctx)
	if err != nil {
		log.Printf("brr: refinement failed for query %q: %v", st.query, err)
		return Result{Phase: PhaseRefinementFailed, Hits: st.initialHits}, true
	}
	return Result{Phase: PhaseRefined, Hits: truncate(blended, st.k)}, true
}

func (st *Stream) computeQualityBlend(ctx context.Context) ([]rrf.Hit, error) {
	canonicalQuery := canonicalize.Query(st.query, 0)
	class := queryclass.Classify(canonicalQuery)
	budget := queryclass.AdaptiveBudget(class, st.searcher.Config.CandidateMultiplier)
	semanticK := budget.SemanticMultiplier * st.k

	queryVec, err := st.searcher.QualityEmbedder.Embed(ctx, canonicalQuery)
	if err != nil {
		return nil, err
	}

	hits, err := st.searcher.Index.Search(queryVec, semanticK)
	if err != nil {
		return nil, err
	}

	qualitySemantic := make([]embedder.ScoredDoc, len(hits))
	for i, h := range hits {
		qualitySemantic[i] = embedder.ScoredDoc{DocID: h.DocID, Score: h.Score}
	}

	// Reuse the lexical results already gathered during INITIAL instead
	// of re-running the lexical backend.
	qualityFused := fuse(st.lexicalResults, qualitySemantic, st.searcher.Config.RRFK)

	return blend.Scores(st.initialHits, truncate(qualityFused, st.k), st.searcher.Config.QualityWeight), nil
}

func runSemantic(ctx context.Context, fast embedder.Embedder, index *vectorindex.Index, query string, k int) []embedder.ScoredDoc {
	if k <= 0 {
		return nil
	}
	vec, err := fast.Embed(ctx, query)
	if err != nil {
		log.Printf("brr: semantic embed failed: %v", err)
		return nil
	}
	hits, err := index.Search(vec, k)
	if err != nil {
		log.Printf("brr: semantic search failed: %v", err)
		return nil
	}
	out := make([]embedder.ScoredDoc, len(hits))
	for i, h := range hits {
		out[i] = embedder.ScoredDoc{DocID: h.DocID, Score: h.Score}
	}
	return out
}

func runLexical(ctx context.Context, backend embedder.LexicalBackend, query string, k int) []embedder.ScoredDoc {
	if backend == nil || k <= 0 {
		return nil
	}
	hits, err := backend.Search(ctx, query, k)
	if err != nil {
		log.Printf("brr: lexical search failed: %v", err)
		return nil
	}
	return hits
}

// fuse combines lexical and semantic candidate lists via rrf.Fuse, which
// already falls back to a single source's raw scores/order when only one
// of the two produced candidates.
func fuse(lexical, semantic []embedder.ScoredDoc, k float64) []rrf.Hit {
	return rrf.Fuse(lexical, semantic, k)
}

func truncate(hits []rrf.Hit, k int) []rrf.Hit {
	if k <= 0 || k >= len(hits) {
		return hits
	}
	return hits[:k]
}
