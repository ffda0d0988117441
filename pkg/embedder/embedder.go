// Package embedder declares the capability contracts that external
// embedding and lexical-search backends must satisfy to plug into the
// two-tier searcher. These are structural contracts, not a base class:
// any type providing these methods qualifies, concrete or mocked.
package embedder

import "context"

// ModelCategory classifies the kind of model backing an Embedder.
type ModelCategory string

const (
	CategoryHash    ModelCategory = "hash"
	CategoryFast    ModelCategory = "fast"
	CategoryQuality ModelCategory = "quality"
)

// Embedder turns text into a fixed-dimension dense vector.
type Embedder interface {
	// Embed returns the vector for a single piece of text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch returns one vector per input text, in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension is the length of every vector this embedder produces.
	Dimension() int
	// ModelID names the model/version, used as persisted-index metadata.
	ModelID() string
	// IsSemantic reports whether vectors carry learned semantic meaning,
	// as opposed to a structural hash with no language understanding.
	IsSemantic() bool
	// Category reports which tier this embedder belongs to.
	Category() ModelCategory
}

// LexicalBackend indexes and searches text by exact/lexical match (e.g.
// BM25-style scoring), as a peer to Embedder's semantic search.
type LexicalBackend interface {
	// IndexDocuments (re)indexes the given documents, replacing any
	// prior content for the same doc IDs.
	IndexDocuments(ctx context.Context, docIDs []string, texts []string) error
	// Search returns up to limit (doc ID, score) pairs for query,
	// ordered by descending score.
	Search(ctx context.Context, query string, limit int) ([]ScoredDoc, error)
}

// ScoredDoc is one lexical search hit.
type ScoredDoc struct {
	DocID string
	Score float64
}
