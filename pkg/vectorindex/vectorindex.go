// Package vectorindex provides an in-memory, dimension-typed vector store
// with brute-force dot-product top-k search. It trades sub-linear lookup
// for exactness: no ANN structure, no approximate recall loss.
package vectorindex

import (
	"fmt"
	"sync"

	"github.com/orneryd/brr/pkg/brrerrors"
	"github.com/orneryd/brr/pkg/vector"
)

// Hit is one top-k search result.
type Hit struct {
	Index int
	Score float64
	DocID string
}

// Index is a brute-force dot-product vector store. All vectors must share
// the same dimension; vectors are stored exactly as given — the index
// never normalizes on insert, since callers choose whether similarity
// should be cosine (normalize first) or raw dot product.
type Index struct {
	mu         sync.RWMutex
	dimension  int
	embedderID string
	docIDs     []string
	vectors    [][]float32
}

// New creates an empty index for vectors of the given dimension,
// recording embedderID as provenance metadata for persistence.
func New(dimension int, embedderID string) *Index {
	return &Index{dimension: dimension, embedderID: embedderID}
}

// Dimension returns the vector length this index was created for.
func (idx *Index) Dimension() int { return idx.dimension }

// EmbedderID returns the provenance string recorded at creation.
func (idx *Index) EmbedderID() string { return idx.embedderID }

// Count returns the number of vectors currently stored.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docIDs)
}

// DocIDs returns a defensive copy of the doc IDs currently stored, in
// insertion order.
func (idx *Index) DocIDs() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]string, len(idx.docIDs))
	copy(out, idx.docIDs)
	return out
}

// Add appends a single vector under docID. Returns a DimensionMismatch
// error if the vector's length doesn't match the index's dimension.
func (idx *Index) Add(docID string, vec []float32) error {
	if len(vec) != idx.dimension {
		return brrerrors.NewDimensionMismatch(idx.dimension, len(vec))
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	stored := make([]float32, len(vec))
	copy(stored, vec)
	idx.docIDs = append(idx.docIDs, docID)
	idx.vectors = append(idx.vectors, stored)
	return nil
}

// AddBatch appends many vectors at once. docIDs and vecs must be the same
// length; every vector must match the index dimension.
func (idx *Index) AddBatch(docIDs []string, vecs [][]float32) error {
	if len(docIDs) != len(vecs) {
		return fmt.Errorf("vectorindex: docIDs and vecs length mismatch: %d vs %d", len(docIDs), len(vecs))
	}
	for _, v := range vecs {
		if len(v) != idx.dimension {
			return brrerrors.NewDimensionMismatch(idx.dimension, len(v))
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for i, v := range vecs {
		stored := make([]float32, len(v))
		copy(stored, v)
		idx.docIDs = append(idx.docIDs, docIDs[i])
		idx.vectors = append(idx.vectors, stored)
	}
	return nil
}

// Search returns the top k hits by descending dot product against query.
// Returns an empty slice (not an error) when the index is empty or k<=0.
func (idx *Index) Search(query []float32, k int) ([]Hit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(query) != idx.dimension {
		return nil, brrerrors.NewDimensionMismatch(idx.dimension, len(query))
	}
	if len(idx.vectors) == 0 || k <= 0 {
		return []Hit{}, nil
	}

	scores := make([]float64, len(idx.vectors))
	for i, v := range idx.vectors {
		scores[i] = vector.DotProduct(query, v)
	}

	indices := topKDotProduct(scores, k)

	hits := make([]Hit, len(indices))
	for i, idxPos := range indices {
		hits[i] = Hit{Index: idxPos, Score: scores[idxPos], DocID: idx.docIDs[idxPos]}
	}
	return hits, nil
}
