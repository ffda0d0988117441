// Package hashembed implements a deterministic, dependency-free Embedder
// backed by FNV-1a hashing of character n-grams. It has no notion of
// language or meaning, so it is the fallback/reference tier: always
// available, useful for tests and the CLI, never a substitute for a real
// learned embedding model.
package hashembed

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/orneryd/brr/pkg/embedder"
	"github.com/orneryd/brr/pkg/vector"
)

const defaultNgramSize = 3

// Embedder is a FNV-1a n-gram hash embedder. It satisfies embedder.Embedder
// with ModelCategory = CategoryHash and IsSemantic() == false.
type Embedder struct {
	dim       int
	ngramSize int
}

// New creates a hash embedder producing vectors of dim dimensions,
// scattering overlapping byte n-grams of the given size. dim defaults to
// 384 and ngramSize to 3 when <= 0.
func New(dim, ngramSize int) *Embedder {
	if dim <= 0 {
		dim = 384
	}
	if ngramSize <= 0 {
		ngramSize = defaultNgramSize
	}
	return &Embedder{dim: dim, ngramSize: ngramSize}
}

func (e *Embedder) Dimension() int                  { return e.dim }
func (e *Embedder) ModelID() string                 { return modelID(e.dim) }
func (e *Embedder) IsSemantic() bool                 { return false }
func (e *Embedder) Category() embedder.ModelCategory { return embedder.CategoryHash }

func modelID(dim int) string {
	return "fnv1a-" + strconv.Itoa(dim) + "d"
}

// Embed scatters overlapping n-grams of text into a fixed-size vector via
// FNV-1a hashing, then L2-normalizes the result.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dim)
	b := []byte(text)

	if len(b) < e.ngramSize {
		scatter(vec, b)
	} else {
		for i := 0; i+e.ngramSize <= len(b); i++ {
			scatter(vec, b[i:i+e.ngramSize])
		}
	}

	return vector.Normalize(vec), nil
}

// EmbedBatch embeds each text independently, preserving order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func scatter(vec []float32, gram []byte) {
	h := fnv.New64a()
	h.Write(gram)
	sum := h.Sum64()

	bucket := int(sum % uint64(len(vec)))
	sign := float32(1.0)
	if (sum>>32)&1 == 1 {
		sign = -1.0
	}
	vec[bucket] += sign
}
