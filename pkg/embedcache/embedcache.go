// Package embedcache wraps any embedder.Embedder with a read-through LRU
// cache keyed by exact input text, so repeated queries (common in
// interactive search) skip the underlying model call.
package embedcache

import (
	"context"
	"hash/fnv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/orneryd/brr/pkg/embedder"
)

const defaultMaxEntries = 10000

// Cached decorates an embedder.Embedder with an LRU cache. It implements
// embedder.Embedder itself, so it can be substituted anywhere the
// wrapped embedder could be used.
type Cached struct {
	inner embedder.Embedder
	cache *lru.Cache[uint64, []float32]
}

// New wraps inner with an LRU cache holding up to maxEntries embeddings.
// maxEntries defaults to 10000 when <= 0.
func New(inner embedder.Embedder, maxEntries int) *Cached {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	cache, _ := lru.New[uint64, []float32](maxEntries)
	return &Cached{inner: inner, cache: cache}
}

func (c *Cached) Dimension() int                  { return c.inner.Dimension() }
func (c *Cached) ModelID() string                 { return c.inner.ModelID() }
func (c *Cached) IsSemantic() bool                 { return c.inner.IsSemantic() }
func (c *Cached) Category() embedder.ModelCategory { return c.inner.Category() }

// Embed returns the cached vector for text if present, otherwise embeds
// via the wrapped embedder and populates the cache.
func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(text)
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	v, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, v)
	return v, nil
}

// EmbedBatch embeds each text through the cache independently, batching
// only the cache misses through the wrapped embedder.
func (c *Cached) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string

	for i, t := range texts {
		if v, ok := c.cache.Get(cacheKey(t)); ok {
			out[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}

	if len(missTexts) > 0 {
		embedded, err := c.inner.EmbedBatch(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		for j, idx := range missIdx {
			out[idx] = embedded[j]
			c.cache.Add(cacheKey(missTexts[j]), embedded[j])
		}
	}

	return out, nil
}

// Len reports the current number of cached entries.
func (c *Cached) Len() int { return c.cache.Len() }

func cacheKey(text string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(text))
	return h.Sum64()
}
