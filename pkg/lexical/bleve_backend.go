// Package lexical provides a concrete embedder.LexicalBackend over an
// in-memory Bleve index, used as the default/reference lexical tier
// wherever a real full-text engine isn't supplied.
package lexical

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/orneryd/brr/pkg/embedder"
)

// bleveDocument is the document shape indexed into Bleve; only Content is
// searched, mirroring a single-field BM25-style content index.
type bleveDocument struct {
	Content string `json:"content"`
}

// BleveBackend is an embedder.LexicalBackend backed by an in-memory
// Bleve index with the default analyzer/mapping.
type BleveBackend struct {
	mu    sync.RWMutex
	index bleve.Index
}

// NewBleveBackend creates an empty, in-memory Bleve-backed lexical index.
func NewBleveBackend() (*BleveBackend, error) {
	mapping := bleve.NewIndexMapping()
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory bleve index: %w", err)
	}
	return &BleveBackend{index: idx}, nil
}

// IndexDocuments batch-indexes docIDs/texts, replacing any prior content
// for the same doc IDs.
func (b *BleveBackend) IndexDocuments(ctx context.Context, docIDs []string, texts []string) error {
	if len(docIDs) != len(texts) {
		return fmt.Errorf("docIDs and texts must be the same length, got %d and %d", len(docIDs), len(texts))
	}
	if len(docIDs) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	batch := b.index.NewBatch()
	for i, id := range docIDs {
		doc := bleveDocument{Content: texts[i]}
		if err := batch.Index(id, doc); err != nil {
			return fmt.Errorf("failed to index document %s: %w", id, err)
		}
	}
	return b.index.Batch(batch)
}

// Search runs a match query against the content field, returning up to
// limit hits ordered by descending Bleve score.
func (b *BleveBackend) Search(ctx context.Context, query string, limit int) ([]embedder.ScoredDoc, error) {
	if strings.TrimSpace(query) == "" || limit <= 0 {
		return []embedder.ScoredDoc{}, nil
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetField("content")

	req := bleve.NewSearchRequest(matchQuery)
	req.Size = limit

	result, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	hits := make([]embedder.ScoredDoc, 0, len(result.Hits))
	for _, hit := range result.Hits {
		hits = append(hits, embedder.ScoredDoc{DocID: hit.ID, Score: hit.Score})
	}
	return hits, nil
}

// Close releases the underlying Bleve index.
func (b *BleveBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.index.Close()
}
