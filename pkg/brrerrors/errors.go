// Package brrerrors defines the closed taxonomy of errors the search
// pipeline raises, mirroring the small exception hierarchy the embedder
// and index boundary is built around.
package brrerrors

import "fmt"

// Kind identifies which error condition occurred.
type Kind string

const (
	KindEmbedderUnavailable Kind = "embedder_unavailable"
	KindEmbeddingFailed     Kind = "embedding_failed"
	KindIndexCorrupted      Kind = "index_corrupted"
	KindDimensionMismatch   Kind = "dimension_mismatch"
	KindQueryParse          Kind = "query_parse"
	KindSearchTimeout       Kind = "search_timeout"
)

// Error is the single error type returned across the search pipeline's
// boundary. Only the fields relevant to Kind are populated.
type Error struct {
	Kind Kind

	// EmbedderUnavailable / EmbeddingFailed
	Model  string
	Reason string
	Cause  error

	// IndexCorrupted
	Path   string
	Detail string

	// DimensionMismatch
	Expected int
	Found    int

	// QueryParse
	Query string

	// SearchTimeout
	ElapsedMS float64
	BudgetMS  float64
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindEmbedderUnavailable:
		return fmt.Sprintf("embedder unavailable: %s — %s", e.Model, e.Reason)
	case KindEmbeddingFailed:
		if e.Cause != nil {
			return fmt.Sprintf("embedding failed for model %s: %v", e.Model, e.Cause)
		}
		return fmt.Sprintf("embedding failed for model %s", e.Model)
	case KindIndexCorrupted:
		return fmt.Sprintf("index corrupted at %s: %s", e.Path, e.Detail)
	case KindDimensionMismatch:
		return fmt.Sprintf("dimension mismatch: expected %d, found %d", e.Expected, e.Found)
	case KindQueryParse:
		return fmt.Sprintf("query parse error for %q: %s", e.Query, e.Detail)
	case KindSearchTimeout:
		return fmt.Sprintf("search timeout: %.1fms exceeded %.1fms budget", e.ElapsedMS, e.BudgetMS)
	default:
		return fmt.Sprintf("search error (%s)", e.Kind)
	}
}

// Unwrap exposes the underlying cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewEmbedderUnavailable reports that an embedder backend could not be
// reached or initialized.
func NewEmbedderUnavailable(model, reason string) *Error {
	return &Error{Kind: KindEmbedderUnavailable, Model: model, Reason: reason}
}

// NewEmbeddingFailed reports that embedding a specific text failed at
// call time, after the embedder was known to be available.
func NewEmbeddingFailed(model string, cause error) *Error {
	return &Error{Kind: KindEmbeddingFailed, Model: model, Cause: cause}
}

// NewIndexCorrupted reports that a persisted index failed to load.
func NewIndexCorrupted(path, detail string) *Error {
	return &Error{Kind: KindIndexCorrupted, Path: path, Detail: detail}
}

// NewDimensionMismatch reports a vector whose length didn't match what
// was expected.
func NewDimensionMismatch(expected, found int) *Error {
	return &Error{Kind: KindDimensionMismatch, Expected: expected, Found: found}
}

// NewQueryParse reports a query the lexical or vector layer couldn't
// parse. Reserved: nothing in this module raises it yet.
func NewQueryParse(query, detail string) *Error {
	return &Error{Kind: KindQueryParse, Query: query, Detail: detail}
}

// NewSearchTimeout reports a search that exceeded its advisory time
// budget. Reserved: nothing in this module raises it yet.
func NewSearchTimeout(elapsedMS, budgetMS float64) *Error {
	return &Error{Kind: KindSearchTimeout, ElapsedMS: elapsedMS, BudgetMS: budgetMS}
}

// KindOf unwraps err looking for a *Error and returns its Kind.
func KindOf(err error) (Kind, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return "", false
}
