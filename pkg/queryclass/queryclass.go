// Package queryclass classifies a canonicalized query string and derives
// a per-source candidate budget from the classification, so identifier-
// and keyword-shaped queries lean on lexical search while prose queries
// lean on semantic search.
package queryclass

import (
	"regexp"
	"strings"
)

// Class is the shape of query a string was classified as.
type Class string

const (
	ClassEmpty           Class = "empty"
	ClassIdentifier      Class = "identifier"
	ClassShortKeyword    Class = "short_keyword"
	ClassNaturalLanguage Class = "natural_language"
)

const shortKeywordMaxWords = 3

var (
	identifierRE = regexp.MustCompile(`^[\w./-]+$`)
	pathCharRE   = regexp.MustCompile(`[/\\]`)
	ticketIDRE   = regexp.MustCompile(`^[a-zA-Z]+-\d+$`)
)

// Classify inspects a trimmed query string and returns its Class.
func Classify(query string) Class {
	q := strings.TrimSpace(query)
	if q == "" {
		return ClassEmpty
	}

	words := strings.Fields(q)
	if len(words) == 1 {
		w := words[0]
		if ticketIDRE.MatchString(w) || pathCharRE.MatchString(w) || identifierRE.MatchString(w) {
			return ClassIdentifier
		}
	}

	if len(words) <= shortKeywordMaxWords {
		return ClassShortKeyword
	}
	return ClassNaturalLanguage
}

// Budget is the number of candidates to request from each source before
// fusion, scaled relative to a caller-supplied base multiplier.
type Budget struct {
	LexicalMultiplier  int
	SemanticMultiplier int
}

// AdaptiveBudget derives a per-source candidate budget from a query's
// classification. baseMultiplier defaults to 3 when <= 0.
func AdaptiveBudget(class Class, baseMultiplier int) Budget {
	if baseMultiplier <= 0 {
		baseMultiplier = 3
	}
	half := baseMultiplier / 2
	if half < 1 {
		half = 1
	}
	switch class {
	case ClassEmpty:
		return Budget{LexicalMultiplier: 0, SemanticMultiplier: 0}
	case ClassIdentifier:
		return Budget{LexicalMultiplier: 2 * baseMultiplier, SemanticMultiplier: half}
	case ClassShortKeyword:
		return Budget{LexicalMultiplier: baseMultiplier, SemanticMultiplier: baseMultiplier}
	default: // ClassNaturalLanguage
		return Budget{LexicalMultiplier: half, SemanticMultiplier: 2 * baseMultiplier}
	}
}
