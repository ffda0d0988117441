package queryclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyEmpty(t *testing.T) {
	assert.Equal(t, ClassEmpty, Classify(""))
	assert.Equal(t, ClassEmpty, Classify("   "))
}

func TestClassifyIdentifier(t *testing.T) {
	assert.Equal(t, ClassIdentifier, Classify("foo_bar.baz"))
	assert.Equal(t, ClassIdentifier, Classify("src/pkg/index.go"))
	assert.Equal(t, ClassIdentifier, Classify("JIRA-1234"))
}

func TestClassifyShortKeyword(t *testing.T) {
	assert.Equal(t, ClassShortKeyword, Classify("vector search index"))
	assert.Equal(t, ClassShortKeyword, Classify("hello world"))
}

func TestClassifyNaturalLanguage(t *testing.T) {
	assert.Equal(t, ClassNaturalLanguage, Classify("how do I configure the search engine for hybrid retrieval"))
}

func TestAdaptiveBudgetEmpty(t *testing.T) {
	b := AdaptiveBudget(ClassEmpty, 3)
	assert.Equal(t, Budget{0, 0}, b)
}

func TestAdaptiveBudgetIdentifier(t *testing.T) {
	b := AdaptiveBudget(ClassIdentifier, 3)
	assert.Equal(t, Budget{LexicalMultiplier: 6, SemanticMultiplier: 1}, b)
}

func TestAdaptiveBudgetShortKeyword(t *testing.T) {
	b := AdaptiveBudget(ClassShortKeyword, 3)
	assert.Equal(t, Budget{LexicalMultiplier: 3, SemanticMultiplier: 3}, b)
}

func TestAdaptiveBudgetNaturalLanguage(t *testing.T) {
	b := AdaptiveBudget(ClassNaturalLanguage, 3)
	assert.Equal(t, Budget{LexicalMultiplier: 1, SemanticMultiplier: 6}, b)
}

func TestAdaptiveBudgetDefaultsMultiplier(t *testing.T) {
	b := AdaptiveBudget(ClassShortKeyword, 0)
	assert.Equal(t, Budget{LexicalMultiplier: 3, SemanticMultiplier: 3}, b)
}
