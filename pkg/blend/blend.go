// Package blend combines two RRF-fused result lists from the fast and
// quality tiers of the two-tier searcher into one weighted ranking, so a
// slow-but-better re-embed only has to move the needle, not replace the
// initial results outright.
package blend

import (
	"sort"

	"github.com/orneryd/brr/pkg/rrf"
)

// Scores combines fastHits and qualityHits into a single weighted
// ranking: score' = qualityWeight*quality_rrf + (1-qualityWeight)*fast_rrf.
// A document absent from one list contributes 0 for that side. Metadata
// (ranks/scores/InBothSources) is copied from the quality hit when
// present, else the fast hit — the quality tier is assumed to be the
// more trustworthy source of rank/score provenance when both agree.
func Scores(fastHits []rrf.Hit, qualityHits []rrf.Hit, qualityWeight float64) []rrf.Hit {
	fastWeight := 1.0 - qualityWeight

	fastByID := make(map[string]rrf.Hit, len(fastHits))
	for _, h := range fastHits {
		fastByID[h.DocID] = h
	}
	qualityByID := make(map[string]rrf.Hit, len(qualityHits))
	for _, h := range qualityHits {
		qualityByID[h.DocID] = h
	}

	seen := make(map[string]struct{}, len(fastHits)+len(qualityHits))
	order := make([]string, 0, len(fastHits)+len(qualityHits))
	for _, h := range fastHits {
		if _, ok := seen[h.DocID]; !ok {
			seen[h.DocID] = struct{}{}
			order = append(order, h.DocID)
		}
	}
	for _, h := range qualityHits {
		if _, ok := seen[h.DocID]; !ok {
			seen[h.DocID] = struct{}{}
			order = append(order, h.DocID)
		}
	}

	blended := make([]rrf.Hit, 0, len(order))
	for _, id := range order {
		fastHit, hasFast := fastByID[id]
		qualityHit, hasQuality := qualityByID[id]

		var fastScore, qualScore float64
		if hasFast {
			fastScore = fastHit.RRFScore
		}
		if hasQuality {
			qualScore = qualityHit.RRFScore
		}

		ref := qualityHit
		if !hasQuality {
			ref = fastHit
		}

		blended = append(blended, rrf.Hit{
			DocID:         id,
			RRFScore:      qualityWeight*qualScore + fastWeight*fastScore,
			LexicalRank:   ref.LexicalRank,
			SemanticRank:  ref.SemanticRank,
			LexicalScore:  ref.LexicalScore,
			SemanticScore: ref.SemanticScore,
			InBothSources: ref.InBothSources,
		})
	}

	sort.SliceStable(blended, func(i, j int) bool {
		return rrf.Less(blended[i], blended[j])
	})
	return blended
}
