package tutor

import "sort"

// DefaultRRFConstant is the rank damping constant from the standard
// reciprocal rank fusion formula.
const DefaultRRFConstant = 60

// RankedList is one retriever's output, best match first
type RankedList struct {
	Keys   []string
	Weight float64
}

// FusedHit is a chunk key with its fused relevance score
type FusedHit struct {
	Key   string
	Score float64
}

// FuseRanked merges ranked lists with weighted reciprocal rank fusion:
// each occurrence of a key contributes weight/(k + rank). Keys are ordered
// by descending fused score, ties broken by key for deterministic output.
func FuseRanked(lists []RankedList, k int) []FusedHit {
	if k <= 0 {
		k = DefaultRRFConstant
	}

	scores := make(map[string]float64)
	for _, list := range lists {
		for rank, key := range list.Keys {
			scores[key] += list.Weight / float64(k+rank+1)
		}
	}

	hits := make([]FusedHit, 0, len(scores))
	for key, score := range scores {
		hits = append(hits, FusedHit{Key: key, Score: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Key < hits[j].Key
	})

	return hits
}
