package engine

import (
	"sort"

	"github.com/noora-ekramy/accounting-demo/internal/model"
)

// Rank orders postings strictly descending by confidence. Ties keep their
// input order (first seen wins) so output is deterministic for identical
// oracle responses. The input slice is not modified.
func Rank(postings []model.Posting) []model.Posting {
	out := make([]model.Posting, len(postings))
	copy(out, postings)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}
