// Package ranking assigns within-group ranks to scores.
//
// Ties use standard competition ranking ("1224"): tied scores share the best
// position and the next distinct score skips the positions they occupied.
// Every rank column uses the same policy.
package ranking

import (
	"sort"

	"github.com/okian/secondary/internal/domain/types"
)

// Assign returns one rank per score, in input order. The highest score is
// rank 1. Undefined scores get an undefined rank.
func Assign(scores []types.Value) []types.Rank {
	out := make([]types.Rank, len(scores))
	idx := make([]int, 0, len(scores))
	for i, s := range scores {
		if s.Defined() {
			idx = append(idx, i)
		}
	}
	val := func(i int) float64 { return scores[i].Or(0) }
	sort.SliceStable(idx, func(a, b int) bool { return val(idx[a]) > val(idx[b]) })

	for pos, i := range idx {
		if pos > 0 && val(i) == val(idx[pos-1]) {
			out[i] = out[idx[pos-1]]
			continue
		}
		out[i] = types.RankOf(pos + 1)
	}
	return out
}
