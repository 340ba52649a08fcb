// Package percentile converts raw values into tie-aware 0-100 percentiles
// within a comparison group.
package percentile

import (
	"sort"

	"github.com/okian/secondary/internal/domain/types"
)

// soleMember is the percentile given to the only defined value in a group.
const soleMember = 100

// Direction orients raw values before ranking.
type Direction int

const (
	// HigherIsBetter gives larger raw values larger percentiles.
	HigherIsBetter Direction = iota
	// LowerIsBetter gives smaller raw values larger percentiles.
	LowerIsBetter
)

func (d Direction) String() string {
	if d == LowerIsBetter {
		return "lower_is_better"
	}
	return "higher_is_better"
}

// Sample is one entity's raw value.
type Sample struct {
	ID    string
	Value types.Value
}

// Normalize returns one percentile per sample, in input order.
//
// Defined values are ordered best first; tied values share the average of
// the ordinal positions they occupy. With D defined values, a value at
// average position r gets (D-r)/D*100. A lone defined value gets 100.
// Undefined values stay undefined and take no position.
func Normalize(samples []Sample, dir Direction) []types.Value {
	out := make([]types.Value, len(samples))

	idx := make([]int, 0, len(samples))
	for i, s := range samples {
		if s.Value.Defined() {
			idx = append(idx, i)
		}
	}
	d := len(idx)
	if d == 0 {
		return out
	}
	if d == 1 {
		out[idx[0]] = types.Some(soleMember)
		return out
	}

	raw := func(i int) float64 { return samples[i].Value.Or(0) }
	better := func(a, b float64) bool {
		if dir == LowerIsBetter {
			return a < b
		}
		return a > b
	}
	sort.SliceStable(idx, func(a, b int) bool { return better(raw(idx[a]), raw(idx[b])) })

	for start := 0; start < d; {
		end := start
		for end+1 < d && raw(idx[end+1]) == raw(idx[start]) {
			end++
		}
		// Ordinal positions start+1 .. end+1.
		avg := float64(start+end+2) / 2
		pct := (float64(d) - avg) / float64(d) * 100
		for k := start; k <= end; k++ {
			out[idx[k]] = types.Some(pct)
		}
		start = end + 1
	}
	return out
}

// NormalizeGroups normalises each group independently.
func NormalizeGroups(groups map[string][]Sample, dir Direction) map[string][]types.Value {
	out := make(map[string][]types.Value, len(groups))
	for g, samples := range groups {
		out[g] = Normalize(samples, dir)
	}
	return out
}
