// Package scoring combines normalised percentiles into pillar scores and
// pillar scores into a composite.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/secondary/internal/domain/model"
	"github.com/okian/secondary/internal/domain/types"
)

// Score bounds.
const (
	minScoreValue = 0
	maxScoreValue = 100
)

// Input is one weighted metric feeding a pillar.
type Input struct {
	Metric model.Metric
	Weight float64
}

// Pillar is a weighted combination of metric percentiles.
type Pillar struct {
	Score  model.Score
	Inputs []Input
}

// NewPillar builds a pillar from a metric->weight map. Inputs are ordered by
// metric name so repeated runs sum in the same order.
func NewPillar(score model.Score, weights map[model.Metric]float64) Pillar {
	p := Pillar{Score: score, Inputs: make([]Input, 0, len(weights))}
	for m, w := range weights {
		p.Inputs = append(p.Inputs, Input{Metric: m, Weight: w})
	}
	sort.Slice(p.Inputs, func(i, j int) bool { return p.Inputs[i].Metric < p.Inputs[j].Metric })
	return p
}

// Validate rejects empty pillars and any weight that is not strictly
// positive and finite. A zero weight would let a player with only that input
// defined end up with no pillar score at all.
func (p Pillar) Validate() error {
	if len(p.Inputs) == 0 {
		return fmt.Errorf("%w: pillar %s has no inputs", ErrConfiguration, p.Score)
	}
	for _, in := range p.Inputs {
		if in.Weight <= 0 || math.IsNaN(in.Weight) || math.IsInf(in.Weight, 0) {
			return fmt.Errorf("%w: pillar %s weight for %s is %v", ErrConfiguration, p.Score, in.Metric, in.Weight)
		}
	}
	return nil
}

// Compute returns the weighted mean of the defined percentiles. Weights of
// missing inputs drop out of the denominator, so a missing metric never counts
// as a zero. With no defined input the score is undefined.
func (p Pillar) Compute(pcts model.MetricValues) types.Value {
	xs := make([]float64, 0, len(p.Inputs))
	ws := make([]float64, 0, len(p.Inputs))
	var total float64
	for _, in := range p.Inputs {
		v, ok := pcts.Get(in.Metric).Get()
		if !ok {
			continue
		}
		xs = append(xs, v)
		ws = append(ws, in.Weight)
		total += in.Weight
	}
	if len(xs) == 0 || total <= 0 {
		return types.None()
	}
	return types.Some(clamp(stat.Mean(xs, ws)))
}

// Composite is the unweighted mean of the defined pillar scores. It is
// undefined only when every pillar is undefined.
func Composite(pillars ...types.Value) types.Value {
	xs := make([]float64, 0, len(pillars))
	for _, p := range pillars {
		if v, ok := p.Get(); ok {
			xs = append(xs, v)
		}
	}
	if len(xs) == 0 {
		return types.None()
	}
	return types.Some(clamp(stat.Mean(xs, nil)))
}

// Pillars is the full set of pillar definitions.
type Pillars struct {
	Athletic Pillar
	College  Pillar
	NFL      Pillar
}

// DefaultPillars returns the standard weights.
func DefaultPillars() Pillars {
	return Pillars{
		Athletic: NewPillar(model.ScoreAthletic, map[model.Metric]float64{
			model.MetricRAS: 1.0,
		}),
		College: NewPillar(model.ScoreCollege, map[model.Metric]float64{
			model.MetricCollegePlaymaking: 0.40,
			model.MetricCollegeTackling:   0.35,
			model.MetricCollegeDisruption: 0.25,
		}),
		NFL: NewPillar(model.ScoreNFL, map[model.Metric]float64{
			model.MetricNFLPlaymaking: 0.40,
			model.MetricNFLTackling:   0.25,
			model.MetricNFLCoverage:   0.35,
		}),
	}
}

// Validate validates every pillar.
func (ps Pillars) Validate() error {
	for _, p := range []Pillar{ps.Athletic, ps.College, ps.NFL} {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Score computes the three pillars and the composite.
func (ps Pillars) Score(pcts model.MetricValues) model.ScoreValues {
	sv := model.ScoreValues{
		Athletic: ps.Athletic.Compute(pcts),
		College:  ps.College.Compute(pcts),
		NFL:      ps.NFL.Compute(pcts),
	}
	sv.Composite = Composite(sv.Athletic, sv.College, sv.NFL)
	return sv
}

func clamp(v float64) float64 {
	return math.Max(minScoreValue, math.Min(maxScoreValue, v))
}
