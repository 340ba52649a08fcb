// Package rates derives per-season and per-snap rate statistics from
// cumulative counts. A rate is undefined whenever an input is absent or the
// denominator is zero; it is never coerced to zero.
package rates

import (
	"github.com/okian/secondary/internal/domain/model"
	"github.com/okian/secondary/internal/domain/types"
)

// Per-100-snap scale used by the rookie rates.
const perHundred = 100

// Ratio returns num/den, or undefined if either side is undefined or den is zero.
func Ratio(num, den types.Value) types.Value {
	n, okN := num.Get()
	d, okD := den.Get()
	if !okN || !okD || d == 0 {
		return types.None()
	}
	return types.Some(n / d)
}

// Scaled returns num/den*k with the same undefined rules as Ratio.
func Scaled(num, den types.Value, k float64) types.Value {
	r, ok := Ratio(num, den).Get()
	if !ok {
		return types.None()
	}
	return types.Some(r * k)
}

// Sum adds the values; any undefined term makes the sum undefined.
func Sum(vs ...types.Value) types.Value {
	var total float64
	for _, v := range vs {
		x, ok := v.Get()
		if !ok {
			return types.None()
		}
		total += x
	}
	return types.Some(total)
}

// Compute derives every rate for one record. RAS is carried as-is so the
// result lines up with the metric catalogue. Without rookie exposure (total
// snaps absent or zero) every NFL rate is undefined, whatever the coverage
// columns hold.
func Compute(p model.PlayerRecord) model.MetricValues {
	c, r := p.College, p.Rookie
	mv := model.MetricValues{
		RAS:               p.RAS,
		CollegePlaymaking: Ratio(Sum(c.Interceptions, c.PassBreakups), c.Seasons),
		CollegeTackling:   Ratio(c.Tackles, c.Seasons),
		CollegeDisruption: Ratio(c.TacklesForLoss, c.Seasons),
	}
	if snaps, ok := r.TotalSnaps.Get(); !ok || snaps == 0 {
		return mv
	}
	mv.NFLPlaymaking = Scaled(Sum(r.Interceptions, r.PassBreakups), r.CoverageSnaps, perHundred)
	mv.NFLTackling = Scaled(r.Tackles, r.TotalSnaps, perHundred)
	mv.NFLCoverage = Ratio(r.CoverageYardsAllowed, r.CoverageSnaps)
	return mv
}
