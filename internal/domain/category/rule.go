// Package category assigns one label per player by evaluating an ordered
// list of declarative rules. The first rule whose conditions all hold wins;
// the final rule is a mandatory catch-all.
package category

import (
	"github.com/okian/secondary/internal/domain/model"
	"github.com/okian/secondary/internal/domain/tier"
)

// Flag names a sample-availability flag usable in Require/Forbid.
type Flag string

// Known flags.
const (
	FlagRASPresent    Flag = "ras_present"
	FlagCollegeSample Flag = "college_sample"
	FlagNFLSample     Flag = "nfl_sample"
)

// Rule is the declarative form of one classification rule. Empty tier lists
// match any tier, including Unknown. All listed conditions must hold.
type Rule struct {
	Label string `koanf:"label" json:"label"`

	// Allowed tiers per pillar, by name: high, medium, low, unknown.
	Athletic []string `koanf:"athletic" json:"athletic,omitempty"`
	College  []string `koanf:"college" json:"college,omitempty"`
	NFL      []string `koanf:"nfl" json:"nfl,omitempty"`

	// AtLeast maps a score (athletic, college, nfl, composite) to a named cut
	// point (high, medium, or a named threshold such as elite).
	AtLeast map[string]string `koanf:"at_least" json:"at_least,omitempty"`

	// CompositeAtLeast is an optional numeric floor on the composite score.
	CompositeAtLeast *float64 `koanf:"composite_at_least" json:"composite_at_least,omitempty"`

	Require []string `koanf:"require" json:"require,omitempty"`
	Forbid  []string `koanf:"forbid" json:"forbid,omitempty"`

	// Default marks the catch-all. It must be the last rule and carry no
	// conditions.
	Default bool `koanf:"default" json:"default,omitempty"`
}

// Policy is a named, ordered rule list.
type Policy struct {
	Name string `koanf:"name" json:"name"`

	// GateNFLOnSample hides the NFL pillar from rules when the player's NFL
	// exposure is below the minimum: the NFL tier reads as Unknown and NFL
	// cut points never match.
	GateNFLOnSample bool `koanf:"gate_nfl_on_sample" json:"gate_nfl_on_sample"`

	Rules []Rule `koanf:"rules" json:"rules"`
}

// Input is everything a rule can look at.
type Input struct {
	Tiers  model.Tiers
	Scores model.ScoreValues
	Flags  model.SampleFlags
}

// DefaultLabel is the label of the built-in catch-all.
const DefaultLabel = "Developmental"

// Built-in policy names.
const (
	PolicyTiered     = "tiered"
	PolicySimplified = "simplified"
)

func tiers(ts ...tier.Tier) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.String()
	}
	return out
}

// Tiered is the tier-keyed policy with a dozen labels.
func Tiered() Policy {
	h, m, l, u := tier.High, tier.Medium, tier.Low, tier.Unknown
	return Policy{
		Name:            PolicyTiered,
		GateNFLOnSample: true,
		Rules: []Rule{
			{Label: "Elite", Athletic: tiers(h), College: tiers(h), NFL: tiers(h)},
			{Label: "Star", Athletic: tiers(h), NFL: tiers(h)},
			{Label: "Producer", College: tiers(h), NFL: tiers(h)},
			{Label: "Overachiever", NFL: tiers(h)},
			{Label: "Riser", College: tiers(l, u), NFL: tiers(m)},
			{Label: "Steady", NFL: tiers(m)},
			{Label: "Underachiever", College: tiers(h), NFL: tiers(l)},
			{Label: "Risk", Athletic: tiers(h), NFL: tiers(l)},
			{Label: "Prospect", Athletic: tiers(h), College: tiers(h), NFL: tiers(u)},
			{Label: "Athlete", Athletic: tiers(h), NFL: tiers(u)},
			{Label: "Sleeper", College: tiers(h), NFL: tiers(u)},
			{Label: DefaultLabel, Default: true},
		},
	}
}

// Simplified is the four-label policy keyed on the elite NFL cut and the
// minimum-sample gate.
func Simplified() Policy {
	return Policy{
		Name:            PolicySimplified,
		GateNFLOnSample: true,
		Rules: []Rule{
			{Label: "Elite", AtLeast: map[string]string{"nfl": tier.Elite}, Require: []string{string(FlagNFLSample)}},
			{Label: "Producer", NFL: tiers(tier.High), Require: []string{string(FlagNFLSample)}},
			{Label: "Prospect", Athletic: tiers(tier.High)},
			{Label: "Prospect", College: tiers(tier.High)},
			{Label: DefaultLabel, Default: true},
		},
	}
}

// Builtin returns a built-in policy by name.
func Builtin(name string) (Policy, bool) {
	switch name {
	case PolicyTiered:
		return Tiered(), true
	case PolicySimplified:
		return Simplified(), true
	}
	return Policy{}, false
}
