// Package tier maps 0-100 scores onto coarse High/Medium/Low buckets.
package tier

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okian/secondary/internal/domain/types"
)

// Default cut points.
const (
	DefaultHigh   = 66.67
	DefaultMedium = 33.33
	DefaultElite  = 85.0

	// Elite is the conventional name of the stricter cut layered on High.
	Elite = "elite"
)

// Tier is a coarse bucket derived from a percentile or score.
type Tier int

// Tier values. Unknown is the zero value and is a matchable state of its own.
const (
	Unknown Tier = iota
	Low
	Medium
	High
)

var names = [...]string{"unknown", "low", "medium", "high"}

func (t Tier) String() string {
	if t >= 0 && int(t) < len(names) {
		return names[t]
	}
	return names[Unknown]
}

// Parse converts a tier name (case-insensitive) into a Tier.
func Parse(s string) (Tier, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == key {
			return Tier(i), nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// MarshalJSON implements json.Marshaler.
func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Thresholds holds the cut points used by Classify and Meets.
type Thresholds struct {
	High   float64
	Medium float64
	// Named holds additional cut points, e.g. "elite": 85.
	Named map[string]float64
}

// Default returns the 66.67 / 33.33 cut points with an "elite" cut at 85.
func Default() Thresholds {
	return Thresholds{
		High:   DefaultHigh,
		Medium: DefaultMedium,
		Named:  map[string]float64{Elite: DefaultElite},
	}
}

// Validate checks that cut points are numbers, ordered and inside [0, 100].
func (th Thresholds) Validate() error {
	if math.IsNaN(th.High) || math.IsNaN(th.Medium) || th.Medium < 0 || th.High > 100 || th.Medium > th.High {
		return fmt.Errorf("%w: medium=%v high=%v", ErrInvalidThresholds, th.Medium, th.High)
	}
	for _, name := range th.names() {
		v := th.Named[name]
		if strings.TrimSpace(name) == "" || math.IsNaN(v) || v < 0 || v > 100 {
			return fmt.Errorf("%w: named %q=%v", ErrInvalidThresholds, name, v)
		}
	}
	return nil
}

// Classify maps v onto a tier. Undefined values are Unknown.
func (th Thresholds) Classify(v types.Value) Tier {
	x, ok := v.Get()
	switch {
	case !ok:
		return Unknown
	case x >= th.High:
		return High
	case x >= th.Medium:
		return Medium
	default:
		return Low
	}
}

// Cut resolves a cut point by name. "high" and "medium" resolve to the base
// cut points; anything else must be configured in Named.
func (th Thresholds) Cut(name string) (float64, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case names[High]:
		return th.High, nil
	case names[Medium]:
		return th.Medium, nil
	}
	if v, ok := th.Named[key]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownThreshold, name)
}

// Meets reports whether v is defined and at or above the named cut point.
func (th Thresholds) Meets(name string, v types.Value) (bool, error) {
	cut, err := th.Cut(name)
	if err != nil {
		return false, err
	}
	x, ok := v.Get()
	return ok && x >= cut, nil
}

func (th Thresholds) names() []string {
	out := make([]string, 0, len(th.Named))
	for k := range th.Named {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
