package evaluation

import (
	"fmt"

	"github.com/okian/secondary/internal/domain/category"
	"github.com/okian/secondary/internal/domain/position"
	"github.com/okian/secondary/internal/domain/scoring"
	"github.com/okian/secondary/internal/domain/tier"
)

// DefaultMinNFLSnaps is the minimum rookie exposure for a usable NFL sample.
const DefaultMinNFLSnaps = 100

// minCollegeStats is how many college counting stats make a college sample.
const minCollegeStats = 2

// Settings is the full scoring policy for one run.
type Settings struct {
	Thresholds  tier.Thresholds
	Pillars     scoring.Pillars
	Policy      category.Policy
	MinNFLSnaps float64
	Synonyms    map[string]string
	Workers     int
}

// DefaultSettings returns the tiered policy with default weights and cuts.
func DefaultSettings() Settings {
	return Settings{
		Thresholds:  tier.Default(),
		Pillars:     scoring.DefaultPillars(),
		Policy:      category.Tiered(),
		MinNFLSnaps: DefaultMinNFLSnaps,
		Synonyms:    position.DefaultSynonyms(),
		Workers:     2,
	}
}

func (s Settings) validate() (*category.Engine, error) {
	if s.MinNFLSnaps < 0 {
		return nil, fmt.Errorf("%w: min nfl snaps %v is negative", ErrInvalidSettings, s.MinNFLSnaps)
	}
	if err := s.Thresholds.Validate(); err != nil {
		return nil, err
	}
	if err := s.Pillars.Validate(); err != nil {
		return nil, err
	}
	return category.Compile(s.Policy, s.Thresholds)
}
