package config

import (
	"fmt"
	"strings"

	"github.com/okian/secondary/internal/domain/category"
	"github.com/okian/secondary/internal/domain/evaluation"
	"github.com/okian/secondary/internal/domain/model"
	"github.com/okian/secondary/internal/domain/scoring"
	"github.com/okian/secondary/internal/domain/tier"
)

// Validate checks the settings that can be checked without building the
// engine.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DatabasePath == "":
		return fmt.Errorf("%w: database_path must not be empty", ErrInvalidConfig)
	case c.InputDataset == "" || c.OutputDataset == "":
		return fmt.Errorf("%w: dataset names must not be empty", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be at least 1", ErrInvalidConfig)
	case c.MaxRankingLimit < 1:
		return fmt.Errorf("%w: max_ranking_limit must be at least 1", ErrInvalidConfig)
	case c.MinNFLSnaps < 0:
		return fmt.Errorf("%w: min_nfl_snaps must not be negative", ErrInvalidConfig)
	}
	switch c.Policy {
	case category.PolicyTiered, category.PolicySimplified:
	case PolicyCustom:
		if len(c.Rules) == 0 {
			return fmt.Errorf("%w: policy custom needs rules", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, c.Policy)
	}
	for name := range c.PillarWeights {
		if _, ok := pillarSlot(name); !ok {
			return fmt.Errorf("%w: unknown pillar %q", ErrInvalidConfig, name)
		}
	}
	return nil
}

// Engine converts the config into evaluation settings. Errors from the
// engine's own validation are reported when the evaluator is built.
func (c *Config) Engine() (evaluation.Settings, error) {
	if err := c.Validate(); err != nil {
		return evaluation.Settings{}, err
	}
	s := evaluation.Settings{
		Thresholds: tier.Thresholds{
			High:   c.TierHigh,
			Medium: c.TierMedium,
			Named:  lowerKeys(c.NamedThresholds),
		},
		Pillars:     scoring.DefaultPillars(),
		MinNFLSnaps: c.MinNFLSnaps,
		Synonyms:    c.PositionSynonyms,
		Workers:     c.WorkerCount,
	}

	for name, weights := range c.PillarWeights {
		slot, _ := pillarSlot(name)
		ws := make(map[model.Metric]float64, len(weights))
		for m, w := range weights {
			metric := model.Metric(strings.ToLower(m))
			if !knownMetric(metric) {
				return evaluation.Settings{}, fmt.Errorf("%w: pillar %q uses unknown metric %q", ErrInvalidConfig, name, m)
			}
			ws[metric] = w
		}
		*slot(&s.Pillars) = scoring.NewPillar(model.Score(strings.ToLower(name)), ws)
	}

	if c.Policy == PolicyCustom {
		s.Policy = category.Policy{Name: PolicyCustom, Rules: c.Rules}
	} else {
		s.Policy, _ = category.Builtin(c.Policy)
	}
	s.Policy.GateNFLOnSample = c.GateNFLOnSample
	return s, nil
}

type pillarAccessor func(*scoring.Pillars) *scoring.Pillar

func pillarSlot(name string) (pillarAccessor, bool) {
	switch model.Score(strings.ToLower(name)) {
	case model.ScoreAthletic:
		return func(p *scoring.Pillars) *scoring.Pillar { return &p.Athletic }, true
	case model.ScoreCollege:
		return func(p *scoring.Pillars) *scoring.Pillar { return &p.College }, true
	case model.ScoreNFL:
		return func(p *scoring.Pillars) *scoring.Pillar { return &p.NFL }, true
	}
	return nil, false
}

func knownMetric(m model.Metric) bool {
	for _, k := range model.Metrics {
		if k == m {
			return true
		}
	}
	return false
}

func lowerKeys(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}
