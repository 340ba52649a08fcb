// Package config defines process configuration and the scoring policy knobs.
//
// Conventions:
// - New(ctx) returns a Config populated with defaults.
// - Load(ctx) layers an optional YAML file and SECONDARY_* env vars on top.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"

	"github.com/okian/secondary/internal/domain/category"
	"github.com/okian/secondary/internal/domain/evaluation"
	"github.com/okian/secondary/internal/domain/model"
	"github.com/okian/secondary/internal/domain/position"
	"github.com/okian/secondary/internal/domain/tier"
)

// PolicyCustom selects the rule list from the rules key.
const PolicyCustom = "custom"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DatabasePath is the sqlite file holding input and output datasets.
	DatabasePath string `koanf:"database_path"`

	// InputDataset and OutputDataset name the tables read and written by a run.
	InputDataset  string `koanf:"input_dataset"`
	OutputDataset string `koanf:"output_dataset"`

	// WorkerCount bounds how many position groups are scored at once.
	WorkerCount int `koanf:"worker_count"`

	// MaxRankingLimit caps GET /rankings?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// MinNFLSnaps is the rookie snap count for a usable NFL sample.
	MinNFLSnaps float64 `koanf:"min_nfl_snaps"`

	// TierHigh and TierMedium are the percentile cut points for tiers.
	TierHigh   float64 `koanf:"tier_high"`
	TierMedium float64 `koanf:"tier_medium"`

	// NamedThresholds holds extra cut points usable by rules, e.g. elite.
	NamedThresholds map[string]float64 `koanf:"named_thresholds"`

	// Policy is tiered, simplified or custom.
	Policy string `koanf:"policy"`

	// Rules is the ordered rule list used when Policy is custom.
	Rules []category.Rule `koanf:"rules"`

	// GateNFLOnSample hides the NFL pillar from rules below MinNFLSnaps.
	GateNFLOnSample bool `koanf:"gate_nfl_on_sample"`

	// PositionSynonyms maps raw position codes to canonical groups.
	PositionSynonyms map[string]string `koanf:"position_synonyms"`

	// PillarWeights maps a pillar score name to its metric weights.
	PillarWeights map[string]map[string]float64 `koanf:"pillar_weights"`
}

// New creates a Config with defaults. The context is accepted first to
// satisfy the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		DatabasePath:     "secondary.db",
		InputDataset:     "secondary_ranks_input",
		OutputDataset:    "secondary_ranks_prepared",
		WorkerCount:      2,
		MaxRankingLimit:  100,
		MinNFLSnaps:      evaluation.DefaultMinNFLSnaps,
		TierHigh:         tier.DefaultHigh,
		TierMedium:       tier.DefaultMedium,
		NamedThresholds:  map[string]float64{tier.Elite: tier.DefaultElite},
		Policy:           category.PolicyTiered,
		GateNFLOnSample:  true,
		PositionSynonyms: position.DefaultSynonyms(),
		PillarWeights: map[string]map[string]float64{
			string(model.ScoreAthletic): {
				string(model.MetricRAS): 1.0,
			},
			string(model.ScoreCollege): {
				string(model.MetricCollegePlaymaking): 0.40,
				string(model.MetricCollegeTackling):   0.35,
				string(model.MetricCollegeDisruption): 0.25,
			},
			string(model.ScoreNFL): {
				string(model.MetricNFLPlaymaking): 0.40,
				string(model.MetricNFLTackling):   0.25,
				string(model.MetricNFLCoverage):   0.35,
			},
		},
	}
}
