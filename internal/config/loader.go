package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment conventions.
const (
	EnvPrefix     = "SECONDARY_"
	EnvConfigPath = EnvPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, an optional file named by
// SECONDARY_CONFIG, and env vars.
func Load(ctx context.Context) (*Config, error) {
	return LoadFile(ctx, os.Getenv(EnvConfigPath))
}

// LoadFile is Load with an explicit YAML path. Precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if path is not empty
//  3. env (prefix SECONDARY_)
func LoadFile(ctx context.Context, path string) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// SECONDARY_MIN_NFL_SNAPS -> min_nfl_snaps. Keys stay flat so they match
	// the koanf tags on the struct.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	// The path itself is not a config key.
	k.Delete("config")

	// Synonyms and named cuts are whole tables: a file that sets one replaces
	// the default table instead of adding keys to it. Pillar weights merge per
	// pillar, and the pillars left out keep their defaults.
	cfg := *base
	cfg.PositionSynonyms = nil
	cfg.NamedThresholds = nil
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if cfg.PositionSynonyms == nil {
		cfg.PositionSynonyms = base.PositionSynonyms
	}
	if cfg.NamedThresholds == nil {
		cfg.NamedThresholds = base.NamedThresholds
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
