package seed

import "fmt"

// Config holds configuration for the synthetic prospect generator.
type Config struct {
	Players   int      // Number of players to generate
	Seed      uint64   // Random seed; equal seeds give equal output
	Positions []string // Raw position labels drawn uniformly
	Season    int      // First draft season
	Seasons   int      // Number of consecutive draft seasons
}

// DefaultConfig returns a mixed CB/safety class over three drafts.
func DefaultConfig() Config {
	return Config{
		Players:   120,
		Seed:      1,
		Positions: []string{"CB", "CB", "CB", "S", "FS", "SS"},
		Season:    2021,
		Seasons:   3,
	}
}

func (c Config) validate() error {
	switch {
	case c.Players < 0:
		return fmt.Errorf("%w: players %d", ErrInvalidConfig, c.Players)
	case len(c.Positions) == 0:
		return fmt.Errorf("%w: no positions", ErrInvalidConfig)
	case c.Seasons < 1:
		return fmt.Errorf("%w: seasons %d", ErrInvalidConfig, c.Seasons)
	}
	return nil
}
