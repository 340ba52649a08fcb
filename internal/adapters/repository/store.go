// Package repository holds the read model served by the HTTP API: one
// evaluation run indexed by position and score.
package repository

import (
	"context"

	"github.com/okian/secondary/internal/domain/model"
	"github.com/okian/secondary/internal/domain/types"
)

// AllPositions selects every position group in a query.
const AllPositions = ""

// Meta describes the run behind a snapshot.
type Meta struct {
	RunID  string
	Policy string
	// Labels is the category display order; unknown labels sort last.
	Labels []string
}

// CategoryCount is one row of a category distribution.
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Store provides read access to the latest published run.
type Store interface {
	// Publish replaces the served run.
	Publish(ctx context.Context, meta Meta, results []model.Result) error

	// TopN returns up to n entries ordered by score desc. Players without a
	// score are left out. Returns ErrInvalidLimit or ErrUnknownMetric.
	TopN(ctx context.Context, position, metric string, n int) ([]types.Entry, error)

	// Player returns one result row, or ErrNotFound.
	Player(ctx context.Context, id string) (model.Result, error)

	// Categories returns the label distribution in display order.
	Categories(ctx context.Context, position string) ([]CategoryCount, error)

	// PositionAverages returns the mean of each defined score.
	PositionAverages(ctx context.Context, position string) (model.ScoreValues, error)

	// Meta returns the run description, or ErrNotReady.
	Meta(ctx context.Context) (Meta, error)

	// Count returns the number of players in the snapshot.
	Count(ctx context.Context) int
}
