// Package service orchestrates a ranking run: load prospects, evaluate
// them, persist the results and publish them to the read model.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/okian/secondary/internal/adapters/dataset"
	"github.com/okian/secondary/internal/adapters/repository"
	"github.com/okian/secondary/internal/domain/category"
	"github.com/okian/secondary/internal/domain/evaluation"
	"github.com/okian/secondary/internal/domain/model"
	"github.com/okian/secondary/internal/domain/tier"
	"github.com/okian/secondary/internal/seed"
	"github.com/okian/secondary/pkg/logger"
	"github.com/okian/secondary/pkg/metrics"
)

// Default dataset names, matching the configuration defaults.
const (
	DefaultInputDataset  = "secondary_ranks_input"
	DefaultOutputDataset = "secondary_ranks_prepared"
)

// ErrNoPlayers is returned when a run has no input.
var ErrNoPlayers = errors.New("no players to evaluate")

// Datasets is the persistence the service needs.
type Datasets interface {
	SavePlayers(ctx context.Context, dataset string, records []model.PlayerRecord) error
	LoadPlayers(ctx context.Context, dataset string) ([]model.PlayerRecord, error)
	SaveResults(ctx context.Context, run dataset.Run, results []model.Result) error
	LoadResults(ctx context.Context, dataset string) (dataset.Run, []model.Result, error)
}

// Run summarises one evaluation run.
type Run struct {
	dataset.Run
	Results []model.Result
	Labels  []string
}

// Service wires the dataset store, evaluator and read model.
type Service struct {
	datasets  Datasets
	evaluator *evaluation.Evaluator
	repo      repository.Store

	input  string
	output string

	now    func() time.Time
	newID  func() uuid.UUID
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRepository sets the read model results are published to.
func WithRepository(r repository.Store) Option {
	return func(s *Service) {
		if r != nil {
			s.repo = r
		}
	}
}

// WithDatasets sets the input and output dataset names.
func WithDatasets(input, output string) Option {
	return func(s *Service) {
		if input != "" {
			s.input = input
		}
		if output != "" {
			s.output = output
		}
	}
}

// WithClock overrides the clock used to stamp runs.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service. Without WithRepository results are published to
// a fresh in-memory snapshot store.
func New(ds Datasets, ev *evaluation.Evaluator, opts ...Option) *Service {
	s := &Service{
		datasets:  ds,
		evaluator: ev,
		repo:      repository.NewSnapshotStore(),
		input:     DefaultInputDataset,
		output:    DefaultOutputDataset,
		now:       time.Now,
		newID:     uuid.New,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repository returns the read model the service publishes to.
func (s *Service) Repository() repository.Store { return s.repo }

// Score evaluates the input dataset, persists the rows under a new run id
// and publishes them.
func (s *Service) Score(ctx context.Context) (Run, error) {
	records, err := s.datasets.LoadPlayers(ctx, s.input)
	if err != nil {
		return Run{}, fmt.Errorf("load %s: %w", s.input, err)
	}
	if len(records) == 0 {
		return Run{}, fmt.Errorf("%w: dataset %q", ErrNoPlayers, s.input)
	}

	results, err := s.evaluator.Evaluate(ctx, records)
	if err != nil {
		return Run{}, fmt.Errorf("evaluate: %w", err)
	}

	run := Run{
		Run: dataset.Run{
			ID:        s.newID(),
			Dataset:   s.output,
			Policy:    s.evaluator.Policy(),
			CreatedAt: s.now(),
			Players:   len(results),
		},
		Results: results,
		Labels:  s.evaluator.Labels(),
	}
	if err := s.datasets.SaveResults(ctx, run.Run, results); err != nil {
		return Run{}, fmt.Errorf("save %s: %w", s.output, err)
	}
	metrics.RecordDatasetRows(s.output, len(results))

	if err := s.publish(ctx, run); err != nil {
		return Run{}, err
	}
	s.logger.Info(ctx, "run stored",
		logger.String("run_id", run.ID.String()),
		logger.String("dataset", s.output),
		logger.String("policy", run.Policy),
		logger.Int("players", run.Players),
	)
	return run, nil
}

// LoadLatest publishes the most recent stored run without re-evaluating.
func (s *Service) LoadLatest(ctx context.Context) (Run, error) {
	stored, results, err := s.datasets.LoadResults(ctx, s.output)
	if err != nil {
		return Run{}, fmt.Errorf("load %s: %w", s.output, err)
	}
	run := Run{Run: stored, Results: results, Labels: s.labels(stored.Policy, results)}
	if err := s.publish(ctx, run); err != nil {
		return Run{}, err
	}
	s.logger.Info(ctx, "run loaded",
		logger.String("run_id", run.ID.String()),
		logger.Int("players", len(results)),
	)
	return run, nil
}

// labels returns the category labels of the policy a stored run was scored
// under, which need not be the policy this service is configured with.
// Unknown custom policies fall back to the labels the rows carry, in order of
// first appearance.
func (s *Service) labels(policy string, results []model.Result) []string {
	if policy == s.evaluator.Policy() {
		return s.evaluator.Labels()
	}
	if p, ok := category.Builtin(policy); ok {
		if e, err := category.Compile(p, tier.Default()); err == nil {
			return e.Labels()
		}
	}
	seen := make(map[string]struct{})
	var out []string
	for _, r := range results {
		if _, ok := seen[r.Category]; ok || r.Category == "" {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	return out
}

// LoadOrScore publishes the latest stored run, evaluating the input dataset
// when none exists yet.
func (s *Service) LoadOrScore(ctx context.Context) (Run, error) {
	run, err := s.LoadLatest(ctx)
	if errors.Is(err, dataset.ErrNoResults) {
		s.logger.Info(ctx, "no stored run, scoring", logger.String("dataset", s.input))
		return s.Score(ctx)
	}
	return run, err
}

// Import reads prospects from CSV into the input dataset.
func (s *Service) Import(ctx context.Context, r io.Reader) (int, error) {
	records, err := dataset.ImportCSV(r)
	if err != nil {
		return 0, err
	}
	if err := s.datasets.SavePlayers(ctx, s.input, records); err != nil {
		return 0, fmt.Errorf("save %s: %w", s.input, err)
	}
	metrics.RecordDatasetRows(s.input, len(records))
	s.logger.Info(ctx, "players imported",
		logger.String("dataset", s.input),
		logger.Int("players", len(records)),
	)
	return len(records), nil
}

// Seed writes a synthetic class of prospects into the input dataset.
func (s *Service) Seed(ctx context.Context, cfg seed.Config) (int, error) {
	records, err := seed.Generate(ctx, cfg)
	if err != nil {
		return 0, err
	}
	if err := s.datasets.SavePlayers(ctx, s.input, records); err != nil {
		return 0, fmt.Errorf("save %s: %w", s.input, err)
	}
	metrics.RecordDatasetRows(s.input, len(records))
	s.logger.Info(ctx, "players seeded",
		logger.String("dataset", s.input),
		logger.Int("players", len(records)),
		logger.Any("seed", cfg.Seed),
	)
	return len(records), nil
}

func (s *Service) publish(ctx context.Context, run Run) error {
	meta := repository.Meta{RunID: run.ID.String(), Policy: run.Policy, Labels: run.Labels}
	if err := s.repo.Publish(ctx, meta, run.Results); err != nil {
		return fmt.Errorf("publish run %s: %w", run.ID, err)
	}
	return nil
}
