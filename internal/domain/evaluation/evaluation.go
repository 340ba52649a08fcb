// Package evaluation turns a batch of player records into scored, ranked and
// categorised result rows. Each position group is processed on its own
// goroutine; the output has one row per input record in input order.
package evaluation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/secondary/internal/domain/category"
	"github.com/okian/secondary/internal/domain/model"
	"github.com/okian/secondary/internal/domain/percentile"
	"github.com/okian/secondary/internal/domain/position"
	"github.com/okian/secondary/internal/domain/ranking"
	"github.com/okian/secondary/internal/domain/rates"
	"github.com/okian/secondary/internal/domain/scoring"
	"github.com/okian/secondary/internal/domain/tier"
	"github.com/okian/secondary/internal/domain/types"
	"github.com/okian/secondary/pkg/logger"
	"github.com/okian/secondary/pkg/metrics"
)

// directions orients each metric before percentile normalisation.
var directions = map[model.Metric]percentile.Direction{
	model.MetricNFLCoverage: percentile.LowerIsBetter,
}

func direction(m model.Metric) percentile.Direction {
	if d, ok := directions[m]; ok {
		return d
	}
	return percentile.HigherIsBetter
}

// Evaluator runs the scoring pipeline. It holds no per-run state and is
// safe for concurrent use.
type Evaluator struct {
	thresholds  tier.Thresholds
	pillars     scoring.Pillars
	engine      *category.Engine
	positions   *position.Normalizer
	minNFLSnaps float64
	workers     int
	logger      logger.Logger
}

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger. The default discards output.
func WithLogger(l logger.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// New validates s and builds an Evaluator. Configuration errors surface
// here, before any record is touched.
func New(s Settings, opts ...Option) (*Evaluator, error) {
	engine, err := s.validate()
	if err != nil {
		return nil, err
	}
	e := &Evaluator{
		thresholds:  s.Thresholds,
		pillars:     s.Pillars,
		engine:      engine,
		positions:   position.NewNormalizer(s.Synonyms),
		minNFLSnaps: s.MinNFLSnaps,
		workers:     s.Workers,
		logger:      logger.Nop(),
	}
	if e.workers < 1 {
		e.workers = 1
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Policy returns the active category policy name.
func (e *Evaluator) Policy() string { return e.engine.Name() }

// Labels returns the category labels in rule order.
func (e *Evaluator) Labels() []string { return e.engine.Labels() }

// Evaluate scores every record. It returns ErrDuplicatePlayer when two
// records share an id and ctx.Err() when cancelled; in both cases no rows
// are returned.
func (e *Evaluator) Evaluate(ctx context.Context, records []model.PlayerRecord) ([]model.Result, error) {
	start := time.Now()
	metrics.RecordRunStarted()

	if err := ctx.Err(); err != nil {
		metrics.RecordRunFailure("cancelled")
		return nil, err
	}
	if err := checkDuplicates(records); err != nil {
		metrics.RecordRunFailure("duplicate_player")
		e.logger.Error(ctx, "evaluation aborted", logger.Error(err))
		return nil, err
	}

	results := make([]model.Result, len(records))
	groups := make(map[string][]int)
	var loose []int
	for i, r := range records {
		results[i] = e.prepare(r)
		if results[i].PositionRecognized {
			groups[results[i].Position] = append(groups[results[i].Position], i)
			continue
		}
		loose = append(loose, i)
		metrics.RecordUnrecognizedPosition()
		e.logger.Warn(ctx, "unrecognized position",
			logger.String("player_id", r.ID),
			logger.String("position", r.Position),
		)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, name := range sortedKeys(groups) {
		name, idx := name, groups[name]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t := time.Now()
			e.evaluateGroup(idx, results)
			e.logger.Debug(gctx, "group evaluated",
				logger.String("position", name),
				logger.Int("players", len(idx)),
				logger.Any("elapsed", time.Since(t)),
			)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		metrics.RecordRunFailure("cancelled")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordRunFailure("cancelled")
		return nil, err
	}

	for _, i := range loose {
		results[i].Category = e.classify(results[i])
	}

	e.record(results, groups)
	metrics.RecordRunCompleted(time.Since(start))
	e.logger.Info(ctx, "evaluation finished",
		logger.Int("records", len(results)),
		logger.Int("groups", len(groups)),
		logger.Int("unrecognized", len(loose)),
		logger.String("policy", e.engine.Name()),
		logger.Any("elapsed", time.Since(start)),
	)
	return results, nil
}

func checkDuplicates(records []model.PlayerRecord) error {
	seen := make(map[string]int, len(records))
	for i, r := range records {
		if j, ok := seen[r.ID]; ok {
			return fmt.Errorf("%w: %q at records %d and %d", ErrDuplicatePlayer, r.ID, j, i)
		}
		seen[r.ID] = i
	}
	return nil
}

// prepare fills everything that does not depend on the rest of the group.
func (e *Evaluator) prepare(r model.PlayerRecord) model.Result {
	res := model.Result{
		PlayerID:    r.ID,
		DisplayName: r.DisplayName,
		RawPosition: r.Position,
		TeamName:    r.TeamName,
		CollegeName: r.CollegeName,
		Draft:       r.Draft,
		RAS:         r.RAS,
		Rates:       rates.Compute(r),
		Issues:      []string{},
	}
	if pos, err := e.positions.Normalize(r.Position); err == nil {
		res.Position = pos
		res.PositionRecognized = true
	} else {
		res.Issues = append(res.Issues, model.IssueUnrecognizedPosition)
	}

	snaps, ok := r.Rookie.TotalSnaps.Get()
	res.Flags = model.SampleFlags{
		RASPresent:    r.RAS.Defined(),
		CollegeSample: r.College.Present() >= minCollegeStats,
		NFLSample:     ok && snaps >= e.minNFLSnaps,
	}
	if !res.Flags.RASPresent {
		res.Issues = append(res.Issues, model.IssueMissingRAS)
	}
	if !res.Flags.CollegeSample {
		res.Issues = append(res.Issues, model.IssueNoCollegeSample)
	}
	if !res.Flags.NFLSample {
		res.Issues = append(res.Issues, model.IssueInsufficientNFLSample)
	}
	return res
}

// evaluateGroup writes the group-relative fields of the rows at idx. It
// touches no other rows.
func (e *Evaluator) evaluateGroup(idx []int, results []model.Result) {
	samples := make([]percentile.Sample, len(idx))
	for _, m := range model.Metrics {
		for k, i := range idx {
			samples[k] = percentile.Sample{ID: results[i].PlayerID, Value: results[i].Rates.Get(m)}
		}
		for k, p := range percentile.Normalize(samples, direction(m)) {
			results[idx[k]].Percentiles.Set(m, p)
		}
	}

	for _, i := range idx {
		r := &results[i]
		r.Scores = e.pillars.Score(r.Percentiles)
		r.Tiers = model.Tiers{
			Athletic: e.thresholds.Classify(r.Scores.Athletic),
			College:  e.thresholds.Classify(r.Scores.College),
			NFL:      e.thresholds.Classify(r.Scores.NFL),
		}
	}

	scores := make([]types.Value, len(idx))
	for _, s := range model.Scores {
		for k, i := range idx {
			scores[k] = results[i].Scores.Get(s)
		}
		for k, rk := range ranking.Assign(scores) {
			results[idx[k]].Ranks.Set(s, rk)
		}
	}

	for _, i := range idx {
		results[i].Category = e.classify(results[i])
	}
}

func (e *Evaluator) classify(r model.Result) string {
	return e.engine.Classify(category.Input{Tiers: r.Tiers, Scores: r.Scores, Flags: r.Flags})
}

func (e *Evaluator) record(results []model.Result, groups map[string][]int) {
	metrics.RecordRecordsEvaluated(len(results))
	for name, idx := range groups {
		metrics.UpdatePositionGroupSize(name, len(idx))
	}
	for _, r := range results {
		metrics.RecordCategoryAssignment(e.engine.Name(), r.Category)
		for _, issue := range r.Issues {
			metrics.RecordDataIssue(issue)
		}
	}
}

func sortedKeys(m map[string][]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
