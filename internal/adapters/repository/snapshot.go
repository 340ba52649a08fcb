package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/secondary/internal/domain/model"
	"github.com/okian/secondary/internal/domain/types"
	"github.com/okian/secondary/pkg/metrics"
)

const defaultMaxLimit = 100

type boardKey struct {
	position string
	score    model.Score
}

// Snapshot is an immutable, fully indexed view of one run.
type Snapshot struct {
	meta       Meta
	results    []model.Result
	byID       map[string]int
	boards     map[boardKey][]types.Entry
	categories map[string][]CategoryCount
	averages   map[string]model.ScoreValues
}

// SnapshotStore serves reads from an atomically swapped Snapshot. Publish
// builds the next snapshot off to the side, so readers never block.
type SnapshotStore struct {
	maxLimit int
	snapshot atomic.Pointer[Snapshot]
}

// NewSnapshotStore constructs an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{maxLimit: defaultMaxLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish implements Store.Publish.
func (s *SnapshotStore) Publish(ctx context.Context, meta Meta, results []model.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.snapshot.Store(buildSnapshot(meta, results))
	metrics.RecordSnapshotPublished(len(results))
	return nil
}

// TopN implements Store.TopN.
func (s *SnapshotStore) TopN(_ context.Context, position, metric string, n int) ([]types.Entry, error) {
	defer observe(time.Now())
	if n < 1 || n > s.maxLimit {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrInvalidLimit, n, s.maxLimit)
	}
	score, ok := model.ParseScore(metric)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	board := snap.boards[boardKey{position: canon(position), score: score}]
	if n > len(board) {
		n = len(board)
	}
	out := make([]types.Entry, n)
	copy(out, board[:n])
	return out, nil
}

// Player implements Store.Player.
func (s *SnapshotStore) Player(_ context.Context, id string) (model.Result, error) {
	defer observe(time.Now())
	snap, err := s.current()
	if err != nil {
		return model.Result{}, err
	}
	i, ok := snap.byID[id]
	if !ok {
		return model.Result{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return snap.results[i], nil
}

// Categories implements Store.Categories.
func (s *SnapshotStore) Categories(_ context.Context, position string) ([]CategoryCount, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	cs := snap.categories[canon(position)]
	out := make([]CategoryCount, len(cs))
	copy(out, cs)
	return out, nil
}

// PositionAverages implements Store.PositionAverages.
func (s *SnapshotStore) PositionAverages(_ context.Context, position string) (model.ScoreValues, error) {
	snap, err := s.current()
	if err != nil {
		return model.ScoreValues{}, err
	}
	return snap.averages[canon(position)], nil
}

// Meta implements Store.Meta.
func (s *SnapshotStore) Meta(_ context.Context) (Meta, error) {
	snap, err := s.current()
	if err != nil {
		return Meta{}, err
	}
	return snap.meta, nil
}

// Count implements Store.Count.
func (s *SnapshotStore) Count(_ context.Context) int {
	if snap := s.snapshot.Load(); snap != nil {
		return len(snap.results)
	}
	return 0
}

func (s *SnapshotStore) current() (*Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	return snap, nil
}

func observe(start time.Time) {
	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
}

func canon(position string) string {
	p := strings.ToUpper(strings.TrimSpace(position))
	if p == "ALL" {
		return AllPositions
	}
	return p
}

func buildSnapshot(meta Meta, results []model.Result) *Snapshot {
	snap := &Snapshot{
		meta:       meta,
		results:    results,
		byID:       make(map[string]int, len(results)),
		boards:     make(map[boardKey][]types.Entry),
		categories: make(map[string][]CategoryCount),
		averages:   make(map[string]model.ScoreValues),
	}
	members := map[string][]int{AllPositions: nil}
	for i, r := range results {
		snap.byID[r.PlayerID] = i
		members[AllPositions] = append(members[AllPositions], i)
		if r.PositionRecognized {
			members[r.Position] = append(members[r.Position], i)
		}
	}
	for pos, idx := range members {
		for _, sc := range model.Scores {
			snap.boards[boardKey{position: pos, score: sc}] = board(results, idx, sc)
		}
		snap.categories[pos] = distribution(results, idx, meta.Labels)
		snap.averages[pos] = averages(results, idx)
	}
	return snap
}

// board lists scored players best first. Every entry carries its stored
// within-position rank, including on the all-positions board.
func board(results []model.Result, idx []int, sc model.Score) []types.Entry {
	out := make([]types.Entry, 0, len(idx))
	for _, i := range idx {
		r := results[i]
		v := r.Scores.Get(sc)
		if !v.Defined() {
			continue
		}
		out = append(out, types.Entry{
			Rank:        r.Ranks.Get(sc),
			PlayerID:    r.PlayerID,
			DisplayName: r.DisplayName,
			Position:    r.Position,
			Score:       v,
			Category:    r.Category,
		})
	}
	sort.SliceStable(out, func(a, b int) bool {
		x, y := out[a].Score.Or(0), out[b].Score.Or(0)
		if x != y {
			return x > y
		}
		return out[a].PlayerID < out[b].PlayerID
	})
	return out
}

func distribution(results []model.Result, idx []int, labels []string) []CategoryCount {
	counts := make(map[string]int)
	for _, i := range idx {
		counts[results[i].Category]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for _, l := range labels {
		if n, ok := counts[l]; ok {
			out = append(out, CategoryCount{Label: l, Count: n})
			delete(counts, l)
		}
	}
	rest := make([]string, 0, len(counts))
	for l := range counts {
		rest = append(rest, l)
	}
	sort.Strings(rest)
	for _, l := range rest {
		out = append(out, CategoryCount{Label: l, Count: counts[l]})
	}
	return out
}

func averages(results []model.Result, idx []int) model.ScoreValues {
	mean := func(sc model.Score) types.Value {
		xs := make([]float64, 0, len(idx))
		for _, i := range idx {
			if x, ok := results[i].Scores.Get(sc).Get(); ok {
				xs = append(xs, x)
			}
		}
		if len(xs) == 0 {
			return types.None()
		}
		return types.Some(stat.Mean(xs, nil))
	}
	return model.ScoreValues{
		Athletic:  mean(model.ScoreAthletic),
		College:   mean(model.ScoreCollege),
		NFL:       mean(model.ScoreNFL),
		Composite: mean(model.ScoreComposite),
	}
}
