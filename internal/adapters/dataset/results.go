package dataset

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/secondary/internal/domain/model"
)

// Run describes one persisted evaluation.
type Run struct {
	ID        uuid.UUID
	Dataset   string
	Policy    string
	CreatedAt time.Time
	Players   int
}

// SaveResults stores the rows of one run. Rows keep their input order.
func (s *Store) SaveResults(ctx context.Context, run Run, results []model.Result) error {
	if run.ID == uuid.Nil {
		return fmt.Errorf("%w: run id is empty", ErrInvalidRow)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs(run_id, dataset, policy, created_at, players)
		VALUES (?, ?, ?, ?, ?)`,
		run.ID.String(), run.Dataset, run.Policy, run.CreatedAt.UnixNano(), len(results),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO results(dataset, run_id, row_index, player_id, position, category, composite, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range results {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode result %s: %w", r.PlayerID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			run.Dataset, run.ID.String(), i, r.PlayerID, r.Position, r.Category,
			nullable(r.Scores.Composite), string(payload),
		); err != nil {
			return fmt.Errorf("insert result %s: %w", r.PlayerID, err)
		}
	}
	return tx.Commit()
}

// LatestRun returns the most recent run stored for dataset.
func (s *Store) LatestRun(ctx context.Context, dataset string) (Run, error) {
	var (
		run     Run
		id      string
		created int64
	)
	err := s.conn.QueryRowContext(ctx, `
		SELECT run_id, dataset, policy, created_at, players
		FROM runs WHERE dataset = ?
		ORDER BY created_at DESC, rowid DESC LIMIT 1`, dataset,
	).Scan(&id, &run.Dataset, &run.Policy, &created, &run.Players)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: dataset %q", ErrNoResults, dataset)
	}
	if err != nil {
		return Run{}, err
	}
	if run.ID, err = uuid.Parse(id); err != nil {
		return Run{}, fmt.Errorf("%w: run id %q: %w", ErrInvalidRow, id, err)
	}
	run.CreatedAt = time.Unix(0, created)
	return run, nil
}

// LoadResults returns the latest run for dataset and its rows in input order.
func (s *Store) LoadResults(ctx context.Context, dataset string) (Run, []model.Result, error) {
	run, err := s.LatestRun(ctx, dataset)
	if err != nil {
		return Run{}, nil, err
	}
	rows, err := s.conn.QueryContext(ctx, `
		SELECT payload FROM results
		WHERE dataset = ? AND run_id = ?
		ORDER BY row_index`, dataset, run.ID.String())
	if err != nil {
		return Run{}, nil, err
	}
	defer rows.Close()

	out := make([]model.Result, 0, run.Players)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return Run{}, nil, err
		}
		var r model.Result
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return Run{}, nil, fmt.Errorf("%w: %w", ErrInvalidRow, err)
		}
		out = append(out, r)
	}
	return run, out, rows.Err()
}
