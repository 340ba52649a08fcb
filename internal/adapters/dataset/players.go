package dataset

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/okian/secondary/internal/domain/model"
	"github.com/okian/secondary/internal/domain/types"
)

const playerColumns = `player_id, display_name, position, team_name, college_name,
	draft_season, draft_round, draft_overall, draft_club, ras,
	college_int, college_pbu, college_tackles, college_tfl, college_seasons,
	nfl_int, nfl_pbu, nfl_tackles, nfl_cov_yards, nfl_cov_snaps, nfl_snaps`

// SavePlayers writes records into dataset. Existing rows with the same id are
// replaced.
func (s *Store) SavePlayers(ctx context.Context, dataset string, records []model.PlayerRecord) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO players(dataset, `+playerColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		c, n := r.College, r.Rookie
		_, err = stmt.ExecContext(ctx,
			dataset, r.ID, r.DisplayName, r.Position, r.TeamName, r.CollegeName,
			r.Draft.Season, r.Draft.Round, r.Draft.Overall, r.Draft.Club, nullable(r.RAS),
			nullable(c.Interceptions), nullable(c.PassBreakups), nullable(c.Tackles),
			nullable(c.TacklesForLoss), nullable(c.Seasons),
			nullable(n.Interceptions), nullable(n.PassBreakups), nullable(n.Tackles),
			nullable(n.CoverageYardsAllowed), nullable(n.CoverageSnaps), nullable(n.TotalSnaps),
		)
		if err != nil {
			return fmt.Errorf("insert player %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// LoadPlayers returns every record in dataset ordered by id. NULL columns come
// back undefined.
func (s *Store) LoadPlayers(ctx context.Context, dataset string) ([]model.PlayerRecord, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE dataset = ? ORDER BY player_id`, dataset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerRecord
	for rows.Next() {
		var (
			r   model.PlayerRecord
			num [12]sql.NullFloat64
		)
		if err := rows.Scan(
			&r.ID, &r.DisplayName, &r.Position, &r.TeamName, &r.CollegeName,
			&r.Draft.Season, &r.Draft.Round, &r.Draft.Overall, &r.Draft.Club, &num[0],
			&num[1], &num[2], &num[3], &num[4], &num[5],
			&num[6], &num[7], &num[8], &num[9], &num[10], &num[11],
		); err != nil {
			return nil, err
		}
		r.RAS = fromNull(num[0])
		r.College = model.College{
			Interceptions:  fromNull(num[1]),
			PassBreakups:   fromNull(num[2]),
			Tackles:        fromNull(num[3]),
			TacklesForLoss: fromNull(num[4]),
			Seasons:        fromNull(num[5]),
		}
		r.Rookie = model.Rookie{
			Interceptions:        fromNull(num[6]),
			PassBreakups:         fromNull(num[7]),
			Tackles:              fromNull(num[8]),
			CoverageYardsAllowed: fromNull(num[9]),
			CoverageSnaps:        fromNull(num[10]),
			TotalSnaps:           fromNull(num[11]),
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountPlayers returns the number of records in dataset.
func (s *Store) CountPlayers(ctx context.Context, dataset string) (int, error) {
	var n int
	err := s.conn.QueryRowContext(ctx, "SELECT COUNT(1) FROM players WHERE dataset = ?", dataset).Scan(&n)
	return n, err
}

func nullable(v types.Value) any {
	if x, ok := v.Get(); ok {
		return x
	}
	return nil
}

func fromNull(n sql.NullFloat64) types.Value {
	if !n.Valid {
		return types.None()
	}
	return types.Some(n.Float64)
}
