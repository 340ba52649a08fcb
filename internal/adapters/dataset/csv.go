package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/secondary/internal/domain/model"
	"github.com/okian/secondary/internal/domain/types"
)

// CSV column names. The identity and draft columns follow the prospect
// export; the stat columns are this tool's own.
const (
	ColPlayerID       = "player_id"
	ColDisplayName    = "player_display_name"
	ColPosition       = "position"
	ColTeamName       = "team_name"
	ColCollegeName    = "college_name"
	ColDraftSeason    = "draft_season"
	ColDraftRound     = "draft_round"
	ColDraftOverall   = "draft_overall_selection"
	ColDraftClub      = "draft_club_name"
	ColRAS            = "ras"
	ColCollegeINT     = "college_int"
	ColCollegePBU     = "college_pbu"
	ColCollegeTackles = "college_tackles"
	ColCollegeTFL     = "college_tfl"
	ColCollegeSeasons = "college_seasons"
	ColNFLINT         = "nfl_int"
	ColNFLPBU         = "nfl_pbu"
	ColNFLTackles     = "nfl_tackles"
	ColNFLCovYards    = "nfl_coverage_yards"
	ColNFLCovSnaps    = "nfl_coverage_snaps"
	ColNFLSnaps       = "nfl_snaps"
)

// CSVHeader is the column order written by WriteCSV.
var CSVHeader = []string{
	ColPlayerID, ColDisplayName, ColPosition, ColTeamName, ColCollegeName,
	ColDraftSeason, ColDraftRound, ColDraftOverall, ColDraftClub, ColRAS,
	ColCollegeINT, ColCollegePBU, ColCollegeTackles, ColCollegeTFL, ColCollegeSeasons,
	ColNFLINT, ColNFLPBU, ColNFLTackles, ColNFLCovYards, ColNFLCovSnaps, ColNFLSnaps,
}

// ImportCSV parses player records. Columns are matched by header name, case
// insensitively, in any order; unknown columns are ignored. Blank or "NA"
// cells are undefined. player_id and position are required.
func ImportCSV(r io.Reader) ([]model.PlayerRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, req := range []string{ColPlayerID, ColPosition} {
		if _, ok := col[req]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, req)
		}
	}

	var out []model.PlayerRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		p := rowParser{row: row, col: col}
		rec := model.PlayerRecord{
			ID:          p.text(ColPlayerID),
			DisplayName: p.text(ColDisplayName),
			Position:    p.text(ColPosition),
			TeamName:    p.text(ColTeamName),
			CollegeName: p.text(ColCollegeName),
			Draft: model.Draft{
				Season:  p.integer(ColDraftSeason),
				Round:   p.integer(ColDraftRound),
				Overall: p.integer(ColDraftOverall),
				Club:    p.text(ColDraftClub),
			},
			RAS: p.number(ColRAS),
			College: model.College{
				Interceptions:  p.number(ColCollegeINT),
				PassBreakups:   p.number(ColCollegePBU),
				Tackles:        p.number(ColCollegeTackles),
				TacklesForLoss: p.number(ColCollegeTFL),
				Seasons:        p.number(ColCollegeSeasons),
			},
			Rookie: model.Rookie{
				Interceptions:        p.number(ColNFLINT),
				PassBreakups:         p.number(ColNFLPBU),
				Tackles:              p.number(ColNFLTackles),
				CoverageYardsAllowed: p.number(ColNFLCovYards),
				CoverageSnaps:        p.number(ColNFLCovSnaps),
				TotalSnaps:           p.number(ColNFLSnaps),
			},
		}
		if p.err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidRow, line, p.err)
		}
		if rec.ID == "" {
			return nil, fmt.Errorf("%w: line %d: empty %s", ErrInvalidRow, line, ColPlayerID)
		}
		out = append(out, rec)
	}
}

// WriteCSV writes records in the format ImportCSV reads.
func WriteCSV(w io.Writer, records []model.PlayerRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range records {
		c, n := r.College, r.Rookie
		row := []string{
			r.ID, r.DisplayName, r.Position, r.TeamName, r.CollegeName,
			itoa(r.Draft.Season), itoa(r.Draft.Round), itoa(r.Draft.Overall), r.Draft.Club, ftoa(r.RAS),
			ftoa(c.Interceptions), ftoa(c.PassBreakups), ftoa(c.Tackles), ftoa(c.TacklesForLoss), ftoa(c.Seasons),
			ftoa(n.Interceptions), ftoa(n.PassBreakups), ftoa(n.Tackles),
			ftoa(n.CoverageYardsAllowed), ftoa(n.CoverageSnaps), ftoa(n.TotalSnaps),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type rowParser struct {
	row []string
	col map[string]int
	err error
}

func (p *rowParser) cell(name string) string {
	i, ok := p.col[name]
	if !ok || i >= len(p.row) {
		return ""
	}
	v := strings.TrimSpace(p.row[i])
	switch strings.ToUpper(v) {
	case "NA", "N/A", "NAN", "NULL", "—":
		return ""
	}
	return v
}

func (p *rowParser) text(name string) string { return p.cell(name) }

func (p *rowParser) number(name string) types.Value {
	v := p.cell(name)
	if v == "" {
		return types.None()
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		if p.err == nil {
			p.err = fmt.Errorf("%s: %w", name, err)
		}
		return types.None()
	}
	return types.Some(f)
}

// integer accepts "3" and "3.0"; blank is zero.
func (p *rowParser) integer(name string) int {
	x, ok := p.number(name).Get()
	if !ok {
		return 0
	}
	return int(x)
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func ftoa(v types.Value) string {
	x, ok := v.Get()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}
