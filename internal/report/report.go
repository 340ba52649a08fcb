// Package report renders evaluation results as terminal tables.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/secondary/internal/domain/model"
	"github.com/okian/secondary/internal/domain/types"
)

const (
	missing         = "—"
	topPerCategory  = 3
	positionUnknown = "?"
)

// Order sorts results for display: category in labels order (unknown labels
// last, alphabetically), then composite rank, then composite score desc,
// then player id. The input slice is not modified.
func Order(results []model.Result, labels []string) []model.Result {
	pos := make(map[string]int, len(labels))
	for i, l := range labels {
		pos[l] = i
	}
	catIdx := func(l string) int {
		if i, ok := pos[l]; ok {
			return i
		}
		return len(labels)
	}
	out := make([]model.Result, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ca, cb := catIdx(a.Category), catIdx(b.Category); ca != cb {
			return ca < cb
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		ra, aok := a.Ranks.Composite.Get()
		rb, bok := b.Ranks.Composite.Get()
		if aok != bok {
			return aok
		}
		if aok && ra != rb {
			return ra < rb
		}
		sa := a.Scores.Composite.Or(-1)
		sb := b.Scores.Composite.Or(-1)
		if sa != sb {
			return sa > sb
		}
		return a.PlayerID < b.PlayerID
	})
	return out
}

// PrintRankings writes one row per player in display order.
func PrintRankings(w io.Writer, results []model.Result, labels []string) error {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header(
		"PLAYER", "YEAR", "PICK", "POS", "TEAM", "COLLEGE", "RAS",
		"ATH", "COL", "NFL", "OVR", "COMPOSITE", "CATEGORY",
	)

	for _, r := range Order(results, labels) {
		if err := table.Append(
			r.DisplayName,
			year(r.Draft.Season),
			r.Draft.Pick(),
			position(r),
			r.TeamName,
			r.CollegeName,
			value(r.RAS, 1),
			rank(r.Ranks.Athletic),
			rank(r.Ranks.College),
			rank(r.Ranks.NFL),
			rank(r.Ranks.Composite),
			value(r.Scores.Composite, 1),
			r.Category,
		); err != nil {
			return fmt.Errorf("append %s: %w", r.PlayerID, err)
		}
	}
	return table.Render()
}

// PrintCategorySummary writes the category distribution followed by the
// mean pillar scores of each position group.
func PrintCategorySummary(w io.Writer, results []model.Result, labels []string) error {
	counts := make(map[string]int)
	for _, r := range results {
		counts[r.Category]++
	}
	ordered := Order(results, labels)

	dist := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
	}))
	dist.Header("CATEGORY", "PLAYERS", "SHARE")
	seen := make(map[string]bool)
	for _, r := range ordered {
		if seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		n := counts[r.Category]
		if err := dist.Append(
			r.Category,
			strconv.Itoa(n),
			fmt.Sprintf("%.0f%%", 100*float64(n)/float64(len(results))),
		); err != nil {
			return err
		}
	}
	if err := dist.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	avg := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
	}))
	avg.Header("POS", "PLAYERS", "ATHLETIC", "COLLEGE", "NFL", "COMPOSITE")
	for _, g := range groupAverages(results) {
		if err := avg.Append(
			g.position,
			strconv.Itoa(g.players),
			value(g.scores.Athletic, 1),
			value(g.scores.College, 1),
			value(g.scores.NFL, 1),
			value(g.scores.Composite, 1),
		); err != nil {
			return err
		}
	}
	return avg.Render()
}

// PrintTopPerCategory writes the three highest composites of each category.
// Players without a composite are left out.
func PrintTopPerCategory(w io.Writer, results []model.Result, labels []string) error {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
	table.Header("CATEGORY", "#", "PLAYER", "POS", "PICK", "COMPOSITE")

	byComposite := make([]model.Result, 0, len(results))
	for _, r := range results {
		if r.Scores.Composite.Defined() {
			byComposite = append(byComposite, r)
		}
	}
	sort.SliceStable(byComposite, func(i, j int) bool {
		a, b := byComposite[i].Scores.Composite.Or(0), byComposite[j].Scores.Composite.Or(0)
		if a != b {
			return a > b
		}
		return byComposite[i].PlayerID < byComposite[j].PlayerID
	})

	taken := make(map[string]int)
	for _, label := range categoryOrder(results, labels) {
		for _, r := range byComposite {
			if r.Category != label || taken[label] == topPerCategory {
				continue
			}
			taken[label]++
			if err := table.Append(
				label,
				strconv.Itoa(taken[label]),
				r.DisplayName,
				position(r),
				r.Draft.Pick(),
				value(r.Scores.Composite, 1),
			); err != nil {
				return err
			}
		}
	}
	return table.Render()
}

// categoryOrder lists the labels present in results in display order.
func categoryOrder(results []model.Result, labels []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range Order(results, labels) {
		if !seen[r.Category] {
			seen[r.Category] = true
			out = append(out, r.Category)
		}
	}
	return out
}

type groupAverage struct {
	position string
	players  int
	scores   model.ScoreValues
}

func groupAverages(results []model.Result) []groupAverage {
	groups := make(map[string][]model.Result)
	for _, r := range results {
		if r.PositionRecognized {
			groups[r.Position] = append(groups[r.Position], r)
		}
	}
	names := make([]string, 0, len(groups))
	for p := range groups {
		names = append(names, p)
	}
	sort.Strings(names)

	out := make([]groupAverage, 0, len(names))
	for _, p := range names {
		rs := groups[p]
		mean := func(sc model.Score) types.Value {
			xs := make([]float64, 0, len(rs))
			for _, r := range rs {
				if x, ok := r.Scores.Get(sc).Get(); ok {
					xs = append(xs, x)
				}
			}
			if len(xs) == 0 {
				return types.None()
			}
			return types.Some(stat.Mean(xs, nil))
		}
		out = append(out, groupAverage{
			position: p,
			players:  len(rs),
			scores: model.ScoreValues{
				Athletic:  mean(model.ScoreAthletic),
				College:   mean(model.ScoreCollege),
				NFL:       mean(model.ScoreNFL),
				Composite: mean(model.ScoreComposite),
			},
		})
	}
	return out
}

func value(v types.Value, prec int) string {
	x, ok := v.Get()
	if !ok {
		return missing
	}
	return strconv.FormatFloat(x, 'f', prec, 64)
}

func rank(r types.Rank) string {
	n, ok := r.Get()
	if !ok {
		return missing
	}
	return strconv.Itoa(n)
}

func year(season int) string {
	if season <= 0 {
		return missing
	}
	return strconv.Itoa(season)
}

func position(r model.Result) string {
	if !r.PositionRecognized {
		if r.RawPosition == "" {
			return positionUnknown
		}
		return r.RawPosition
	}
	return r.Position
}
