// Package model contains domain models passed between layers.
package model

import (
	"fmt"

	"github.com/okian/secondary/internal/domain/types"
)

// Draft carries pass-through draft metadata. Round and Overall are zero for
// undrafted players.
type Draft struct {
	Season  int    `json:"season"`
	Round   int    `json:"round"`
	Overall int    `json:"overall"`
	Club    string `json:"club"`
}

// Pick formats the draft slot as "R1 #15", or "UDFA" when undrafted.
func (d Draft) Pick() string {
	if d.Round <= 0 {
		return "UDFA"
	}
	return fmt.Sprintf("R%d #%d", d.Round, d.Overall)
}

// College holds cumulative college counting stats.
type College struct {
	Interceptions  types.Value `json:"interceptions"`
	PassBreakups   types.Value `json:"pass_breakups"`
	Tackles        types.Value `json:"tackles"`
	TacklesForLoss types.Value `json:"tackles_for_loss"`
	Seasons        types.Value `json:"seasons"`
}

// Present counts how many of the college counting stats are defined.
func (c College) Present() int {
	n := 0
	for _, v := range []types.Value{c.Interceptions, c.PassBreakups, c.Tackles, c.TacklesForLoss} {
		if v.Defined() {
			n++
		}
	}
	return n
}

// Rookie holds cumulative NFL rookie-season counting stats and exposure.
type Rookie struct {
	Interceptions        types.Value `json:"interceptions"`
	PassBreakups         types.Value `json:"pass_breakups"`
	Tackles              types.Value `json:"tackles"`
	CoverageYardsAllowed types.Value `json:"coverage_yards_allowed"`
	CoverageSnaps        types.Value `json:"coverage_snaps"`
	TotalSnaps           types.Value `json:"total_snaps"`
}

// PlayerRecord is one immutable input row.
type PlayerRecord struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"display_name"`
	Position    string      `json:"position"`
	TeamName    string      `json:"team_name"`
	CollegeName string      `json:"college_name"`
	Draft       Draft       `json:"draft"`
	RAS         types.Value `json:"ras"`
	College     College     `json:"college"`
	Rookie      Rookie      `json:"rookie"`
}
