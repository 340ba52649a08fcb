package model

import (
	"strings"

	"github.com/okian/secondary/internal/domain/tier"
	"github.com/okian/secondary/internal/domain/types"
)

// Metric names a normalised per-player statistic.
type Metric string

// Metric catalogue. Each metric is normalised within a position group.
const (
	MetricRAS               Metric = "ras"
	MetricCollegePlaymaking Metric = "college_playmaking"
	MetricCollegeTackling   Metric = "college_tackling"
	MetricCollegeDisruption Metric = "college_disruption"
	MetricNFLPlaymaking     Metric = "nfl_playmaking"
	MetricNFLTackling       Metric = "nfl_tackling"
	MetricNFLCoverage       Metric = "nfl_coverage"
)

// Metrics lists every metric in a fixed order.
var Metrics = []Metric{
	MetricRAS,
	MetricCollegePlaymaking, MetricCollegeTackling, MetricCollegeDisruption,
	MetricNFLPlaymaking, MetricNFLTackling, MetricNFLCoverage,
}

// Score names one of the ranked scores.
type Score string

// Ranked scores.
const (
	ScoreAthletic  Score = "athletic_potential"
	ScoreCollege   Score = "college_production"
	ScoreNFL       Score = "nfl_production"
	ScoreComposite Score = "composite"
)

// Scores lists the ranked scores in a fixed order.
var Scores = []Score{ScoreAthletic, ScoreCollege, ScoreNFL, ScoreComposite}

// ParseScore resolves a score by full name or by its short form (athletic,
// college, nfl). Case and surrounding space are ignored.
func ParseScore(name string) (Score, bool) {
	switch Score(strings.ToLower(strings.TrimSpace(name))) {
	case "athletic", ScoreAthletic:
		return ScoreAthletic, true
	case "college", ScoreCollege:
		return ScoreCollege, true
	case "nfl", ScoreNFL:
		return ScoreNFL, true
	case ScoreComposite:
		return ScoreComposite, true
	}
	return "", false
}

// Issue codes attached to a result row.
const (
	IssueUnrecognizedPosition  = "unrecognized_position"
	IssueMissingRAS            = "missing_ras"
	IssueNoCollegeSample       = "no_college_sample"
	IssueInsufficientNFLSample = "insufficient_nfl_sample"
)

// MetricValues holds one value per metric. Rates and percentiles share it.
type MetricValues struct {
	RAS               types.Value `json:"ras"`
	CollegePlaymaking types.Value `json:"college_playmaking"`
	CollegeTackling   types.Value `json:"college_tackling"`
	CollegeDisruption types.Value `json:"college_disruption"`
	NFLPlaymaking     types.Value `json:"nfl_playmaking"`
	NFLTackling       types.Value `json:"nfl_tackling"`
	NFLCoverage       types.Value `json:"nfl_coverage"`
}

// Get returns the value stored for m.
func (mv MetricValues) Get(m Metric) types.Value {
	if p := mv.slot(m); p != nil {
		return *p
	}
	return types.None()
}

// Set stores v for m. Unknown metrics are ignored.
func (mv *MetricValues) Set(m Metric, v types.Value) {
	if p := mv.slot(m); p != nil {
		*p = v
	}
}

func (mv *MetricValues) slot(m Metric) *types.Value {
	switch m {
	case MetricRAS:
		return &mv.RAS
	case MetricCollegePlaymaking:
		return &mv.CollegePlaymaking
	case MetricCollegeTackling:
		return &mv.CollegeTackling
	case MetricCollegeDisruption:
		return &mv.CollegeDisruption
	case MetricNFLPlaymaking:
		return &mv.NFLPlaymaking
	case MetricNFLTackling:
		return &mv.NFLTackling
	case MetricNFLCoverage:
		return &mv.NFLCoverage
	}
	return nil
}

// ScoreValues holds the three pillar scores and the composite.
type ScoreValues struct {
	Athletic  types.Value `json:"athletic_potential"`
	College   types.Value `json:"college_production"`
	NFL       types.Value `json:"nfl_production"`
	Composite types.Value `json:"composite"`
}

// Get returns the score named s.
func (sv ScoreValues) Get(s Score) types.Value {
	switch s {
	case ScoreAthletic:
		return sv.Athletic
	case ScoreCollege:
		return sv.College
	case ScoreNFL:
		return sv.NFL
	case ScoreComposite:
		return sv.Composite
	}
	return types.None()
}

// Ranks holds one within-position rank per score.
type Ranks struct {
	Athletic  types.Rank `json:"athletic_potential"`
	College   types.Rank `json:"college_production"`
	NFL       types.Rank `json:"nfl_production"`
	Composite types.Rank `json:"composite"`
}

// Get returns the rank for s.
func (r Ranks) Get(s Score) types.Rank {
	switch s {
	case ScoreAthletic:
		return r.Athletic
	case ScoreCollege:
		return r.College
	case ScoreNFL:
		return r.NFL
	case ScoreComposite:
		return r.Composite
	}
	return types.Rank{}
}

// Set stores the rank for s.
func (r *Ranks) Set(s Score, v types.Rank) {
	switch s {
	case ScoreAthletic:
		r.Athletic = v
	case ScoreCollege:
		r.College = v
	case ScoreNFL:
		r.NFL = v
	case ScoreComposite:
		r.Composite = v
	}
}

// Tiers holds the pillar tiers.
type Tiers struct {
	Athletic tier.Tier `json:"athletic_potential"`
	College  tier.Tier `json:"college_production"`
	NFL      tier.Tier `json:"nfl_production"`
}

// SampleFlags records data availability for one player.
type SampleFlags struct {
	RASPresent    bool `json:"ras_present"`
	CollegeSample bool `json:"college_sample"`
	NFLSample     bool `json:"nfl_sample"`
}

// Result is the derived output row for one input record. Every field is
// always present; undefined values encode as null.
type Result struct {
	PlayerID           string       `json:"player_id"`
	DisplayName        string       `json:"display_name"`
	RawPosition        string       `json:"raw_position"`
	Position           string       `json:"position"`
	PositionRecognized bool         `json:"position_recognized"`
	TeamName           string       `json:"team_name"`
	CollegeName        string       `json:"college_name"`
	Draft              Draft        `json:"draft"`
	RAS                types.Value  `json:"ras"`
	Rates              MetricValues `json:"rates"`
	Percentiles        MetricValues `json:"percentiles"`
	Scores             ScoreValues  `json:"scores"`
	Ranks              Ranks        `json:"ranks"`
	Tiers              Tiers        `json:"tiers"`
	Flags              SampleFlags  `json:"flags"`
	Category           string       `json:"category"`
	Issues             []string     `json:"issues"`
}
