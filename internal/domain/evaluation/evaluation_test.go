package evaluation_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/okian/secondary/internal/domain/category"
	"github.com/okian/secondary/internal/domain/evaluation"
	"github.com/okian/secondary/internal/domain/model"
	"github.com/okian/secondary/internal/domain/scoring"
	"github.com/okian/secondary/internal/domain/tier"
	"github.com/okian/secondary/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

var some = types.Some

// prospect builds a record whose every metric gets strictly worse as i grows.
func prospect(id, pos string, i int) model.PlayerRecord {
	f := float64(i)
	return model.PlayerRecord{
		ID:          id,
		DisplayName: "Player " + id,
		Position:    pos,
		Draft:       model.Draft{Season: 2024, Round: 1 + i, Overall: 10 + 32*i},
		RAS:         some(9 - f*0.5),
		College: model.College{
			Interceptions:  some(10 - f),
			PassBreakups:   some(20 - f),
			Tackles:        some(200 - 10*f),
			TacklesForLoss: some(20 - f),
			Seasons:        some(4),
		},
		Rookie: model.Rookie{
			Interceptions:        some(7 - f),
			PassBreakups:         some(14 - f),
			Tackles:              some(80 - 5*f),
			CoverageYardsAllowed: some(200 + 50*f),
			CoverageSnaps:        some(500),
			TotalSnaps:           some(800),
		},
	}
}

func cohort(pos string, n int) []model.PlayerRecord {
	out := make([]model.PlayerRecord, n)
	for i := range out {
		out[i] = prospect(fmt.Sprintf("%s-%d", pos, i), pos, i)
	}
	return out
}

func mustEvaluator(s evaluation.Settings) *evaluation.Evaluator {
	e, err := evaluation.New(s)
	So(err, ShouldBeNil)
	return e
}

func val(v types.Value) float64 {
	x, ok := v.Get()
	So(ok, ShouldBeTrue)
	return x
}

func TestNew(t *testing.T) {
	Convey("Given evaluation settings", t, func() {
		Convey("When the defaults are used", func() {
			e, err := evaluation.New(evaluation.DefaultSettings())

			Convey("Then the tiered policy should be active", func() {
				So(err, ShouldBeNil)
				So(e.Policy(), ShouldEqual, category.PolicyTiered)
				So(e.Labels()[0], ShouldEqual, "Elite")
			})
		})

		Convey("When the rule list has no catch-all", func() {
			s := evaluation.DefaultSettings()
			s.Policy.Rules = s.Policy.Rules[:len(s.Policy.Rules)-1]
			_, err := evaluation.New(s)
			So(errors.Is(err, category.ErrConfiguration), ShouldBeTrue)
		})

		Convey("When a pillar's weights sum to zero", func() {
			s := evaluation.DefaultSettings()
			s.Pillars.College = scoring.NewPillar(model.ScoreCollege, map[model.Metric]float64{
				model.MetricCollegeTackling: 0,
			})
			_, err := evaluation.New(s)
			So(errors.Is(err, scoring.ErrConfiguration), ShouldBeTrue)
		})

		Convey("When the tier cuts are inverted", func() {
			s := evaluation.DefaultSettings()
			s.Thresholds.High, s.Thresholds.Medium = 30, 60
			_, err := evaluation.New(s)
			So(errors.Is(err, tier.ErrInvalidThresholds), ShouldBeTrue)
		})

		Convey("When the minimum sample is negative", func() {
			s := evaluation.DefaultSettings()
			s.MinNFLSnaps = -1
			_, err := evaluation.New(s)
			So(errors.Is(err, evaluation.ErrInvalidSettings), ShouldBeTrue)
		})
	})
}

func TestPercentilesAndScores(t *testing.T) {
	Convey("Given 35 cornerbacks ranked by RAS", t, func() {
		e := mustEvaluator(evaluation.DefaultSettings())
		recs := make([]model.PlayerRecord, 35)
		for i := range recs {
			recs[i] = model.PlayerRecord{ID: fmt.Sprintf("cb%02d", i), Position: "CB", RAS: some(10 - float64(i)*0.1)}
		}

		res, err := e.Evaluate(context.Background(), recs)
		So(err, ShouldBeNil)

		Convey("Then fifth of 35 should sit at 85.71", func() {
			So(val(res[4].Percentiles.RAS), ShouldAlmostEqual, 85.714, 0.001)
			So(val(res[0].Percentiles.RAS), ShouldAlmostEqual, 97.143, 0.001)
		})

		Convey("And rank 1 should hold the best athletic score", func() {
			r, ok := res[0].Ranks.Athletic.Get()
			So(ok, ShouldBeTrue)
			So(r, ShouldEqual, 1)
		})

		Convey("And composite should equal the only defined pillar", func() {
			So(res[4].Scores.College.Defined(), ShouldBeFalse)
			So(res[4].Scores.NFL.Defined(), ShouldBeFalse)
			So(val(res[4].Scores.Composite), ShouldAlmostEqual, val(res[4].Scores.Athletic), 1e-9)
		})
	})

	Convey("Given a group where one player lacks tackles for loss", t, func() {
		e := mustEvaluator(evaluation.DefaultSettings())
		recs := cohort("CB", 5)
		recs[2].College.TacklesForLoss = types.None()

		res, err := e.Evaluate(context.Background(), recs)
		So(err, ShouldBeNil)
		r := res[2]

		Convey("Then the college pillar should renormalise over the two defined inputs", func() {
			So(r.Percentiles.CollegeDisruption.Defined(), ShouldBeFalse)
			want := (0.40*val(r.Percentiles.CollegePlaymaking) + 0.35*val(r.Percentiles.CollegeTackling)) / 0.75
			So(val(r.Scores.College), ShouldAlmostEqual, want, 1e-9)
			So(r.Flags.CollegeSample, ShouldBeTrue)
		})

		Convey("And the missing input should not consume a rank slot", func() {
			So(val(res[0].Percentiles.CollegeDisruption), ShouldAlmostEqual, 75, 1e-9)
			So(val(res[4].Percentiles.CollegeDisruption), ShouldAlmostEqual, 0, 1e-9)
		})
	})
}

func TestEndToEnd(t *testing.T) {
	simplified := evaluation.DefaultSettings()
	simplified.Policy = category.Simplified()

	Convey("Given seven cornerbacks with a clear leader", t, func() {
		recs := cohort("CB", 7)

		Convey("When scored under the tiered policy", func() {
			res, err := mustEvaluator(evaluation.DefaultSettings()).Evaluate(context.Background(), recs)
			So(err, ShouldBeNil)
			top := res[0]

			Convey("Then the leader should be High on every pillar and Elite", func() {
				So(top.Tiers, ShouldResemble, model.Tiers{Athletic: tier.High, College: tier.High, NFL: tier.High})
				So(val(top.Scores.NFL), ShouldAlmostEqual, 85.714, 0.001)
				So(top.Category, ShouldEqual, "Elite")
				r, _ := top.Ranks.Composite.Get()
				So(r, ShouldEqual, 1)
			})

			Convey("And coverage yards should rank lower-is-better", func() {
				So(val(top.Percentiles.NFLCoverage), ShouldBeGreaterThan, val(res[6].Percentiles.NFLCoverage))
			})
		})

		Convey("When scored under the simplified policy", func() {
			res, err := mustEvaluator(simplified).Evaluate(context.Background(), recs)
			So(err, ShouldBeNil)

			Convey("Then the leader should clear the elite cut", func() {
				So(res[0].Category, ShouldEqual, "Elite")
			})
		})

		Convey("When the leader has a tiny rookie sample", func() {
			recs[0].Rookie.TotalSnaps = some(50)
			res, err := mustEvaluator(evaluation.DefaultSettings()).Evaluate(context.Background(), recs)
			So(err, ShouldBeNil)
			top := res[0]

			Convey("Then no NFL-based label should apply", func() {
				So(top.Flags.NFLSample, ShouldBeFalse)
				So(top.Issues, ShouldContain, model.IssueInsufficientNFLSample)
				So(top.Category, ShouldEqual, "Prospect")
			})

			Convey("And the simplified policy should also fall back", func() {
				res, err := mustEvaluator(simplified).Evaluate(context.Background(), recs)
				So(err, ShouldBeNil)
				So(res[0].Category, ShouldEqual, "Prospect")
			})
		})
	})

	Convey("Given a standout with no rookie exposure", t, func() {
		recs := cohort("CB", 7)
		x := prospect("x", "CB", -1)
		x.Rookie = model.Rookie{}
		recs = append(recs, x)

		res, err := mustEvaluator(evaluation.DefaultSettings()).Evaluate(context.Background(), recs)
		So(err, ShouldBeNil)
		r := res[7]

		Convey("Then every NFL field should be undefined", func() {
			So(r.Scores.NFL.Defined(), ShouldBeFalse)
			So(r.Tiers.NFL, ShouldEqual, tier.Unknown)
			So(r.Ranks.NFL.Defined(), ShouldBeFalse)
			So(r.Rates.NFLPlaymaking.Defined(), ShouldBeFalse)
		})

		Convey("And composite should average only the defined pillars", func() {
			want := (val(r.Scores.Athletic) + val(r.Scores.College)) / 2
			So(val(r.Scores.Composite), ShouldAlmostEqual, want, 1e-9)
		})

		Convey("And the category should come from athletic and college tiers", func() {
			So(r.Tiers.Athletic, ShouldEqual, tier.High)
			So(r.Tiers.College, ShouldEqual, tier.High)
			So(r.Category, ShouldEqual, "Prospect")
		})

		Convey("And the other players should not lose NFL rank slots", func() {
			rk, ok := res[0].Ranks.NFL.Get()
			So(ok, ShouldBeTrue)
			So(rk, ShouldEqual, 1)
		})
	})

	Convey("Given a corner whose total snaps are missing but coverage columns are filled", t, func() {
		recs := cohort("CB", 7)
		recs[3].Rookie.TotalSnaps = types.None()

		res, err := mustEvaluator(evaluation.DefaultSettings()).Evaluate(context.Background(), recs)
		So(err, ShouldBeNil)
		r := res[3]

		Convey("Then every NFL field should be undefined", func() {
			So(r.Rates.NFLPlaymaking.Defined(), ShouldBeFalse)
			So(r.Rates.NFLCoverage.Defined(), ShouldBeFalse)
			So(r.Scores.NFL.Defined(), ShouldBeFalse)
			So(r.Tiers.NFL, ShouldEqual, tier.Unknown)
			So(r.Ranks.NFL.Defined(), ShouldBeFalse)
		})

		Convey("And the players below should close the gap in NFL rank", func() {
			rk, ok := res[4].Ranks.NFL.Get()
			So(ok, ShouldBeTrue)
			So(rk, ShouldEqual, 4)
		})
	})

	Convey("Given two safeties tied on college production", t, func() {
		recs := cohort("SAF", 3)
		recs[1].College = recs[0].College

		res, err := mustEvaluator(evaluation.DefaultSettings()).Evaluate(context.Background(), recs)
		So(err, ShouldBeNil)

		Convey("Then they should share percentiles, scores and rank", func() {
			So(res[0].Percentiles.CollegeTackling, ShouldResemble, res[1].Percentiles.CollegeTackling)
			So(val(res[0].Percentiles.CollegeTackling), ShouldAlmostEqual, 50, 1e-9)
			So(res[0].Scores.College, ShouldResemble, res[1].Scores.College)
			So(res[0].Ranks.College, ShouldResemble, res[1].Ranks.College)
			r, _ := res[2].Ranks.College.Get()
			So(r, ShouldEqual, 3)
		})
	})
}

func TestGroupsAndIssues(t *testing.T) {
	Convey("Given a mixed batch", t, func() {
		e := mustEvaluator(evaluation.DefaultSettings())
		recs := cohort("CB", 7)
		recs = append(recs,
			prospect("lb", "LB", 0),
			prospect("fs", "fs", 0),
			model.PlayerRecord{ID: "blank", Position: "CB"},
		)

		res, err := e.Evaluate(context.Background(), recs)
		So(err, ShouldBeNil)

		Convey("Then output order should follow input order", func() {
			So(len(res), ShouldEqual, len(recs))
			for i := range recs {
				So(res[i].PlayerID, ShouldEqual, recs[i].ID)
			}
		})

		Convey("Then synonyms should map onto canonical groups", func() {
			So(res[8].Position, ShouldEqual, "SAF")
			So(res[8].RawPosition, ShouldEqual, "fs")
			So(val(res[8].Percentiles.RAS), ShouldEqual, float64(100))
		})

		Convey("Then an unrecognized position should be kept but not scored", func() {
			lb := res[7]
			So(lb.PositionRecognized, ShouldBeFalse)
			So(lb.Issues, ShouldContain, model.IssueUnrecognizedPosition)
			So(lb.Rates.CollegeTackling.Defined(), ShouldBeTrue)
			So(lb.Percentiles.RAS.Defined(), ShouldBeFalse)
			So(lb.Scores.Composite.Defined(), ShouldBeFalse)
			So(lb.Ranks.Composite.Defined(), ShouldBeFalse)
			So(lb.Category, ShouldEqual, category.DefaultLabel)
		})

		Convey("Then it should not join any pool", func() {
			So(val(res[0].Percentiles.RAS), ShouldAlmostEqual, 85.714, 0.001)
		})

		Convey("Then a record with no data should still get a label", func() {
			b := res[9]
			So(b.Scores.Composite.Defined(), ShouldBeFalse)
			So(b.Ranks.Athletic.Defined(), ShouldBeFalse)
			So(b.Category, ShouldEqual, category.DefaultLabel)
			So(b.Issues, ShouldResemble, []string{
				model.IssueMissingRAS, model.IssueNoCollegeSample, model.IssueInsufficientNFLSample,
			})
		})
	})
}

func TestRunContract(t *testing.T) {
	Convey("Given an evaluator", t, func() {
		s := evaluation.DefaultSettings()
		s.Workers = 4
		e := mustEvaluator(s)
		recs := append(cohort("CB", 9), cohort("SAF", 6)...)

		Convey("When the same batch is evaluated twice", func() {
			a, err := e.Evaluate(context.Background(), recs)
			So(err, ShouldBeNil)
			b, err := e.Evaluate(context.Background(), recs)
			So(err, ShouldBeNil)

			Convey("Then the encoded output should be byte-identical", func() {
				ja, err := json.Marshal(a)
				So(err, ShouldBeNil)
				jb, err := json.Marshal(b)
				So(err, ShouldBeNil)
				So(string(ja), ShouldEqual, string(jb))
			})
		})

		Convey("When two records share an id", func() {
			dup := append(recs, recs[3])
			res, err := e.Evaluate(context.Background(), dup)

			Convey("Then the run should abort with no rows", func() {
				So(errors.Is(err, evaluation.ErrDuplicatePlayer), ShouldBeTrue)
				So(res, ShouldBeNil)
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			res, err := e.Evaluate(ctx, recs)

			Convey("Then the run should return the context error", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(res, ShouldBeNil)
			})
		})

		Convey("When the input is empty", func() {
			res, err := e.Evaluate(context.Background(), nil)
			So(err, ShouldBeNil)
			So(res, ShouldBeEmpty)
		})
	})
}
