package report_test

import (
	"bytes"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/secondary/internal/domain/model"
	"github.com/okian/secondary/internal/domain/types"
	"github.com/okian/secondary/internal/report"
)

var labels = []string{"Elite", "Producer", "Prospect", "Developmental"}

func player(id, pos, category string, composite types.Value, rank types.Rank) model.Result {
	return model.Result{
		PlayerID:           id,
		DisplayName:        "Name " + id,
		Position:           pos,
		PositionRecognized: true,
		Category:           category,
		Draft:              model.Draft{Season: 2022, Round: 1, Overall: 15},
		Scores:             model.ScoreValues{Athletic: composite, Composite: composite},
		Ranks:              model.Ranks{Composite: rank},
	}
}

func ids(rs []model.Result) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.PlayerID
	}
	return out
}

func fixture() []model.Result {
	return []model.Result{
		player("dev", "CB", "Developmental", types.None(), types.Rank{}),
		player("p2", "SAF", "Prospect", types.Some(40), types.RankOf(2)),
		player("odd", "CB", "Mystery", types.Some(50), types.RankOf(3)),
		player("e1", "CB", "Elite", types.Some(90), types.RankOf(1)),
		player("p1", "SAF", "Prospect", types.Some(55), types.RankOf(1)),
		player("pr", "CB", "Producer", types.Some(70), types.RankOf(2)),
	}
}

func TestOrder(t *testing.T) {
	Convey("Given results from several categories", t, func() {
		in := fixture()

		Convey("When ordered for display", func() {
			out := report.Order(in, labels)

			Convey("Then categories should follow the label order with unknown labels last", func() {
				So(ids(out), ShouldResemble, []string{"e1", "pr", "p1", "p2", "dev", "odd"})
			})

			Convey("Then the input should be untouched", func() {
				So(in[0].PlayerID, ShouldEqual, "dev")
			})
		})

		Convey("When ranks tie across positions", func() {
			rs := []model.Result{
				player("b", "SAF", "Prospect", types.Some(50), types.RankOf(1)),
				player("a", "CB", "Prospect", types.Some(60), types.RankOf(1)),
				player("c", "CB", "Prospect", types.Some(60), types.RankOf(1)),
			}
			Convey("Then the higher composite then the id should break the tie", func() {
				So(ids(report.Order(rs, labels)), ShouldResemble, []string{"a", "c", "b"})
			})
		})
	})
}

func TestPrintRankings(t *testing.T) {
	Convey("Given a rankings table", t, func() {
		var buf bytes.Buffer
		So(report.PrintRankings(&buf, fixture(), labels), ShouldBeNil)
		out := buf.String()

		Convey("Then it should have a header and every player", func() {
			So(out, ShouldContainSubstring, "CATEGORY")
			for _, id := range []string{"e1", "pr", "p1", "p2", "dev", "odd"} {
				So(out, ShouldContainSubstring, "Name "+id)
			}
		})

		Convey("Then draft picks should be formatted", func() {
			So(out, ShouldContainSubstring, "R1 #15")
		})

		Convey("Then the elite player should come before the developmental one", func() {
			So(strings.Index(out, "Name e1"), ShouldBeLessThan, strings.Index(out, "Name dev"))
		})

		Convey("Then undefined values should print as a dash", func() {
			So(out, ShouldContainSubstring, "—")
		})
	})
}

func TestPrintCategorySummary(t *testing.T) {
	Convey("Given a category summary", t, func() {
		var buf bytes.Buffer
		So(report.PrintCategorySummary(&buf, fixture(), labels), ShouldBeNil)
		out := buf.String()

		Convey("Then it should list the distribution", func() {
			So(out, ShouldContainSubstring, "Prospect")
			So(out, ShouldContainSubstring, "33%")
		})

		Convey("Then it should list the position averages", func() {
			So(out, ShouldContainSubstring, "SAF")
			So(out, ShouldContainSubstring, "47.5")
			So(out, ShouldContainSubstring, "70.0")
		})
	})
}

func TestPrintTopPerCategory(t *testing.T) {
	Convey("Given more than three players in a category", t, func() {
		rs := []model.Result{
			player("a", "CB", "Prospect", types.Some(10), types.RankOf(4)),
			player("b", "CB", "Prospect", types.Some(40), types.RankOf(1)),
			player("c", "CB", "Prospect", types.Some(30), types.RankOf(2)),
			player("d", "CB", "Prospect", types.Some(20), types.RankOf(3)),
			player("n", "CB", "Prospect", types.None(), types.Rank{}),
		}
		var buf bytes.Buffer
		So(report.PrintTopPerCategory(&buf, rs, labels), ShouldBeNil)
		out := buf.String()

		Convey("Then only the top three composites should be shown", func() {
			So(out, ShouldContainSubstring, "Name b")
			So(out, ShouldContainSubstring, "Name c")
			So(out, ShouldContainSubstring, "Name d")
			So(out, ShouldNotContainSubstring, "Name a")
			So(out, ShouldNotContainSubstring, "Name n")
		})
	})
}
