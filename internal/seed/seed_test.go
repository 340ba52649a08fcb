package seed_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/secondary/internal/domain/evaluation"
	"github.com/okian/secondary/internal/seed"
)

func TestGenerate(t *testing.T) {
	Convey("Given the default config", t, func() {
		ctx := context.Background()
		cfg := seed.DefaultConfig()

		Convey("When generating twice", func() {
			a, err := seed.Generate(ctx, cfg)
			So(err, ShouldBeNil)
			b, err := seed.Generate(ctx, cfg)
			So(err, ShouldBeNil)

			Convey("Then the output should be identical", func() {
				So(a, ShouldResemble, b)
				So(len(a), ShouldEqual, cfg.Players)
			})

			Convey("Then ids should be unique and stable", func() {
				seen := make(map[string]bool)
				for _, p := range a {
					So(seen[p.ID], ShouldBeFalse)
					seen[p.ID] = true
				}
				So(a[0].ID, ShouldEqual, seed.PlayerID(cfg.Seed, 0))
			})

			Convey("Then values should be within plausible ranges", func() {
				for _, p := range a {
					if ras, ok := p.RAS.Get(); ok {
						So(ras, ShouldBeBetweenOrEqual, 0, 10)
					}
					So(p.College.Seasons.Defined(), ShouldBeTrue)
					if p.Draft.Round > 0 {
						So(p.Draft.Round, ShouldBeLessThanOrEqualTo, 7)
						So(p.Draft.Pick(), ShouldStartWith, "R")
					}
				}
			})

			Convey("Then the evaluator should accept the batch", func() {
				ev, err := evaluation.New(evaluation.DefaultSettings())
				So(err, ShouldBeNil)
				results, err := ev.Evaluate(ctx, a)
				So(err, ShouldBeNil)
				So(len(results), ShouldEqual, len(a))
				for _, r := range results {
					So(r.PositionRecognized, ShouldBeTrue)
				}
			})
		})

		Convey("When the seed changes", func() {
			other := cfg
			other.Seed = 2
			a, _ := seed.Generate(ctx, cfg)
			b, _ := seed.Generate(ctx, other)

			Convey("Then the players should differ", func() {
				So(a[0].ID, ShouldNotEqual, b[0].ID)
			})
		})

		Convey("When the config is invalid", func() {
			bad := cfg
			bad.Positions = nil
			_, err := seed.Generate(ctx, bad)

			Convey("Then ErrInvalidConfig should be returned", func() {
				So(errors.Is(err, seed.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := seed.Generate(cctx, cfg)

			Convey("Then the cancellation should surface", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}
