package tier_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/okian/secondary/internal/domain/tier"
	"github.com/okian/secondary/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClassify(t *testing.T) {
	Convey("Given the default thresholds", t, func() {
		th := tier.Default()

		Convey("When classifying values around the cut points", func() {
			Convey("Then boundaries should be inclusive on the lower edge", func() {
				So(th.Classify(types.Some(100)), ShouldEqual, tier.High)
				So(th.Classify(types.Some(66.67)), ShouldEqual, tier.High)
				So(th.Classify(types.Some(66.66)), ShouldEqual, tier.Medium)
				So(th.Classify(types.Some(33.33)), ShouldEqual, tier.Medium)
				So(th.Classify(types.Some(33.32)), ShouldEqual, tier.Low)
				So(th.Classify(types.Some(0)), ShouldEqual, tier.Low)
			})
		})

		Convey("When classifying an undefined value", func() {
			Convey("Then the tier should be Unknown", func() {
				So(th.Classify(types.None()), ShouldEqual, tier.Unknown)
			})
		})

		Convey("When checking the elite cut", func() {
			Convey("Then it should apply only at or above 85", func() {
				ok, err := th.Meets(tier.Elite, types.Some(85))
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)

				ok, err = th.Meets(tier.Elite, types.Some(84.9))
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)

				ok, err = th.Meets(tier.Elite, types.None())
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a deployment moves the elite cut", func() {
			th.Named[tier.Elite] = 90

			Convey("Then the same score no longer qualifies", func() {
				ok, err := th.Meets("ELITE", types.Some(87))
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When asking for an unconfigured cut", func() {
			_, err := th.Meets("superstar", types.Some(99))

			Convey("Then it should fail", func() {
				So(errors.Is(err, tier.ErrUnknownThreshold), ShouldBeTrue)
			})
		})

		Convey("When resolving base cut names", func() {
			high, err := th.Cut("high")

			Convey("Then they should map to the base thresholds", func() {
				So(err, ShouldBeNil)
				So(high, ShouldEqual, tier.DefaultHigh)
			})
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given threshold validation", t, func() {
		Convey("When the defaults are validated", func() {
			Convey("Then they should pass", func() {
				So(tier.Default().Validate(), ShouldBeNil)
			})
		})

		Convey("When medium is above high", func() {
			th := tier.Thresholds{High: 40, Medium: 60}

			Convey("Then validation should fail", func() {
				So(errors.Is(th.Validate(), tier.ErrInvalidThresholds), ShouldBeTrue)
			})
		})

		Convey("When a named cut is out of range", func() {
			th := tier.Default()
			th.Named["elite"] = 140

			Convey("Then validation should fail", func() {
				So(errors.Is(th.Validate(), tier.ErrInvalidThresholds), ShouldBeTrue)
			})
		})

		Convey("When a cut point is not a number", func() {
			nan := math.NaN()
			cases := []func(*tier.Thresholds){
				func(th *tier.Thresholds) { th.High = nan },
				func(th *tier.Thresholds) { th.Medium = nan },
				func(th *tier.Thresholds) { th.Named["elite"] = nan },
			}

			Convey("Then validation should fail for each of them", func() {
				for _, set := range cases {
					th := tier.Default()
					set(&th)
					So(errors.Is(th.Validate(), tier.ErrInvalidThresholds), ShouldBeTrue)
				}
			})
		})
	})
}

func TestTierText(t *testing.T) {
	Convey("Given tier names", t, func() {
		Convey("When parsing names", func() {
			Convey("Then known names parse case-insensitively", func() {
				got, err := tier.Parse(" High ")
				So(err, ShouldBeNil)
				So(got, ShouldEqual, tier.High)

				got, err = tier.Parse("unknown")
				So(err, ShouldBeNil)
				So(got, ShouldEqual, tier.Unknown)
			})

			Convey("And unknown names fail", func() {
				_, err := tier.Parse("elite")
				So(errors.Is(err, tier.ErrUnknownTier), ShouldBeTrue)
			})
		})

		Convey("When encoding to JSON", func() {
			data, err := json.Marshal([]tier.Tier{tier.High, tier.Unknown})

			Convey("Then tiers should be strings", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, `["high","unknown"]`)
			})
		})
	})
}
