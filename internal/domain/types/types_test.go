package types_test

import (
	"encoding/json"
	"math"
	"testing"

	types "github.com/okian/secondary/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestValue(t *testing.T) {
	Convey("Given optional values", t, func() {
		Convey("When using the zero value", func() {
			var v types.Value

			Convey("Then it should be undefined", func() {
				So(v.Defined(), ShouldBeFalse)
				_, ok := v.Get()
				So(ok, ShouldBeFalse)
				So(v.Ptr(), ShouldBeNil)
				So(v.Or(-1), ShouldEqual, -1)
				So(v.String(), ShouldEqual, "undefined")
			})
		})

		Convey("When wrapping zero", func() {
			v := types.Some(0)

			Convey("Then it should stay distinct from undefined", func() {
				So(v.Defined(), ShouldBeTrue)
				got, ok := v.Get()
				So(ok, ShouldBeTrue)
				So(got, ShouldEqual, 0)
			})
		})

		Convey("When wrapping NaN or infinity", func() {
			Convey("Then the value should be undefined", func() {
				So(types.Some(math.NaN()).Defined(), ShouldBeFalse)
				So(types.Some(math.Inf(1)).Defined(), ShouldBeFalse)
			})
		})

		Convey("When converting from pointers", func() {
			x := 4.5

			Convey("Then nil maps to undefined", func() {
				So(types.FromPtr(nil).Defined(), ShouldBeFalse)
				So(types.FromPtr(&x).Or(0), ShouldEqual, 4.5)
			})
		})

		Convey("When encoding to JSON", func() {
			payload := struct {
				A types.Value `json:"a"`
				B types.Value `json:"b"`
			}{A: types.Some(85.5)}
			data, err := json.Marshal(payload)

			Convey("Then undefined values should be null", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, `{"a":85.5,"b":null}`)
			})

			Convey("And decoding should restore both states", func() {
				var back struct {
					A types.Value `json:"a"`
					B types.Value `json:"b"`
				}
				So(json.Unmarshal(data, &back), ShouldBeNil)
				So(back.A.Or(0), ShouldEqual, 85.5)
				So(back.B.Defined(), ShouldBeFalse)
			})
		})
	})
}

func TestRank(t *testing.T) {
	Convey("Given optional ranks", t, func() {
		Convey("When the rank is undefined", func() {
			var r types.Rank
			data, err := json.Marshal(r)

			Convey("Then it should encode as null", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, "null")
				So(r.Ptr(), ShouldBeNil)
			})
		})

		Convey("When the rank is defined", func() {
			r := types.RankOf(3)
			n, ok := r.Get()

			Convey("Then it should expose the position", func() {
				So(ok, ShouldBeTrue)
				So(n, ShouldEqual, 3)
				So(*r.Ptr(), ShouldEqual, 3)
			})
		})
	})
}
