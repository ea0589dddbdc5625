package balance_test

import (
	"testing"

	"github.com/okian/cancha/internal/domain/balance"
	"github.com/okian/cancha/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAssess(t *testing.T) {
	Convey("Given match setups with different gaps", t, func() {
		cases := []struct {
			diff  int
			label string
			score int
		}{
			{0, "perfect", 100},
			{1, "perfect", 100},
			{3, "excellent", 90},
			{5, "good", 75},
			{8, "fair", 60},
			{9, "unbalanced", 40},
		}

		Convey("Then each gap lands in its band", func() {
			for _, c := range cases {
				got := balance.Assess(model.MatchSetup{OvrDifference: c.diff})
				So(got.Label, ShouldEqual, c.label)
				So(got.Score, ShouldEqual, c.score)
				So(got.OvrDifference, ShouldEqual, c.diff)
			}
		})
	})

	Convey("Given a balanced setup", t, func() {
		b := balance.NewBalancer()
		players := pool(80, 70, 60, 50)
		players[0].Attributes.Sho = 99
		setup, err := b.Balance(players, 2)
		So(err, ShouldBeNil)

		got := balance.Assess(setup)

		Convey("Then attribute gaps compare team averages", func() {
			// A = {80 (sho 99), 60}, B = {70, 50}
			So(got.AttributeGaps["sho"], ShouldEqual, 20)
			So(got.AttributeGaps["pac"], ShouldEqual, 10)
			So(got.AttributeGaps, ShouldHaveLength, model.AttributeCount)
		})
	})
}
