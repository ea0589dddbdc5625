package improvement_test

import (
	"errors"
	"testing"

	"github.com/okian/cancha/internal/domain/improvement"
	"github.com/okian/cancha/internal/domain/model"
	"github.com/okian/cancha/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func defender() *model.Player {
	attrs := model.AttributeSet{Pac: 60, Sho: 40, Pas: 60, Dri: 50, Def: 70, Phy: 70}
	return &model.Player{ID: "d1", Name: "Obdulio", Position: model.Defender, Attributes: attrs, Ovr: rating.Compute(attrs, model.Defender)}
}

func TestApply(t *testing.T) {
	Convey("Given a defender who has never been evaluated", t, func() {
		p := defender()
		So(p.Ovr, ShouldEqual, 67)

		Convey("When growth is applied", func() {
			var d model.Delta
			d.Add(model.Defending, 5)
			out, err := improvement.Apply(p, d)

			Convey("Then attributes grow and the OVR is recomputed", func() {
				So(err, ShouldBeNil)
				So(p.Attributes.Def, ShouldEqual, 75)
				So(p.Ovr, ShouldEqual, 69)
				So(out, ShouldResemble, improvement.Outcome{PlayerID: "d1", PreviousOvr: 67, NewOvr: 69, FirstEvaluation: true})
				So(out.Growth(), ShouldEqual, 2)
			})

			Convey("Then the original OVR is snapshotted", func() {
				So(p.HasBeenEvaluated, ShouldBeTrue)
				So(p.OriginalOvr, ShouldEqual, 67)
				So(p.Growth(), ShouldEqual, 2)
			})

			Convey("And when growth is applied again", func() {
				out, err := improvement.Apply(p, d)

				Convey("Then the snapshot is kept", func() {
					So(err, ShouldBeNil)
					So(out.FirstEvaluation, ShouldBeFalse)
					So(p.Attributes.Def, ShouldEqual, 80)
					So(p.Ovr, ShouldEqual, 71)
					So(p.OriginalOvr, ShouldEqual, 67)
					So(p.Growth(), ShouldEqual, 4)
				})
			})
		})

		Convey("When an empty delta is applied", func() {
			out, err := improvement.Apply(p, model.Delta{})

			Convey("Then only the evaluation snapshot changes", func() {
				So(err, ShouldBeNil)
				So(out.Growth(), ShouldEqual, 0)
				So(p.HasBeenEvaluated, ShouldBeTrue)
				So(p.OriginalOvr, ShouldEqual, 67)
				So(p.Attributes, ShouldResemble, defender().Attributes)
			})
		})

		Convey("When the delta is negative", func() {
			var d model.Delta
			d.Add(model.Pace, -3)
			_, err := improvement.Apply(p, d)

			Convey("Then the player is untouched", func() {
				So(errors.Is(err, improvement.ErrNegativeDelta), ShouldBeTrue)
				So(p, ShouldResemble, defender())
			})
		})

		Convey("When the player holds an out of range attribute", func() {
			p.Attributes.Phy = 0
			_, err := improvement.Apply(p, model.Delta{1, 1, 1, 1, 1, 1})

			Convey("Then InvalidAttributeValue is returned and nothing changes", func() {
				So(errors.Is(err, rating.ErrInvalidAttributeValue), ShouldBeTrue)
				So(p.HasBeenEvaluated, ShouldBeFalse)
				So(p.Attributes.Pac, ShouldEqual, 60)
			})
		})
	})

	Convey("Given a forward near the cap", t, func() {
		attrs := model.AttributeSet{Pac: 95, Sho: 95, Pas: 95, Dri: 95, Def: 95, Phy: 95}
		p := &model.Player{ID: "f1", Position: model.Forward, Attributes: attrs, Ovr: rating.Compute(attrs, model.Forward)}
		So(p.Ovr, ShouldEqual, 95)

		Convey("When a large shooting delta is applied", func() {
			var d model.Delta
			d.Add(model.Shooting, 10)
			out, err := improvement.Apply(p, d)

			Convey("Then the attribute saturates at 99", func() {
				So(err, ShouldBeNil)
				So(p.Attributes.Sho, ShouldEqual, 99)
				So(p.Ovr, ShouldEqual, 96)
				So(out.NewOvr, ShouldEqual, 96)
			})
		})

		Convey("When every attribute grows past the cap", func() {
			_, err := improvement.Apply(p, model.Delta{20, 20, 20, 20, 20, 20})

			Convey("Then OVR tops out at 99", func() {
				So(err, ShouldBeNil)
				So(p.Attributes.Values(), ShouldResemble, [model.AttributeCount]int{99, 99, 99, 99, 99, 99})
				So(p.Ovr, ShouldEqual, 99)
			})
		})
	})
}
