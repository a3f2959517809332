package models

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/twolayer/internal/dynamo"
	"github.com/san-kum/twolayer/internal/units"
)

var _ = Describe("ImpulseResponse", func() {
	var (
		model *ImpulseResponse
		erf   units.Array
	)

	BeforeEach(func() {
		var err error
		model, err = NewImpulseResponse(DefaultImpulseResponseParams())
		Expect(err).NotTo(HaveOccurred())
		erf = units.A([]float64{1, 2, 3, 4, 5}, "W/m^2")
	})

	Describe("construction", func() {
		DescribeTable("requires d1 < d2",
			func(d1, d2 float64) {
				p := DefaultImpulseResponseParams()
				p.D1 = units.Q(d1, "yr")
				p.D2 = units.Q(d2, "yr")

				_, err := NewImpulseResponse(p)
				Expect(err).To(MatchError(ErrTimescaleOrder))
			},
			Entry("equal timescales", 100.0, 100.0),
			Entry("swapped timescales", 400.0, 9.0),
		)

		It("compares timescales after unit conversion", func() {
			p := DefaultImpulseResponseParams()
			p.D1 = units.Q(500, "month")
			p.D2 = units.Q(40, "yr")
			_, err := NewImpulseResponse(p)
			Expect(err).To(MatchError(ErrTimescaleOrder))
		})

		DescribeTable("rejects parameters without a unit",
			func(name string) {
				p := DefaultImpulseResponseParams()
				Expect(p.Set(name, units.Quantity{Magnitude: 1})).To(Succeed())

				_, err := NewImpulseResponse(p)
				Expect(err).To(MatchError(units.ErrNotQuantity))
				Expect(err.Error()).To(Equal(name + " must be a quantity"))
			},
			Entry("q1", "q1"),
			Entry("q2", "q2"),
			Entry("d1", "d1"),
			Entry("d2", "d2"),
			Entry("efficacy", "efficacy"),
			Entry("delta_t", "delta_t"),
		)

		DescribeTable("rejects parameters with the wrong dimension",
			func(name, unit string) {
				p := DefaultImpulseResponseParams()
				Expect(p.Set(name, units.Q(1, unit))).To(Succeed())

				_, err := NewImpulseResponse(p)
				var ue *units.UnitError
				Expect(errors.As(err, &ue)).To(BeTrue())
				Expect(ue.Name).To(Equal(name))
			},
			Entry("q1 as a feedback", "q1", "W/m^2/delta_degC"),
			Entry("d2 in metres", "d2", "m"),
			Entry("efficacy in kelvin", "efficacy", "K"),
		)
	})

	Describe("integration", func() {
		It("starts every state array at zero", func() {
			Expect(runModel(model, erf)).To(Succeed())
			for _, s := range model.Outputs() {
				Expect(s.Values[0]).To(BeZero(), s.Variable)
			}
		})

		It("ignores the final driver value", func() {
			Expect(runModel(model, erf)).To(Succeed())
			before := model.Outputs()

			Expect(runModel(model, units.A([]float64{1, 2, 3, 4, -50}, "W/m^2"))).To(Succeed())
			after := model.Outputs()

			for i := range before {
				Expect(after[i].Values).To(Equal(before[i].Values))
			}
		})

		It("fills state with NaN and unsets the index on reset", func() {
			Expect(runModel(model, erf)).To(Succeed())
			Expect(model.Reset()).To(Succeed())

			_, ok := model.State().Index()
			Expect(ok).To(BeFalse())
			Expect(allNaN(model.Temp1().Values)).To(BeTrue())
			Expect(allNaN(model.Temp2().Values)).To(BeTrue())
			Expect(allNaN(model.HeatUptake().Values)).To(BeTrue())
		})

		It("relaxes each box exponentially", func() {
			Expect(runModel(model, erf)).To(Succeed())

			decay := math.Exp(-1.0 / 9)
			expected := 1 * 0.33 * (1 - decay)
			Expect(model.Temp1().Values[1]).To(BeNumerically("~", expected, 1e-12))

			expected = expected*decay + 2*0.33*(1-decay)
			Expect(model.Temp1().Values[2]).To(BeNumerically("~", expected, 1e-12))
		})

		It("sums both boxes into the surface temperature", func() {
			Expect(runModel(model, erf)).To(Succeed())
			t1, t2 := model.Temp1().Values, model.Temp2().Values
			for i, v := range model.SurfaceTemperature().Values {
				Expect(v).To(Equal(t1[i] + t2[i]))
			}
		})

		It("balances heat uptake against the implied feedback", func() {
			Expect(runModel(model, erf)).To(Succeed())
			lambda0 := 1 / (0.33 + 0.41)
			t1, t2 := model.Temp1().Values, model.Temp2().Values
			rndt := model.HeatUptake().Values
			for i := 1; i < len(rndt); i++ {
				Expect(rndt[i]).To(BeNumerically("~", erf.Values[i-1]-lambda0*(t1[i-1]+t2[i-1]), 1e-12))
			}
		})

		It("reduces heat uptake when efficacy exceeds one", func() {
			p := DefaultImpulseResponseParams()
			p.Efficacy = units.Q(1.2, "dimensionless")
			efficacious, err := NewImpulseResponse(p)
			Expect(err).NotTo(HaveOccurred())

			forcing := units.A(constant(50, 4), "W/m^2")
			Expect(runModel(model, forcing)).To(Succeed())
			Expect(runModel(efficacious, forcing)).To(Succeed())

			Expect(efficacious.HeatUptake().Values[49]).NotTo(BeNumerically("~", model.HeatUptake().Values[49], 1e-6))
			Expect(efficacious.SurfaceTemperature().Values).To(Equal(model.SurfaceTemperature().Values))
		})

		It("keeps the requested series names", func() {
			var names []string
			for _, s := range model.Outputs() {
				names = append(names, s.Variable)
			}
			Expect(names).To(Equal([]string{
				dynamo.VarSurfaceTemperatureBox1,
				dynamo.VarSurfaceTemperatureBox2,
				dynamo.VarSurfaceTemperature,
				dynamo.VarHeatUptake,
			}))
		})

		It("derives ECS from the summed sensitivities", func() {
			ecs, err := model.ECS(DefaultF2x)
			Expect(err).NotTo(HaveOccurred())
			Expect(ecs.Magnitude).To(BeNumerically("~", 3.74*(0.33+0.41), 1e-12))
		})
	})
})
