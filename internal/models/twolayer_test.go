package models

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/twolayer/internal/dynamo"
	"github.com/san-kum/twolayer/internal/units"
)

var _ = Describe("TwoLayer", func() {
	var (
		model *TwoLayer
		erf   units.Array
	)

	BeforeEach(func() {
		var err error
		model, err = NewTwoLayer(DefaultTwoLayerParams())
		Expect(err).NotTo(HaveOccurred())
		erf = units.A([]float64{1, 2, 3, 4, 5}, "W/m^2")
	})

	Describe("construction", func() {
		It("derives heat capacities from layer depths", func() {
			Expect(model.HeatCapacityUpper().Magnitude).To(BeNumerically("~", 50*1000*4181, 1e-6))
			Expect(model.HeatCapacityLower().Magnitude).To(BeNumerically("~", 1200*1000*4181, 1e-3))
		})

		DescribeTable("rejects parameters without a unit",
			func(name string) {
				p := DefaultTwoLayerParams()
				Expect(p.Set(name, units.Quantity{Magnitude: 1})).To(Succeed())

				_, err := NewTwoLayer(p)
				Expect(err).To(MatchError(units.ErrNotQuantity))
				Expect(err.Error()).To(Equal(name + " must be a quantity"))
			},
			Entry("du", "du"),
			Entry("dl", "dl"),
			Entry("lambda0", "lambda0"),
			Entry("a", "a"),
			Entry("efficacy", "efficacy"),
			Entry("eta", "eta"),
			Entry("delta_t", "delta_t"),
		)

		DescribeTable("rejects parameters with the wrong dimension",
			func(name, unit string) {
				p := DefaultTwoLayerParams()
				Expect(p.Set(name, units.Q(1, unit))).To(Succeed())

				_, err := NewTwoLayer(p)
				var ue *units.UnitError
				Expect(errors.As(err, &ue)).To(BeTrue())
				Expect(ue.Name).To(Equal(name))
				Expect(err.Error()).To(ContainSubstring("wrong units for `" + name + "`"))
			},
			Entry("du in seconds", "du", "s"),
			Entry("lambda0 in W/m^2", "lambda0", "W/m^2"),
			Entry("a with linear temperature", "a", "W/m^2/delta_degC"),
			Entry("eta in metres", "eta", "m"),
			Entry("delta_t in metres", "delta_t", "m"),
		)

		It("accepts compatible units", func() {
			p := DefaultTwoLayerParams()
			p.Du = units.Q(0.05, "km")
			p.DeltaT = units.Q(12, "month")

			m, err := NewTwoLayer(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.HeatCapacityUpper().Magnitude).To(BeNumerically("~", model.HeatCapacityUpper().Magnitude, 1e-3))
			Expect(m.DeltaTMagnitude()).To(BeNumerically("~", model.DeltaTMagnitude(), 1e-6))
		})

		It("rejects unknown parameter names", func() {
			p := DefaultTwoLayerParams()
			Expect(p.Set("q1", units.Q(1, "m"))).To(MatchError(ErrUnknownParameter))
		})
	})

	Describe("lifecycle", func() {
		It("fails to reset before drivers are set", func() {
			Expect(model.Reset()).To(MatchError(dynamo.ErrModelState))
		})

		It("fails to reset with NaN drivers", func() {
			Expect(model.SetDrivers(units.A([]float64{1, nan()}, "W/m^2"))).To(Succeed())
			Expect(model.Reset()).To(MatchError(dynamo.ErrModelState))
		})

		It("fails to step before reset", func() {
			Expect(model.SetDrivers(erf)).To(Succeed())
			Expect(model.Step()).To(MatchError(dynamo.ErrModelState))
		})

		It("rejects two-dimensional drivers", func() {
			m, err := units.NewMatrix([][]float64{{1, 2}, {3, 4}}, units.MustParse("W/m^2"))
			Expect(err).NotTo(HaveOccurred())
			Expect(model.SetDrivers(m)).To(MatchError(dynamo.ErrNotOneDimensional))
		})

		It("rejects drivers in the wrong unit", func() {
			var ue *units.UnitError
			Expect(errors.As(model.SetDrivers(units.A([]float64{1}, "W")), &ue)).To(BeTrue())
			Expect(ue.Name).To(Equal("erf"))
		})

		It("resets again after a full run", func() {
			Expect(runModel(model, erf)).To(Succeed())
			Expect(model.State().Done()).To(BeTrue())
			Expect(model.Step()).To(MatchError(dynamo.ErrModelState))
			Expect(model.Reset()).To(Succeed())
		})

		It("fills state with NaN and unsets the index on reset", func() {
			Expect(runModel(model, erf)).To(Succeed())
			Expect(model.Reset()).To(Succeed())

			_, ok := model.State().Index()
			Expect(ok).To(BeFalse())
			Expect(model.State().Phase()).To(Equal(dynamo.Ready))
			Expect(allNaN(model.TempUpper().Values)).To(BeTrue())
			Expect(allNaN(model.TempLower().Values)).To(BeTrue())
			Expect(allNaN(model.HeatUptake().Values)).To(BeTrue())
			Expect(model.TempUpper().Len()).To(Equal(erf.Len()))
		})

		It("resizes state when new drivers are set", func() {
			Expect(runModel(model, erf)).To(Succeed())
			Expect(runModel(model, units.A([]float64{1, 1}, "W/m^2"))).To(Succeed())
			Expect(model.HeatUptake().Len()).To(Equal(2))
		})

		It("allows stepping one timestep at a time", func() {
			Expect(model.SetDrivers(erf)).To(Succeed())
			Expect(model.Reset()).To(Succeed())
			Expect(model.Step()).To(Succeed())
			Expect(model.Step()).To(Succeed())

			idx, ok := model.State().Index()
			Expect(ok).To(BeTrue())
			Expect(idx).To(Equal(1))
			Expect(model.TempUpper().Values[1]).To(BeNumerically(">", 0))
			Expect(allNaN(model.TempUpper().Values[2:])).To(BeTrue())
		})
	})

	Describe("integration", func() {
		It("starts every state array at zero", func() {
			Expect(runModel(model, erf)).To(Succeed())
			Expect(model.TempUpper().Values[0]).To(BeZero())
			Expect(model.TempLower().Values[0]).To(BeZero())
			Expect(model.HeatUptake().Values[0]).To(BeZero())
		})

		It("ignores the final driver value", func() {
			Expect(runModel(model, erf)).To(Succeed())
			before := model.Outputs()

			changed := units.A([]float64{1, 2, 3, 4, 500}, "W/m^2")
			Expect(runModel(model, changed)).To(Succeed())
			after := model.Outputs()

			for i := range before {
				Expect(after[i].Values).To(Equal(before[i].Values))
			}
		})

		It("takes one forward Euler step from rest", func() {
			Expect(runModel(model, erf)).To(Succeed())

			dt := model.DeltaTMagnitude()
			cu := model.HeatCapacityUpper().Magnitude
			Expect(model.TempUpper().Values[1]).To(BeNumerically("~", dt*1/cu, 1e-12))
			Expect(model.TempLower().Values[1]).To(BeZero())
			Expect(model.HeatUptake().Values[1]).To(BeNumerically("~", 1, 1e-9))
		})

		It("applies the state-dependent feedback", func() {
			p := DefaultTwoLayerParams()
			p.A = units.Q(0.05, "W/m^2/delta_degC^2")
			dependent, err := NewTwoLayer(p)
			Expect(err).NotTo(HaveOccurred())

			forcing := units.A(constant(200, 4), "W/m^2")
			Expect(runModel(model, forcing)).To(Succeed())
			Expect(runModel(dependent, forcing)).To(Succeed())

			// a > 0 weakens the restoring feedback as the surface warms.
			Expect(dependent.TempUpper().Values[199]).To(BeNumerically(">", model.TempUpper().Values[199]))
		})

		It("keeps the requested series names", func() {
			Expect(runModel(model, erf)).To(Succeed())
			var names []string
			for _, s := range model.Outputs() {
				names = append(names, s.Variable)
			}
			Expect(names).To(Equal([]string{
				dynamo.VarSurfaceTemperatureUpper,
				dynamo.VarSurfaceTemperatureLower,
				dynamo.VarHeatUptake,
			}))
		})

		It("stops with a step error when a shallow upper layer diverges", func() {
			p := DefaultTwoLayerParams()
			p.Du = units.Q(1, "m")
			shallow, err := NewTwoLayer(p)
			Expect(err).NotTo(HaveOccurred())

			err = runModel(shallow, sinusoidRamp())
			Expect(err).To(MatchError(dynamo.ErrDiverged))

			var se *dynamo.StepError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.Step).To(BeNumerically(">", 1))
			Expect(se.Step).To(BeNumerically("<", 750))
		})

		It("reports an ECS of three degrees by default", func() {
			ecs, err := model.ECS(DefaultF2x)
			Expect(err).NotTo(HaveOccurred())
			Expect(ecs.Magnitude).To(BeNumerically("~", 3, 1e-12))
		})
	})
})
