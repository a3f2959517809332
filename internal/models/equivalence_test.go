package models

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/twolayer/internal/units"
)

func roundTripParams(efficacy float64) ImpulseResponseParams {
	return ImpulseResponseParams{
		Q1:       units.Q(0.3, "delta_degC/(W/m^2)"),
		Q2:       units.Q(0.4, "delta_degC/(W/m^2)"),
		D1:       units.Q(3, "yr"),
		D2:       units.Q(300, "yr"),
		Efficacy: units.Q(efficacy, "dimensionless"),
		DeltaT:   units.Q(1, "yr"),
	}
}

func relClose(actual, expected float64) {
	ExpectWithOffset(1, actual).To(BeNumerically("~", expected, 1e-9*expected))
}

var _ = Describe("Parameter equivalence", func() {
	Describe("TwoLayerToImpulseResponse", func() {
		It("solves the default two-layer system", func() {
			ir, err := TwoLayerToImpulseResponse(DefaultTwoLayerParams())
			Expect(err).NotTo(HaveOccurred())

			Expect(ir.Q1.Magnitude).To(BeNumerically("~", 0.48235, 1e-4))
			Expect(ir.Q2.Magnitude).To(BeNumerically("~", 0.31979, 1e-4))
			Expect(ir.D1.Unit.String()).To(Equal("yr"))
			Expect(ir.D1.Magnitude).To(BeNumerically("~", 3.216, 1e-3))
			Expect(ir.D2.Magnitude).To(BeNumerically("~", 328.36, 1e-2))
			Expect(ir.D1.Magnitude).To(BeNumerically("<", ir.D2.Magnitude))
		})

		It("carries efficacy and timestep through", func() {
			p := DefaultTwoLayerParams()
			p.Efficacy = units.Q(1.3, "dimensionless")
			p.DeltaT = units.Q(1, "month")

			ir, err := TwoLayerToImpulseResponse(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(ir.Efficacy).To(Equal(p.Efficacy))
			Expect(ir.DeltaT).To(Equal(p.DeltaT))
		})

		It("refuses state-dependent feedback", func() {
			p := DefaultTwoLayerParams()
			p.A = units.Q(0.1, "W/m^2/delta_degC^2")

			_, err := TwoLayerToImpulseResponse(p)
			Expect(err).To(MatchError(ErrStateDependence))

			m, err := NewTwoLayer(p)
			Expect(err).NotTo(HaveOccurred())
			_, err = m.ImpulseResponseParameters()
			Expect(err).To(MatchError(ErrStateDependence))
		})

		It("validates units before converting", func() {
			p := DefaultTwoLayerParams()
			p.Eta = units.Quantity{Magnitude: 0.8}
			_, err := TwoLayerToImpulseResponse(p)
			Expect(err).To(MatchError(units.ErrNotQuantity))
		})
	})

	Describe("ImpulseResponseToTwoLayer", func() {
		It("returns a system without state dependence", func() {
			tl, err := ImpulseResponseToTwoLayer(DefaultImpulseResponseParams())
			Expect(err).NotTo(HaveOccurred())
			Expect(tl.A.Magnitude).To(BeZero())
			Expect(tl.Du.Magnitude).To(BeNumerically(">", 0))
			Expect(tl.Dl.Magnitude).To(BeNumerically(">", tl.Du.Magnitude))

			_, err = NewTwoLayer(tl)
			Expect(err).NotTo(HaveOccurred())
		})

		It("recovers the default two-layer parameters", func() {
			ir, err := TwoLayerToImpulseResponse(DefaultTwoLayerParams())
			Expect(err).NotTo(HaveOccurred())

			tl, err := ImpulseResponseToTwoLayer(ir)
			Expect(err).NotTo(HaveOccurred())
			relClose(tl.Du.Magnitude, 50)
			relClose(tl.Dl.Magnitude, 1200)
			relClose(tl.Lambda0.Magnitude, 3.74/3)
			relClose(tl.Eta.Magnitude, 0.8)
		})
	})

	DescribeTable("round-trips impulse-response parameters",
		func(efficacy float64) {
			start := roundTripParams(efficacy)

			tl, err := ImpulseResponseToTwoLayer(start)
			Expect(err).NotTo(HaveOccurred())
			end, err := TwoLayerToImpulseResponse(tl)
			Expect(err).NotTo(HaveOccurred())

			relClose(end.Q1.Magnitude, 0.3)
			relClose(end.Q2.Magnitude, 0.4)
			relClose(end.D1.Magnitude, 3)
			relClose(end.D2.Magnitude, 300)
			Expect(end.Efficacy.Magnitude).To(Equal(efficacy))
		},
		Entry("unit efficacy", 1.0),
		Entry("efficacy 1.2", 1.2),
	)

	DescribeTable("keeps the amplitude sum at one",
		func(q1, q2 float64) {
			p := roundTripParams(1)
			p.Q1 = units.Q(q1, "delta_degC/(W/m^2)")
			p.Q2 = units.Q(q2, "delta_degC/(W/m^2)")

			sum, err := AmplitudeSum(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(sum).To(BeNumerically("~", 1, 1e-15))
		},
		Entry("defaults", 0.33, 0.41),
		Entry("round trip", 0.3, 0.4),
		Entry("uneven", 1e-3, 7.5),
	)

	DescribeTable("matches output across models",
		func(efficacy float64) {
			p := DefaultTwoLayerParams()
			p.Efficacy = units.Q(efficacy, "dimensionless")

			twoLayer, err := NewTwoLayer(p)
			Expect(err).NotTo(HaveOccurred())
			irParams, err := twoLayer.ImpulseResponseParameters()
			Expect(err).NotTo(HaveOccurred())
			impulse, err := NewImpulseResponse(irParams)
			Expect(err).NotTo(HaveOccurred())

			erf := sinusoidRamp()
			Expect(runModel(twoLayer, erf)).To(Succeed())
			Expect(runModel(impulse, erf)).To(Succeed())

			Expect(twoLayer.ERF().Values).To(Equal(impulse.ERF().Values))
			Expect(maxAbsDiff(twoLayer.SurfaceTemperature().Values, impulse.SurfaceTemperature().Values)).To(BeNumerically("<", 0.1))
			Expect(maxAbsDiff(twoLayer.HeatUptake().Values, impulse.HeatUptake().Values)).To(BeNumerically("<", 0.1))
		},
		Entry("unit efficacy", 1.0),
		Entry("efficacy 1.2", 1.2),
	)
})
