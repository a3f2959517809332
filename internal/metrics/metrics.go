package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/twolayer/internal/dynamo"
)

// Sample is one timestep of model output.
type Sample struct {
	Index       int
	Temperature float64 // delta_degC
	HeatUptake  float64 // W/m^2
}

// Metric accumulates a diagnostic over the samples of a run.
type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Evaluate feeds every computed timestep of m through the metrics and
// returns their values by name. Timesteps not yet stepped are skipped.
func Evaluate(m dynamo.Model, ms ...Metric) map[string]float64 {
	return EvaluateSeries(m.SurfaceTemperature().Values, m.HeatUptake().Values, ms...)
}

// EvaluateSeries is Evaluate over plain temperature and heat uptake series.
func EvaluateSeries(temps, uptake []float64, ms ...Metric) map[string]float64 {
	for _, metric := range ms {
		metric.Reset()
	}
	for i := range temps {
		if math.IsNaN(temps[i]) {
			continue
		}
		s := Sample{Index: i, Temperature: temps[i]}
		if i < len(uptake) {
			s.HeatUptake = uptake[i]
		}
		for _, metric := range ms {
			metric.Observe(s)
		}
	}

	out := make(map[string]float64, len(ms))
	for _, metric := range ms {
		out[metric.Name()] = metric.Value()
	}
	return out
}

// DefaultMetrics is the set reported after a run.
func DefaultMetrics() []Metric {
	return []Metric{
		NewPeakWarming(),
		NewFinalWarming(),
		NewMeanHeatUptake(),
	}
}

// MaxDeviation is the largest absolute difference between two series of
// equal length.
func MaxDeviation(a, b []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	return floats.Distance(a, b, math.Inf(1))
}

type PeakWarming struct {
	name    string
	peak    float64
	samples int
}

func NewPeakWarming() *PeakWarming {
	return &PeakWarming{name: "peak_warming"}
}

func (p *PeakWarming) Name() string { return p.name }

func (p *PeakWarming) Observe(s Sample) {
	if p.samples == 0 || s.Temperature > p.peak {
		p.peak = s.Temperature
	}
	p.samples++
}

func (p *PeakWarming) Value() float64 {
	if p.samples == 0 {
		return math.NaN()
	}
	return p.peak
}

func (p *PeakWarming) Reset() {
	p.peak = 0
	p.samples = 0
}

type FinalWarming struct {
	name    string
	last    float64
	samples int
}

func NewFinalWarming() *FinalWarming {
	return &FinalWarming{name: "final_warming"}
}

func (f *FinalWarming) Name() string { return f.name }

func (f *FinalWarming) Observe(s Sample) {
	f.last = s.Temperature
	f.samples++
}

func (f *FinalWarming) Value() float64 {
	if f.samples == 0 {
		return math.NaN()
	}
	return f.last
}

func (f *FinalWarming) Reset() {
	f.last = 0
	f.samples = 0
}

type MeanHeatUptake struct {
	name    string
	sum     float64
	samples int
}

func NewMeanHeatUptake() *MeanHeatUptake {
	return &MeanHeatUptake{name: "mean_heat_uptake"}
}

func (m *MeanHeatUptake) Name() string { return m.name }

func (m *MeanHeatUptake) Observe(s Sample) {
	m.sum += s.HeatUptake
	m.samples++
}

func (m *MeanHeatUptake) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanHeatUptake) Reset() {
	m.sum = 0
	m.samples = 0
}

// WarmingAt records the temperature at a single timestep index.
type WarmingAt struct {
	name  string
	index int
	value float64
	seen  bool
}

func NewWarmingAt(name string, index int) *WarmingAt {
	return &WarmingAt{name: name, index: index}
}

func (w *WarmingAt) Name() string { return w.name }

func (w *WarmingAt) Observe(s Sample) {
	if s.Index == w.index {
		w.value = s.Temperature
		w.seen = true
	}
}

func (w *WarmingAt) Value() float64 {
	if !w.seen {
		return math.NaN()
	}
	return w.value
}

func (w *WarmingAt) Reset() {
	w.value = 0
	w.seen = false
}
