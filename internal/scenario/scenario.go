package scenario

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/san-kum/twolayer/internal/units"
)

// Metadata keys.
const (
	MetaModel        = "model"
	MetaScenario     = "scenario"
	MetaRegion       = "region"
	MetaVariable     = "variable"
	MetaUnit         = "unit"
	MetaClimateModel = "climate_model"
	MetaRunIdx       = "run_idx"
)

const RegionWorld = "World"

var (
	ErrNoWorldData     = errors.New("scenario: no World data available for driver variable")
	ErrUnknownTimestep = errors.New("scenario: could not decide on timestep for time axis")
	ErrMalformedTable  = errors.New("scenario: malformed table")
)

// Scenario is a labelled time series.
type Scenario struct {
	Meta   map[string]string
	Times  []time.Time
	Values []float64
}

// Year returns the start of a calendar year in UTC.
func Year(y int) time.Time {
	return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func (s Scenario) Clone() Scenario {
	c := Scenario{
		Meta:   make(map[string]string, len(s.Meta)),
		Times:  append([]time.Time(nil), s.Times...),
		Values: append([]float64(nil), s.Values...),
	}
	for k, v := range s.Meta {
		c.Meta[k] = v
	}
	return c
}

func (s Scenario) Get(key string) string { return s.Meta[key] }

// DropNaN returns a copy without the time points whose value is NaN.
func (s Scenario) DropNaN() Scenario {
	c := s.Clone()
	c.Times = c.Times[:0]
	c.Values = c.Values[:0]
	for i, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		c.Times = append(c.Times, s.Times[i])
		c.Values = append(c.Values, v)
	}
	return c
}

// Array attaches the unit named in the metadata to the values.
func (s Scenario) Array() (units.Array, error) {
	u, err := units.Parse(s.Meta[MetaUnit])
	if err != nil {
		return units.Array{}, err
	}
	return units.NewArray(append([]float64(nil), s.Values...), u), nil
}

// Filter returns the scenarios matching variable and region. An empty
// argument matches anything.
func Filter(ss []Scenario, variable, region string) []Scenario {
	var out []Scenario
	for _, s := range ss {
		if variable != "" && s.Meta[MetaVariable] != variable {
			continue
		}
		if region != "" && s.Meta[MetaRegion] != region {
			continue
		}
		out = append(out, s)
	}
	return out
}

// TimeAxis is the sorted union of the time points of ss.
func TimeAxis(ss []Scenario) []time.Time {
	seen := make(map[time.Time]bool)
	var out []time.Time
	for _, s := range ss {
		for _, t := range s.Times {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

var leadingColumns = []string{MetaClimateModel, MetaModel, MetaScenario, MetaRegion, MetaVariable, MetaUnit}

// MetaColumns lists every metadata key used by ss, well-known keys first
// and the rest sorted.
func MetaColumns(ss []Scenario) []string {
	keys := make(map[string]bool)
	for _, s := range ss {
		for k := range s.Meta {
			keys[k] = true
		}
	}

	var cols []string
	for _, k := range leadingColumns {
		if keys[k] {
			cols = append(cols, k)
			delete(keys, k)
		}
	}

	var rest []string
	for k := range keys {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(cols, rest...)
}
