package scenario

import (
	"math"
	"time"

	"github.com/san-kum/twolayer/internal/dynamo"
)

func syntheticMeta(name string) map[string]string {
	return map[string]string{
		MetaModel:    "synthetic",
		MetaScenario: name,
		MetaRegion:   RegionWorld,
		MetaVariable: dynamo.VarERF,
		MetaUnit:     "W/m^2",
	}
}

// SinusoidRamp is a yearly forcing from start to end inclusive: a 15 year
// oscillation of 0.3 W/m^2 on a ramp of 3 W/m^2 per 2500 years.
func SinusoidRamp(start, end int) Scenario {
	s := Scenario{Meta: syntheticMeta("sinusoid_ramp")}
	for y := start; y <= end; y++ {
		t := float64(y)
		s.Times = append(s.Times, Year(y))
		s.Values = append(s.Values, 0.3*math.Sin(t/15*2*math.Pi)+3.0*t/2500)
	}
	return s
}

// AbruptStep is zero before stepYear and level from stepYear on.
func AbruptStep(start, end, stepYear int, level float64) Scenario {
	s := Scenario{Meta: syntheticMeta("abrupt_step")}
	for y := start; y <= end; y++ {
		v := 0.0
		if y >= stepYear {
			v = level
		}
		s.Times = append(s.Times, Year(y))
		s.Values = append(s.Values, v)
	}
	return s
}

// Monthly spreads s over monthly time points, holding each yearly value
// for twelve months.
func Monthly(s Scenario) Scenario {
	out := Scenario{Meta: s.Clone().Meta}
	for i, t := range s.Times {
		for m := 0; m < 12; m++ {
			out.Times = append(out.Times, time.Date(t.Year(), time.Month(m+1), 1, 0, 0, 0, 0, time.UTC))
			out.Values = append(out.Values, s.Values[i])
		}
	}
	return out
}
