package export

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/twolayer/internal/scenario"
)

var ErrNoSeries = errors.New("export: no series to plot")

const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 5 * vg.Inch
)

// Chart plots the scenarios whose variable is in variables (all of them
// when variables is empty) and saves the figure to path. The image format
// follows the extension: .png, .svg, .pdf, .eps, .jpg or .tif.
func Chart(path, title string, ss []scenario.Scenario, variables ...string) error {
	p, err := NewPlot(title, ss, variables...)
	if err != nil {
		return err
	}
	return p.Save(chartWidth, chartHeight, path)
}

// NewPlot builds the figure drawn by Chart.
func NewPlot(title string, ss []scenario.Scenario, variables ...string) (*plot.Plot, error) {
	want := make(map[string]bool, len(variables))
	for _, v := range variables {
		want[v] = true
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "year"
	p.Legend.Top = true

	var lines []interface{}
	for _, s := range ss {
		if len(want) > 0 && !want[s.Get(scenario.MetaVariable)] {
			continue
		}
		if len(s.Values) == 0 {
			continue
		}

		if p.Y.Label.Text == "" {
			p.Y.Label.Text = s.Get(scenario.MetaUnit)
		}
		lines = append(lines, label(s), points(s))
	}
	if len(lines) == 0 {
		return nil, ErrNoSeries
	}

	if err := plotutil.AddLines(p, lines...); err != nil {
		return nil, err
	}
	return p, nil
}

func label(s scenario.Scenario) string {
	l := s.Get(scenario.MetaVariable)
	if m := s.Get(scenario.MetaClimateModel); m != "" {
		l = fmt.Sprintf("%s [%s]", l, m)
	}
	if sc := s.Get(scenario.MetaScenario); sc != "" {
		l = fmt.Sprintf("%s %s", l, sc)
	}
	return l
}

func points(s scenario.Scenario) plotter.XYs {
	pts := make(plotter.XYs, 0, len(s.Values))
	for i, v := range s.Values {
		pts = append(pts, plotter.XY{X: DecimalYear(s.Times[i]), Y: v})
	}
	return pts
}

// DecimalYear converts t to a fractional year, 1850-07-02 is about 1850.5.
func DecimalYear(t time.Time) float64 {
	start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	return float64(t.Year()) + t.Sub(start).Seconds()/end.Sub(start).Seconds()
}
