package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/twolayer/internal/dynamo"
)

type TickMsg time.Time

const (
	frameRate       = time.Second / 30
	maxStepsPerTick = 64
)

// Stepper is a Bubble Tea model driving a dynamo.Model step by step.
type Stepper struct {
	model  dynamo.Model
	times  []time.Time
	layout string

	running      bool
	stepsPerTick int
	err          error
	width        int
}

// NewStepper resets m and returns a paused stepper. times labels each
// timestep and must match the length of the model's drivers, which must
// already be set.
func NewStepper(m dynamo.Model, times []time.Time) (Stepper, error) {
	if err := m.Reset(); err != nil {
		return Stepper{}, err
	}
	if n := m.State().Len(); len(times) != n {
		return Stepper{}, fmt.Errorf("viz: %d time labels for %d timesteps", len(times), n)
	}
	return Stepper{
		model:        m,
		times:        times,
		layout:       timeLayout(times),
		stepsPerTick: 1,
		width:        80,
	}, nil
}

// timeLayout shows months once two timesteps fall in the same year.
func timeLayout(times []time.Time) string {
	for i := 1; i < len(times); i++ {
		if times[i].Year() == times[i-1].Year() {
			return "2006-01"
		}
	}
	return "2006"
}

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (s Stepper) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the model.
func (s Stepper) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return s, tea.Quit
		case " ":
			s.running = !s.running
		case "n":
			if !s.running {
				s.advance(1)
			}
		case "r":
			s.err = s.model.Reset()
		case "+", "=":
			if s.stepsPerTick < maxStepsPerTick {
				s.stepsPerTick *= 2
			}
		case "-", "_":
			if s.stepsPerTick > 1 {
				s.stepsPerTick /= 2
			}
		case "t":
			nextTheme()
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
	case TickMsg:
		if s.running {
			s.advance(s.stepsPerTick)
		}
		return s, tick()
	}
	return s, nil
}

func (s *Stepper) advance(n int) {
	for i := 0; i < n; i++ {
		if s.Done() {
			s.running = false
			return
		}
		if err := s.model.Step(); err != nil {
			s.err = err
			s.running = false
			return
		}
	}
}

// Done reports whether every timestep has been computed.
func (s Stepper) Done() bool {
	st := s.model.State()
	return st.Done() || st.Len() == 0
}

// Time returns the time point of the current timestep; ok is false
// before the first step.
func (s Stepper) Time() (time.Time, bool) {
	idx, ok := s.model.State().Index()
	if !ok {
		return time.Time{}, false
	}
	return s.times[idx], true
}

func (s Stepper) Err() error { return s.err }

// computed returns the stepped prefix of values.
func computed(values []float64, st dynamo.RunState) []float64 {
	idx, ok := st.Index()
	if !ok {
		return nil
	}
	return values[:idx+1]
}

// View renders the TUI interface.
func (s Stepper) View() string {
	st := currentStyles()
	state := s.model.State()

	temps := computed(s.model.SurfaceTemperature().Values, state)
	uptake := computed(s.model.HeatUptake().Values, state)

	var b strings.Builder
	b.WriteString(st.header.Render(strings.ToUpper(strings.ReplaceAll(s.model.Name(), "_", " "))) + "\n")

	status := "PAUSED"
	switch {
	case s.err != nil:
		status = st.warm.Render("ERROR: " + s.err.Error())
	case s.Done():
		status = "DONE"
	case s.running:
		status = fmt.Sprintf("RUNNING x%d", s.stepsPerTick)
	}
	b.WriteString(status + "\n\n")

	if len(temps) > 1 {
		width := s.width - 20
		if width < 20 {
			width = 20
		}
		chart := asciigraph.Plot(temps,
			asciigraph.Height(10),
			asciigraph.Width(width),
			asciigraph.Caption("surface temperature (delta_degC)"),
		)
		b.WriteString(st.panel.Render(chart) + "\n\n")
	}

	at := "-"
	if t, ok := s.Time(); ok {
		at = t.Format(s.layout)
	}
	b.WriteString(st.label.Render("Time") + st.value.Render(at) + "\n")
	b.WriteString(st.label.Render("Step") + st.value.Render(fmt.Sprintf("%d / %d", len(temps), state.Len())) + "\n")

	if len(temps) > 0 {
		t := temps[len(temps)-1]
		style := st.cool
		if t > 0 {
			style = st.warm
		}
		b.WriteString(st.label.Render("Temperature") + style.Render(fmt.Sprintf("%+.3f delta_degC", t)) + "\n")
		b.WriteString(st.label.Render("Heat uptake") + st.value.Render(fmt.Sprintf("%+.3f W/m^2", uptake[len(uptake)-1])) + "\n")
		b.WriteString(st.label.Render("Peak") + st.value.Render(fmt.Sprintf("%+.3f delta_degC", peak(temps))) + "\n")
	}

	b.WriteString(st.muted.Render("\nSP:Pause N:Step R:Reset +/-:Speed T:Theme Q:Quit"))
	return b.String()
}

func peak(vs []float64) float64 {
	p := math.Inf(-1)
	for _, v := range vs {
		p = math.Max(p, v)
	}
	return p
}
