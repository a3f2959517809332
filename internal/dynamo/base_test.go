package dynamo

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/twolayer/internal/units"
)

func TestBaseResetRequiresDrivers(t *testing.T) {
	var b Base

	if _, err := b.ResetState(); !errors.Is(err, ErrModelState) {
		t.Fatalf("expected ErrModelState, got %v", err)
	}

	if err := b.SetDrivers(units.A([]float64{1, math.NaN()}, "W/m^2")); err != nil {
		t.Fatalf("set drivers failed: %v", err)
	}
	if _, err := b.ResetState(); !errors.Is(err, ErrModelState) {
		t.Errorf("expected ErrModelState for NaN drivers, got %v", err)
	}

	if err := b.SetDrivers(units.A([]float64{1, 2, 3}, "W/m^2")); err != nil {
		t.Fatalf("set drivers failed: %v", err)
	}
	n, err := b.ResetState()
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 timesteps, got %d", n)
	}
}

func TestBaseSetDrivers(t *testing.T) {
	var b Base

	m, err := units.NewMatrix([][]float64{{1, 2}, {3, 4}}, units.MustParse("W/m^2"))
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetDrivers(m); !errors.Is(err, ErrNotOneDimensional) {
		t.Errorf("expected ErrNotOneDimensional, got %v", err)
	}

	var ue *units.UnitError
	if err := b.SetDrivers(units.A([]float64{1}, "m")); !errors.As(err, &ue) {
		t.Errorf("expected UnitError, got %v", err)
	}

	if err := b.SetDrivers(units.NewArray([]float64{1}, units.Unit{})); !errors.Is(err, units.ErrNotQuantity) {
		t.Errorf("expected ErrNotQuantity, got %v", err)
	}
}

func TestBaseDeltaT(t *testing.T) {
	var b Base

	if err := b.SetDeltaT(units.Q(1, "yr")); err != nil {
		t.Fatalf("set delta_t failed: %v", err)
	}
	if b.DeltaTMagnitude() != 365.25*86400 {
		t.Errorf("expected one year in seconds, got %f", b.DeltaTMagnitude())
	}

	if err := b.SetDeltaT(units.Q(-1, "yr")); err == nil {
		t.Error("expected negative timestep to fail")
	}
	if err := b.SetDeltaT(units.Quantity{Magnitude: 1}); !errors.Is(err, units.ErrNotQuantity) {
		t.Errorf("expected ErrNotQuantity, got %v", err)
	}
}

func TestRunStateTransitions(t *testing.T) {
	var s RunState

	if _, err := s.advance(); !errors.Is(err, ErrModelState) {
		t.Fatalf("expected ErrModelState before reset, got %v", err)
	}

	s.reset(2)
	if _, ok := s.Index(); ok {
		t.Error("index must be unset after reset")
	}
	if s.Phase() != Ready {
		t.Errorf("expected phase ready, got %s", s.Phase())
	}

	for want := 0; want < 2; want++ {
		got, err := s.advance()
		if err != nil {
			t.Fatalf("advance %d failed: %v", want, err)
		}
		if got != want {
			t.Errorf("expected index %d, got %d", want, got)
		}
	}

	if !s.Done() {
		t.Error("expected run to be done")
	}
	if _, err := s.advance(); !errors.Is(err, ErrModelState) {
		t.Errorf("expected ErrModelState past the end, got %v", err)
	}
}

func TestRunAllWrapsStep(t *testing.T) {
	calls := 0
	boom := errors.New("boom")

	err := RunAll(func() error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	}, 5)

	var se *StepError
	if !errors.As(err, &se) {
		t.Fatalf("expected StepError, got %v", err)
	}
	if se.Step != 2 {
		t.Errorf("expected failure at step 2, got %d", se.Step)
	}
	if !errors.Is(err, boom) {
		t.Error("expected wrapped error to be preserved")
	}
}

func TestNaNs(t *testing.T) {
	for i, v := range NaNs(4) {
		if !math.IsNaN(v) {
			t.Errorf("index %d: expected NaN, got %f", i, v)
		}
	}
}
