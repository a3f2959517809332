package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "two_layer" {
		t.Errorf("expected model two_layer, got %s", cfg.Model)
	}
	if cfg.Forcing.End <= cfg.Forcing.Start {
		t.Error("forcing should span at least one year")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("two_layer", "shallow")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Parameters["du"] != "25 m" {
		t.Errorf("expected du 25 m, got %s", cfg.Parameters["du"])
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("two_layer", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "default") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("impulse_response")
	expected := []string{"default", "efficacy", "fast"}
	if len(presets) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, presets)
	}
	for i := range expected {
		if presets[i] != expected[i] {
			t.Errorf("index %d: expected %s, got %s", i, expected[i], presets[i])
		}
	}

	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestQuantities(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Preset = "shallow"
	cfg.Parameters = map[string]string{"du": "40 m", "eta": "0.7 W/m^2/delta_degC"}

	q, err := cfg.Quantities()
	if err != nil {
		t.Fatalf("quantities failed: %v", err)
	}

	tests := []struct {
		name string
		mag  float64
		unit string
	}{
		{"du", 40, "m"},
		{"dl", 600, "m"},
		{"eta", 0.7, "W/m^2/delta_degC"},
	}
	for _, tt := range tests {
		got, ok := q[tt.name]
		if !ok {
			t.Errorf("%s: missing", tt.name)
			continue
		}
		if got.Magnitude != tt.mag || got.Unit.String() != tt.unit {
			t.Errorf("%s: expected %v %s, got %v %s", tt.name, tt.mag, tt.unit, got.Magnitude, got.Unit)
		}
	}
}

func TestQuantitiesErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Preset = "missing"
	if _, err := cfg.Quantities(); err == nil {
		t.Error("expected error for unknown preset")
	}

	cfg = DefaultConfig()
	cfg.Parameters = map[string]string{"du": "fifty m"}
	if _, err := cfg.Quantities(); err == nil {
		t.Error("expected error for malformed quantity")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Model = "impulse_response"
	cfg.Preset = "fast"
	cfg.Forcing.Kind = ForcingAbrupt
	cfg.Workers = 3

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Model != cfg.Model || loaded.Preset != cfg.Preset || loaded.Workers != 3 {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
	if loaded.Forcing.Kind != ForcingAbrupt {
		t.Errorf("expected abrupt forcing, got %s", loaded.Forcing.Kind)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("model: impulse_response\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Forcing.Start != DefaultStartYear {
		t.Errorf("expected default start year, got %d", cfg.Forcing.Start)
	}
}

func TestForcingScenarios(t *testing.T) {
	f := DefaultConfig().Forcing
	f.End = 1760

	ss, err := f.Scenarios()
	if err != nil {
		t.Fatalf("scenarios failed: %v", err)
	}
	if len(ss) != 1 || len(ss[0].Values) != 11 {
		t.Errorf("expected one series of 11 years, got %d", len(ss))
	}

	f.Kind = ForcingCSV
	f.Path = filepath.Join(t.TempDir(), "missing.csv")
	if _, err := f.Scenarios(); err == nil {
		t.Error("expected error for missing file")
	}

	f.Kind = "volcanic"
	if _, err := f.Scenarios(); err == nil {
		t.Error("expected error for unknown forcing kind")
	}
}
