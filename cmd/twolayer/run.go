package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/twolayer/internal/automation"
	"github.com/san-kum/twolayer/internal/config"
	"github.com/san-kum/twolayer/internal/experiment"
	"github.com/san-kum/twolayer/internal/scenario"
	"github.com/san-kum/twolayer/internal/storage"
	"github.com/san-kum/twolayer/internal/units"
	"github.com/san-kum/twolayer/internal/viz"
)

func runModel(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	overrides, err := cfg.Quantities()
	if err != nil {
		return err
	}

	drivers, err := cfg.Forcing.Scenarios()
	if err != nil {
		return err
	}

	exp := experiment.New(experiment.Config{
		Model:      cfg.Model,
		Parameters: overrides,
		Workers:    cfg.Workers,
	}, nil)

	fmt.Printf("running %s over %d series...\n", cfg.Model, len(drivers))
	start := time.Now()

	res, err := exp.Run(context.Background(), drivers)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	printResult(res)
	printKV("elapsed", elapsed)

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(res.Metadata(label), res.Outputs)
	if err != nil {
		return err
	}
	printKV("run id", runID)
	return nil
}

func printResult(res *experiment.Result) {
	fmt.Println(titleStyle.Render(res.Model))
	for _, p := range res.Parameters {
		printKV(p.Name, p.Value)
	}

	for _, s := range res.Summaries {
		fmt.Println()
		fmt.Println(titleStyle.Render(fmt.Sprintf("run %d: %s", s.RunIdx, s.Scenario)))

		names := make([]string, 0, len(s.Metrics))
		for name := range s.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			printKV(name, fmt.Sprintf("%.4f", s.Metrics[name]))
		}
	}
	fmt.Println()
}

func runScenarios(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[:1])
	if err != nil {
		return err
	}
	cfg.Forcing = config.ForcingConfig{Kind: config.ForcingCSV, Path: args[1]}

	overrides, err := cfg.Quantities()
	if err != nil {
		return err
	}
	drivers, err := cfg.Forcing.Scenarios()
	if err != nil {
		return err
	}

	res, err := experiment.New(experiment.Config{
		Model:      cfg.Model,
		Parameters: overrides,
		Workers:    cfg.Workers,
	}, nil).Run(context.Background(), drivers)
	if err != nil {
		return err
	}

	if outPath == "" {
		return scenario.WriteCSV(os.Stdout, res.Outputs)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := scenario.WriteCSV(f, res.Outputs); err != nil {
		return err
	}
	fmt.Printf("wrote %d series to %s\n", len(res.Outputs), outPath)
	return nil
}

// buildModel constructs the configured model with its drivers set from the
// first World forcing series.
func buildModel(cfg *config.Config) (experiment.DrivenModel, error) {
	overrides, err := cfg.Quantities()
	if err != nil {
		return experiment.DrivenModel{}, err
	}
	drivers, err := cfg.Forcing.Scenarios()
	if err != nil {
		return experiment.DrivenModel{}, err
	}
	return experiment.NewRegistry().Drive(cfg.Model, overrides, drivers)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	dm, err := buildModel(cfg)
	if err != nil {
		return err
	}

	viz.SetTheme(theme)
	stepper, err := viz.NewStepper(dm.Model, dm.Driver.Times)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(stepper).Run()
	if err != nil {
		return err
	}
	if s, ok := final.(viz.Stepper); ok && s.Err() != nil {
		return s.Err()
	}
	return nil
}

func listModels(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	for _, name := range registry.ListModels() {
		ps, err := registry.DefaultParameters(name)
		if err != nil {
			return err
		}
		fmt.Println(titleStyle.Render(name))
		for _, p := range ps {
			printKV(p.Name, p.Value)
		}
		fmt.Println()
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	presets := config.ListPresets(args[0])
	if len(presets) == 0 {
		fmt.Printf("no presets for model: %s\n", args[0])
		return nil
	}
	fmt.Printf("presets for %s:\n", args[0])
	for _, name := range presets {
		p := config.GetPreset(args[0], name)
		fmt.Printf("  %-18s %v\n", name, p.Parameters)
	}
	return nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	plan, err := automation.LoadPlan(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(plan.Name))
	if plan.Description != "" {
		fmt.Println(plan.Description)
	}

	results, err := automation.RunPlan(context.Background(), plan, nil, st)
	for _, r := range results {
		fmt.Println()
		fmt.Printf("step %d\n", r.Step)
		printResult(r.Result)
		if r.RunID != "" {
			printKV("run id", r.RunID)
		}
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[:1])
	if err != nil {
		return err
	}

	base, err := cfg.Quantities()
	if err != nil {
		return err
	}
	drivers, err := cfg.Forcing.Scenarios()
	if err != nil {
		return err
	}

	sweep := &automation.Sweep{
		Model:     cfg.Model,
		Parameter: args[1],
		Min:       sweepMin,
		Max:       sweepMax,
		Points:    sweepPoints,
		Unit:      sweepUnit,
		Base:      base,
	}

	points, err := automation.RunSweep(context.Background(), sweep, nil, drivers)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL\tPEAK\n", args[1])
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\n", p.Value, p.FinalWarming, p.PeakWarming)
	}
	return w.Flush()
}

// quantityOf is a small helper for flag values given as "magnitude unit".
func quantityOf(s string) (units.Quantity, error) {
	q, err := units.ParseQuantity(s)
	if err != nil {
		return units.Quantity{}, err
	}
	if !q.HasUnit() {
		return units.Quantity{}, fmt.Errorf("%q needs a unit", s)
	}
	return q, nil
}
