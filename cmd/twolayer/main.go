package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/twolayer/internal/config"
	"github.com/san-kum/twolayer/internal/logger"
	"github.com/san-kum/twolayer/internal/models"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	params     []string
	workers    int
	noSave     bool
	label      string

	forcingKind string
	forcingCSV  string
	startYear   int
	endYear     int
	stepYear    int
	stepLevel   float64

	outPath   string
	variables []string
	theme     string

	f2x string

	sweepMin    float64
	sweepMax    float64
	sweepPoints int
	sweepUnit   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "twolayer",
		Short:        "two-layer and impulse-response climate models",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultRunDir, "run store directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a model over a forcing series",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runModel,
	}
	addModelFlags(runCmd)
	addForcingFlags(runCmd)
	runCmd.Flags().IntVar(&workers, "workers", 0, "concurrent series (0 = number of CPUs)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not write the run to the store")
	runCmd.Flags().StringVar(&label, "label", "", "label stored with the run")

	scenariosCmd := &cobra.Command{
		Use:   "scenarios [model] [table.csv]",
		Short: "run every World forcing series of a wide CSV table",
		Args:  cobra.ExactArgs(2),
		RunE:  runScenarios,
	}
	addModelFlags(scenariosCmd)
	scenariosCmd.Flags().IntVar(&workers, "workers", 0, "concurrent series (0 = number of CPUs)")
	scenariosCmd.Flags().StringVarP(&outPath, "out", "o", "", "output CSV (default stdout)")

	equivCmd := &cobra.Command{
		Use:   "equiv [model]",
		Short: "print the equivalent parameters of the other model",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showEquivalent,
	}
	addModelFlags(equivCmd)
	equivCmd.Flags().StringVar(&f2x, "f2x", models.DefaultF2x.String(), "forcing of doubled CO2, for the ECS")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "run a two-layer model and its impulse-response equivalent side by side",
		Args:  cobra.NoArgs,
		RunE:  compareModels,
	}
	addModelFlags(compareCmd)
	addForcingFlags(compareCmd)

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list models and their default parameters",
		RunE:  listModels,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run output in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&variables, "variable", nil, "variables to plot (default all)")

	chartCmd := &cobra.Command{
		Use:   "chart [run_id]",
		Short: "render run output to an image (png, svg, pdf)",
		Args:  cobra.ExactArgs(1),
		RunE:  chartRun,
	}
	chartCmd.Flags().StringVarP(&outPath, "out", "o", "", "image path (default <run_id>.png)")
	chartCmd.Flags().StringSliceVar(&variables, "variable", nil, "variables to draw (default all)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run's series as a wide CSV table",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "step a model interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addModelFlags(liveCmd)
	addForcingFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "ocean", "color theme")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	planCmd := &cobra.Command{
		Use:   "plan [plan.yaml]",
		Short: "run the experiments of a YAML plan",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlan,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [model] [parameter]",
		Short: "vary one parameter and report warming",
		Args:  cobra.ExactArgs(2),
		RunE:  runSweep,
	}
	addModelFlags(sweepCmd)
	addForcingFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0, "last value")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 5, "number of values")
	sweepCmd.Flags().StringVar(&sweepUnit, "unit", "", "unit of min and max")
	_ = sweepCmd.MarkFlagRequired("unit")

	rootCmd.AddCommand(runCmd, scenariosCmd, equivCmd, compareCmd, modelsCmd, listCmd, plotCmd, chartCmd,
		exportJSONCmd, exportCSVCmd, liveCmd, presetsCmd, planCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset parameters")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, `parameter override, e.g. -p "du=60 m"`)
}

func addForcingFlags(cmd *cobra.Command) {
	def := config.DefaultConfig().Forcing
	cmd.Flags().StringVar(&forcingKind, "forcing", def.Kind, "forcing kind: sinusoid_ramp, abrupt or csv")
	cmd.Flags().StringVar(&forcingCSV, "csv", "", "forcing table (implies --forcing csv)")
	cmd.Flags().IntVar(&startYear, "start", def.Start, "first year of synthetic forcing")
	cmd.Flags().IntVar(&endYear, "end", def.End, "last year of synthetic forcing")
	cmd.Flags().IntVar(&stepYear, "step-year", def.StepYear, "year of the abrupt forcing step")
	cmd.Flags().Float64Var(&stepLevel, "level", def.Level, "abrupt forcing level in W/m^2")
}
