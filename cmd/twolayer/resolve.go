package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/san-kum/twolayer/internal/config"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00D7FF"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Width(24)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
)

func printKV(key string, value any) {
	fmt.Println(keyStyle.Render(key) + valueStyle.Render(fmt.Sprint(value)))
}

// resolveConfig layers the config file, the preset and the command line,
// later sources overriding earlier ones.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Model = args[0]
	}
	if preset != "" {
		cfg.Preset = preset
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}

	if len(params) > 0 {
		merged := make(map[string]string, len(cfg.Parameters)+len(params))
		for k, v := range cfg.Parameters {
			merged[k] = v
		}
		for _, p := range params {
			name, value, ok := strings.Cut(p, "=")
			if !ok {
				return nil, fmt.Errorf("bad parameter %q, want name=value unit", p)
			}
			merged[strings.TrimSpace(name)] = strings.TrimSpace(value)
		}
		cfg.Parameters = merged
	}

	applyForcingFlags(cmd, &cfg.Forcing)
	return cfg, nil
}

func applyForcingFlags(cmd *cobra.Command, f *config.ForcingConfig) {
	flags := cmd.Flags()
	if flags.Lookup("forcing") == nil {
		return
	}
	if flags.Changed("forcing") {
		f.Kind = forcingKind
	}
	if flags.Changed("csv") {
		f.Kind = config.ForcingCSV
		f.Path = forcingCSV
	}
	if flags.Changed("start") {
		f.Start = startYear
	}
	if flags.Changed("end") {
		f.End = endYear
	}
	if flags.Changed("step-year") {
		f.StepYear = stepYear
	}
	if flags.Changed("level") {
		f.Level = stepLevel
	}
}
