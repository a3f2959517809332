package main

import (
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/twolayer/internal/export"
	"github.com/san-kum/twolayer/internal/scenario"
	"github.com/san-kum/twolayer/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tMODEL\tTIME\tSERIES\tRUNS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Label,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Series,
			len(run.Runs),
		)
	}

	return w.Flush()
}

// loadRun reads a stored run, keeping only the requested variables.
func loadRun(runID string) (*storage.RunMetadata, []scenario.Scenario, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	ss, err := st.LoadScenarios(runID)
	if err != nil {
		return nil, nil, err
	}

	if len(variables) == 0 {
		return meta, ss, nil
	}
	var kept []scenario.Scenario
	for _, s := range ss {
		if slices.Contains(variables, s.Get(scenario.MetaVariable)) {
			kept = append(kept, s)
		}
	}
	return meta, kept, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, ss, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if len(ss) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n\n", meta.Model)

	for _, s := range ss {
		s = s.DropNaN()
		if len(s.Values) == 0 {
			continue
		}

		caption := fmt.Sprintf("%s [%s] %s (%s)",
			s.Get(scenario.MetaScenario), s.Get(scenario.MetaRunIdx), s.Get(scenario.MetaVariable), s.Get(scenario.MetaUnit))
		graph := asciigraph.Plot(s.Values,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func chartRun(cmd *cobra.Command, args []string) error {
	meta, ss, err := loadRun(args[0])
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = meta.ID + ".png"
	}

	title := meta.Model
	if meta.Label != "" {
		title = meta.Label + " (" + meta.Model + ")"
	}
	if err := export.Chart(path, title, ss); err != nil {
		return err
	}
	fmt.Printf("chart written to %s\n", path)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, ss, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if outPath == "" {
		return storage.WriteJSON(os.Stdout, *meta, ss)
	}
	if err := storage.ExportJSON(outPath, *meta, ss); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outPath)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, ss, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return scenario.WriteCSV(os.Stdout, ss)
}
