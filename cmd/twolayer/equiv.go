package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/twolayer/internal/dynamo"
	"github.com/san-kum/twolayer/internal/experiment"
	"github.com/san-kum/twolayer/internal/metrics"
	"github.com/san-kum/twolayer/internal/models"
	"github.com/san-kum/twolayer/internal/scenario"
	"github.com/san-kum/twolayer/internal/units"
)

type ecsModel interface {
	dynamo.Model
	ECS(f2x units.Quantity) (units.Quantity, error)
}

func showEquivalent(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	overrides, err := cfg.Quantities()
	if err != nil {
		return err
	}

	m, err := experiment.NewRegistry().GetModel(cfg.Model, overrides)
	if err != nil {
		return err
	}

	force, err := quantityOf(f2x)
	if err != nil {
		return fmt.Errorf("--f2x: %w", err)
	}

	fmt.Println(titleStyle.Render(m.Name()))
	for _, p := range m.Parameters() {
		printKV(p.Name, p.Value)
	}
	if em, ok := m.(ecsModel); ok {
		ecs, err := em.ECS(force)
		if err != nil {
			return err
		}
		printKV("ecs", ecs)
	}
	fmt.Println()

	switch m := m.(type) {
	case *models.TwoLayer:
		ir, err := m.ImpulseResponseParameters()
		if err != nil {
			return err
		}
		fmt.Println(titleStyle.Render("impulse_response"))
		printKV("q1", ir.Q1)
		printKV("q2", ir.Q2)
		printKV("d1", ir.D1)
		printKV("d2", ir.D2)
		printKV("efficacy", ir.Efficacy)
	case *models.ImpulseResponse:
		tl, err := m.TwoLayerParameters()
		if err != nil {
			return err
		}
		fmt.Println(titleStyle.Render("two_layer"))
		printKV("du", tl.Du)
		printKV("dl", tl.Dl)
		printKV("lambda0", tl.Lambda0)
		printKV("a", tl.A)
		printKV("efficacy", tl.Efficacy)
		printKV("eta", tl.Eta)
	}
	return nil
}

// compareModels drives a two-layer model and the impulse-response model
// derived from its parameters with the same forcing.
func compareModels(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, []string{"two_layer"})
	if err != nil {
		return err
	}

	dm, err := buildModel(cfg)
	if err != nil {
		return err
	}
	tl := dm.Model.(*models.TwoLayer)

	irParams, err := tl.ImpulseResponseParameters()
	if err != nil {
		return err
	}
	irParams.DeltaT = tl.DeltaT()

	ir, err := models.NewImpulseResponse(irParams)
	if err != nil {
		return err
	}
	if err := ir.SetDrivers(tl.ERF()); err != nil {
		return err
	}

	for _, m := range []dynamo.Model{tl, ir} {
		if err := m.Reset(); err != nil {
			return err
		}
		if err := m.Run(); err != nil {
			return err
		}
	}

	fmt.Println(titleStyle.Render("two_layer vs impulse_response"))
	printKV("scenario", dm.Driver.Get(scenario.MetaScenario))
	printKV("steps", tl.Len())
	printKV("max |dT surface|", fmt.Sprintf("%.4g K", metrics.MaxDeviation(tl.SurfaceTemperature().Values, ir.SurfaceTemperature().Values)))
	printKV("max |d heat uptake|", fmt.Sprintf("%.4g W/m^2", metrics.MaxDeviation(tl.HeatUptake().Values, ir.HeatUptake().Values)))
	return nil
}
