// Package dynamo provides the time-stepping engine shared by the climate models.
//
// The package defines the lifecycle every model follows and the pieces the
// concrete models are built from:
//
//   - [Model]: set drivers, reset, step, run, read outputs
//   - [Base]: forcing drivers, timestep and run position, embedded by models
//   - [RunState]: explicit "not reset" / "ready" / "stepping" position
//   - [System], [Relaxing]: right-hand sides consumed by the integrators
//   - [Series]: a named, unit-carrying output time series
//
// # Lifecycle
//
//	m, _ := models.NewTwoLayer(models.DefaultTwoLayerParams())
//	_ = m.SetDrivers(units.A(forcing, "W/m^2"))
//	_ = m.Reset()
//	_ = m.Run()
//	temps := m.SurfaceTemperature()
//
// Outputs use forward differencing: index i reflects drivers up to i-1, so
// index 0 is always zero and the final driver value never affects output.
//
// # Thread Safety
//
// Models are NOT thread-safe. Concurrent runs need distinct instances; the
// scenario runner builds one per series through a [Factory].
package dynamo
