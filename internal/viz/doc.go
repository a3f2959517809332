// Package viz provides a terminal stepper for the climate models.
//
// [Stepper] is a Bubble Tea program that advances a model one timestep at
// a time and charts the surface temperature as it goes.
//
// # Key Bindings
//
//	Space - Pause/Resume stepping
//	N     - Single step while paused
//	R     - Reset the model to the start of the run
//	+/-   - Steps per frame
//	T     - Cycle color themes
//	Q     - Quit
package viz
