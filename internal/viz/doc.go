// Package viz renders a running combustor in the terminal.
//
// [Model] is a Bubble Tea program that steps a [sim.Network] on a timer and
// draws the selected chamber quantity with asciigraph next to a table of
// the latest sample.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	Tab   - Cycle plotted quantity
//	+/-   - More/fewer integration steps per frame
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
