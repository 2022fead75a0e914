// Package viz renders simulation results in the terminal.
//
// [Tuner] is an interactive Bubble Tea program that re-runs the full
// simulation on every parameter change and shows the resulting launch
// figures next to a speed trace. [Summary] renders the same figures once for
// non-interactive commands.
//
// # Key Bindings
//
//	Tab/↑/↓  - Select parameter
//	←/→      - Decrease/increase selected parameter
//	R        - Reset to the starting modifications
//	U        - Cycle speed units
//	T        - Cycle color themes
//	Q        - Quit
package viz
