// Package viz renders the spinning bottle in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of one disc driven by mouse gestures and keys
//   - [Canvas]: Braille-based pixel canvas, also used for SVG snapshots
//   - Preset menu with editable physics before a session starts
//
// # Key Bindings
//
//	Mouse - drag a bottle end to spin it, press elsewhere to hold an obstacle
//	Space - Flick in a random direction
//	S     - Stop the bottle
//	O     - Toggle a fixed obstacle
//	R     - Reset to angle zero
//	T     - Cycle color themes
//	Q     - Quit
//
// The program must be started with mouse cell motion enabled, otherwise drags
// arrive as a press and a release only and never toss the bottle.
package viz
