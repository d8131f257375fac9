// Package viz renders stored runs in the terminal: asciigraph line charts of
// the compartment curves, a lipgloss summary of the final state and a
// Bubble Tea replay that steps through a run entry by entry.
//
// # Replay Key Bindings
//
//	Space     - Play/Pause
//	←/→ h/l   - Step back/forward
//	Home/End  - Jump to first/last entry
//	+/-       - Change playback speed
//	q         - Quit
package viz
