// Package viz renders concentration fields and cellular automaton boards in
// the terminal.
//
//   - [Canvas]: Braille dot canvas, 2x4 sub-pixels per character
//   - [Heatmap]: half-block colour rendering of a field using a [Theme] ramp
//   - Shared lipgloss styles used by the CLI and the watch view
//
// Renderers only read the grids they are given; callers hand in copies from
// reaction.Simulator.Fields or hold the simulator lock via View.
package viz
