package reaction

import "errors"

// Domain errors for simulator construction and control.
var (
	// ErrDegenerateGrid indicates a grid narrower or shorter than 2 cells.
	ErrDegenerateGrid = errors.New("reaction: grid must be at least 2x2")

	// ErrParameterBounds indicates a parameter value is outside its valid range.
	ErrParameterBounds = errors.New("reaction: parameter out of valid bounds")

	// ErrUnknownPreset indicates a preset name or index that is not defined.
	ErrUnknownPreset = errors.New("reaction: unknown preset")

	// ErrUnknownBoundary indicates an unrecognised boundary mode name.
	ErrUnknownBoundary = errors.New("reaction: unknown boundary mode")

	// ErrOutOfBounds indicates a cell coordinate outside the grid.
	ErrOutOfBounds = errors.New("reaction: cell outside grid")
)
