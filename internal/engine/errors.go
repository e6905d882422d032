package engine

import "errors"

// Domain errors for engine operations.
var (
	// ErrNonFinite indicates a NaN or infinite angle or step.
	ErrNonFinite = errors.New("engine: non-finite input (NaN or Inf)")

	// ErrParameterBounds indicates a tunable outside its valid range.
	ErrParameterBounds = errors.New("engine: parameter out of valid bounds")
)
