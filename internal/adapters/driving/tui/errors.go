package tui

import "errors"

// ErrMissingRefinementService is returned when the refinement coordinator is not provided.
var ErrMissingRefinementService = errors.New("tui: refinement coordinator is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
