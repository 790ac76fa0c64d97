package brick

import "errors"

// ErrDimensionMismatch is returned when the heightmap and colormap report
// different sizes.
var ErrDimensionMismatch = errors.New("brick: heightmap and colormap have mismatched dimensions")

// ErrCancelled is returned when the progress callback requests a stop.
var ErrCancelled = errors.New("brick: cancelled")
