package brick

import "math"

// Progress is invoked with a monotone value in [0,1] at phase boundaries
// and between long-running passes. Returning false requests cancellation.
type Progress func(float64) bool

// Reduce runs the full pipeline: grid initialisation, optional quad
// reduction, line reduction to convergence, and brick emission. It is
// single-threaded and allocates nothing beyond the grid and the small
// per-probe lists the line reducer uses.
func Reduce(h Heightmap, c Colormap, opts GenOptions, progress Progress) ([]Brick, error) {
	if progress == nil {
		progress = func(float64) bool { return true }
	}

	if !progress(0.0) {
		return nil, ErrCancelled
	}

	grid, err := NewGrid(h, c)
	if err != nil {
		return nil, err
	}

	if !progress(0.2) {
		return nil, ErrCancelled
	}

	progOffset, progScale := 0.2, 0.75
	if opts.Quadtree {
		level := uint32(0)
		for (uint64(1)<<(level+1))*uint64(opts.TileStride) < MaxFootprint {
			frac := 0.2 + 0.5*float64(level)/math.Log2(MaxFootprint/float64(opts.TileStride))
			if !progress(frac) {
				return nil, ErrCancelled
			}

			count := grid.quadOptimizeLevel(level)
			if count == 0 {
				break
			}
			level++
		}

		if !progress(0.7) {
			return nil, ErrCancelled
		}
		progOffset, progScale = 0.7, 0.25
	}

	pass := 0
	for {
		pass++
		count := grid.lineOptimizePass(opts.TileStride)

		frac := float64(pass) / 5.0
		if frac > 1 {
			frac = 1
		}
		if !progress(progOffset + progScale*frac) {
			return nil, ErrCancelled
		}

		if count == 0 {
			break
		}
	}

	if !progress(0.95) {
		return nil, ErrCancelled
	}

	bricks := grid.emit(opts)

	if !progress(1.0) {
		return nil, ErrCancelled
	}

	return bricks, nil
}
