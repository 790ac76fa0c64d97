package brick

// Heightmap returns an integer elevation for every (x, y) in [0, W) x [0, H).
type Heightmap interface {
	At(x, y uint32) uint32
	Size() (uint32, uint32)
}

// Colormap returns an RGBA quadruple for every (x, y) in [0, W) x [0, H).
type Colormap interface {
	At(x, y uint32) [4]uint8
	Size() (uint32, uint32)
}

// Color is an RGBA colour, 8 bits per channel.
type Color = [4]uint8

// Tile is one logical rectangle on the original pixel grid, possibly merged
// with neighbours by the quad or line reducer. All tiles live in a single
// flat Grid slice for the lifetime of a reduction; a tile is never moved or
// freed, only marked dormant via its parent pointer.
type Tile struct {
	index int

	// centerX, centerY are the coordinates of the tile's top-left original
	// pixel. Unchanged by merges.
	centerX, centerY uint32

	// sizeW, sizeH are the tile's footprint in original-pixel units.
	sizeW, sizeH uint32

	color  Color
	height uint32

	// neighbors is the set of distinct heights found at the 4-connected
	// in-bounds neighbours of every pixel absorbed into this tile. A pixel
	// is not its own neighbour, but a neighbour at the same height as the
	// tile is still recorded.
	neighbors heightSet

	// parent, if set, is the index of the tile that absorbed this one.
	// A tile with parent == -1 is live.
	parent int
}

func (t *Tile) live() bool { return t.parent < 0 }

// Grid is the flat array of width*height tiles that a reduction operates
// over. Index addressing is idx(x,y) = y + x*height; the quad and line
// reducers depend on this exact ordering.
type Grid struct {
	tiles  []Tile
	width  uint32
	height uint32
}

// idx returns the flat index of the tile at (x, y).
func (g *Grid) idx(x, y uint32) int {
	return int(y + x*g.height)
}

// NewGrid builds a flat grid of width*height tiles, one per pixel, from a
// Heightmap and Colormap of identical dimensions; mismatched sizes are
// rejected before any tile is built.
func NewGrid(h Heightmap, c Colormap) (*Grid, error) {
	width, height := h.Size()
	if cw, ch := c.Size(); cw != width || ch != height {
		return nil, ErrDimensionMismatch
	}

	g := &Grid{
		tiles:  make([]Tile, int(width)*int(height)),
		width:  width,
		height: height,
	}

	for x := uint32(0); x < width; x++ {
		for y := uint32(0); y < height; y++ {
			i := g.idx(x, y)
			elev := h.At(x, y)

			var neighbors heightSet
			if x > 0 {
				neighbors.add(h.At(x-1, y))
			}
			if x+1 < width {
				neighbors.add(h.At(x+1, y))
			}
			if y > 0 {
				neighbors.add(h.At(x, y-1))
			}
			if y+1 < height {
				neighbors.add(h.At(x, y+1))
			}

			g.tiles[i] = Tile{
				index:     i,
				centerX:   x,
				centerY:   y,
				sizeW:     1,
				sizeH:     1,
				color:     c.At(x, y),
				height:    elev,
				neighbors: neighbors,
				parent:    -1,
			}
		}
	}

	return g, nil
}

// heightSet is a small deduplicated set of heights, sized for the handful
// of distinct neighbour elevations a tile typically accumulates. An
// unsorted slice with linear lookup beats a map for these sizes.
type heightSet struct {
	vals []uint32
}

func (s *heightSet) add(v uint32) {
	for _, e := range s.vals {
		if e == v {
			return
		}
	}
	s.vals = append(s.vals, v)
}

func (s *heightSet) union(o heightSet) {
	for _, v := range o.vals {
		s.add(v)
	}
}

// min returns the smallest value in the set, or fallback if the set is
// empty.
func (s heightSet) min(fallback uint32) uint32 {
	if len(s.vals) == 0 {
		return fallback
	}
	m := s.vals[0]
	for _, v := range s.vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
