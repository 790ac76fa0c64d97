package brick

// Asset selects one of the four supported procedural brick types.
type Asset uint8

const (
	AssetDefault Asset = iota
	AssetTile
	AssetMicro
	AssetStud
)

// Material tags a brick's surface as plain plastic or emissive glow.
type Material uint8

const (
	MaterialPlastic Material = iota
	MaterialGlow
)

// Limits fixed by the output format.
const (
	// MaxFootprint is the largest horizontal extent, in half-units, any
	// single emitted brick may have on either axis.
	MaxFootprint = 500
	// MaxBrickHeight is the largest Z extent, in half-units, any single
	// emitted brick may have.
	MaxBrickHeight = 250
	// MinZExtent is the minimum Z extent of any emitted brick.
	MinZExtent = 2
)

// GenOptions configures the reducer and emitter.
type GenOptions struct {
	// TileStride is the per-pixel footprint multiplier: 5 for stud-sized
	// bricks, 1 for micro-bricks.
	TileStride uint32
	// Scale is the vertical multiplier applied to raw heightmap values.
	Scale uint32
	// Cull drops tiles whose height is zero or whose colour alpha is zero.
	Cull bool
	// Snap rounds Z and per-brick height up to the next multiple of 4.
	Snap bool
	// Asset selects the procedural brick asset to emit.
	Asset Asset
	// Stud makes the emitter use a height step of 5 instead of 2: each
	// brick is at least 5 tall and has h%5 added to its height.
	Stud bool
	// Micro, combined with Img, forces cubic bricks (Z extent == TileStride).
	Micro bool
	// Img indicates a flat (image-only) heightmap; see FlatHeightmap.
	Img bool
	// Quadtree enables the quad reducer. When false the quad reducer is
	// skipped entirely and only the line reducer runs.
	Quadtree bool
	// Nocollide disables all collision flags on emitted bricks.
	Nocollide bool
	// Glow tags emitted bricks with the glow material instead of plastic.
	Glow bool
}

// heightStep returns the height step stackTile uses for each brick: the
// minimum brick height, and the modulus whose remainder is added to it.
func (o GenOptions) heightStep() uint32 {
	if o.Stud {
		return 5
	}
	return 2
}
