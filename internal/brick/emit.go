package brick

// Brick is an emitted axis-aligned box.
type Brick struct {
	// SizeW, SizeH, SizeZ are the brick's dimensions in half-units.
	SizeW, SizeH, SizeZ uint16
	// PosX, PosY, PosZ is the centre of the brick in half-units.
	PosX, PosY, PosZ int32
	// Color is the brick's RGB colour (alpha is only used to drive Cull).
	Color Color
	// Collision flags, all equal to !Nocollide.
	CollidePlayer, CollideWeapon, CollideInteract bool
	// Asset selects the procedural brick type.
	Asset Asset
	// Material tags the surface.
	Material Material
	// OwnerIndex is left zero by the reducer; the binary save writer stores
	// it as given.
	OwnerIndex uint32
}

// emit walks the grid's live tiles and produces the final ordered brick
// list. Iteration order is the grid's natural (x-major, matching idx)
// order.
func (g *Grid) emit(opts GenOptions) []Brick {
	var bricks []Brick

	for i := range g.tiles {
		t := &g.tiles[i]
		if !t.live() {
			continue
		}
		if opts.Cull && (t.height == 0 || t.color[3] == 0) {
			continue
		}

		bricks = append(bricks, stackTile(t, opts)...)
	}

	return bricks
}

// stackTile computes the vertical brick stack for one live tile, slicing
// it into brick-height-limited layers from the top down.
func stackTile(t *Tile, opts GenOptions) []Brick {
	zTop := int64(opts.Scale) * int64(t.height)

	floor := int64(t.neighbors.min(0))
	if floor < 0 {
		floor = 0
	}
	rawH := int64(t.height) - floor + 1
	if rawH < 2 {
		rawH = 2
	}

	desiredH := rawH * int64(opts.Scale) / 2
	if desiredH < 2 {
		desiredH = 2
	}

	if opts.Snap {
		// Always advances to the next multiple of 4, even when already
		// aligned, rather than leaving an aligned value unchanged.
		zTop += 4 - zTop%4
		desiredH += 4 - desiredH%4
	}

	step := int64(opts.heightStep())
	var bricks []Brick

	for desiredH > 0 {
		h := desiredH
		if h < step {
			h = step
		}
		if h > MaxBrickHeight {
			h = MaxBrickHeight
		}
		// Adds h%step to h. With step 2 this rounds an odd h up to the next
		// even value; with step 5 the result is not always a multiple of 5
		// (7 becomes 9). The overshoot can push h above desiredH and, with
		// step 5, above MaxBrickHeight (249 becomes 253), and is accepted
		// rather than clamped.
		h = h + h%step

		zExtent := h
		if opts.Img && opts.Micro {
			zExtent = int64(opts.TileStride)
		}

		material := MaterialPlastic
		if opts.Glow {
			material = MaterialGlow
		}

		bricks = append(bricks, Brick{
			SizeW: uint16(t.sizeW * opts.TileStride),
			SizeH: uint16(t.sizeH * opts.TileStride),
			SizeZ: uint16(zExtent),
			PosX:  int32((2*int64(t.centerX) + int64(t.sizeW)) * int64(opts.TileStride)),
			PosY:  int32((2*int64(t.centerY) + int64(t.sizeH)) * int64(opts.TileStride)),
			PosZ:  int32(zTop - h + 2),
			Color: Color{t.color[0], t.color[1], t.color[2], t.color[3]},

			CollidePlayer:   !opts.Nocollide,
			CollideWeapon:   !opts.Nocollide,
			CollideInteract: !opts.Nocollide,

			Asset:    opts.Asset,
			Material: material,
		})

		desiredH -= h
		zTop -= 2 * h
	}

	return bricks
}
