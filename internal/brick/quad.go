package brick

// similarQuad reports whether two live tiles have identical size, colour
// and height, the condition for collapsing a 2x2 block into one tile.
func similarQuad(a, b *Tile) bool {
	return a.sizeW == b.sizeW && a.sizeH == b.sizeH &&
		a.color == b.color && a.height == b.height &&
		a.live() && b.live()
}

// mergeQuad absorbs topRight, bottomLeft and bottomRight into topLeft,
// doubling topLeft's footprint and unioning neighbour sets. The three
// absorbed tiles become dormant, pointing at topLeft.
func mergeQuad(topLeft, topRight, bottomLeft, bottomRight *Tile) {
	topLeft.sizeW *= 2
	topLeft.sizeH *= 2

	topLeft.neighbors.union(topRight.neighbors)
	topLeft.neighbors.union(bottomLeft.neighbors)
	topLeft.neighbors.union(bottomRight.neighbors)

	topRight.parent = topLeft.index
	bottomLeft.parent = topLeft.index
	bottomRight.parent = topLeft.index
}

// quadOptimizeLevel runs one pass of the quad reducer at the given level,
// merging every eligible 2x2 block of tiles of size 2^level into a tile of
// size 2^(level+1). It returns the number of tiles deactivated (3 per
// successful merge).
//
// Anchors are visited on a fixed power-of-two lattice (not a sliding
// window): x, y step by 2*space starting at 0. This guarantees the anchors
// of one pass never straddle a merge performed earlier in the same pass,
// and keeps every level's merges grid-aligned for the next level.
func (g *Grid) quadOptimizeLevel(level uint32) int {
	count := 0
	space := uint32(1) << level
	step := space * 2

	if g.width <= space || g.height <= space {
		return 0
	}

	for x := uint32(0); x+space < g.width; x += step {
		for y := uint32(0); y+space < g.height; y += step {
			topLeft := &g.tiles[g.idx(x, y)]
			topRight := &g.tiles[g.idx(x+space, y)]
			bottomLeft := &g.tiles[g.idx(x, y+space)]
			bottomRight := &g.tiles[g.idx(x+space, y+space)]

			if topLeft.sizeW != space ||
				!similarQuad(topLeft, topRight) ||
				!similarQuad(topLeft, bottomLeft) ||
				!similarQuad(topLeft, bottomRight) {
				continue
			}

			mergeQuad(topLeft, topRight, bottomLeft, bottomRight)
			count += 3
		}
	}

	return count
}
