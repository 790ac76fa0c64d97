package brick

// similarLine reports whether b can be absorbed into a's horizontal or
// vertical run: same colour and height, both live, and either they share
// an x-centre and width (a vertical run) or share a y-centre and height
// (a horizontal run).
func similarLine(a, b *Tile) bool {
	if !a.live() || !b.live() || a.color != b.color || a.height != b.height {
		return false
	}
	sameX := a.centerX == b.centerX && a.sizeW == b.sizeW
	sameY := a.centerY == b.centerY && a.sizeH == b.sizeH
	return sameX || sameY
}

// mergeLine absorbs the tiles in children (a run of indices, all matching
// startI's colour/height) into the tile at startI, extending it along
// whichever axis the run occupies.
func (g *Grid) mergeLine(startI int, children []int) {
	if len(children) == 0 {
		return
	}

	start := &g.tiles[startI]
	isVertical := g.tiles[children[0]].centerX == start.centerX

	var sum uint32
	for _, i := range children {
		t := &g.tiles[i]
		t.parent = startI
		start.neighbors.union(t.neighbors)
		if isVertical {
			sum += t.sizeH
		} else {
			sum += t.sizeW
		}
	}

	if isVertical {
		start.sizeH += sum
	} else {
		start.sizeW += sum
	}
}

// lineOptimizePass runs one full sweep of the line reducer in the grid's
// natural order (x outer, y inner, matching idx),
// extending every surviving tile by the longer of its horizontal or
// vertical run of matching neighbours. Ties go to horizontal. It returns
// the total number of tiles absorbed during the sweep.
func (g *Grid) lineOptimizePass(tileStride uint32) int {
	count := 0

	for x := uint32(0); x < g.width; x++ {
		for y := uint32(0); y < g.height; y++ {
			startI := g.idx(x, y)
			start := &g.tiles[startI]
			if !start.live() {
				continue
			}

			sx := start.sizeW
			var horiz []int
			for x+sx < g.width {
				i := g.idx(x+sx, y)
				t := &g.tiles[i]
				if (sx+t.sizeW)*tileStride > MaxFootprint || !similarLine(start, t) {
					break
				}
				horiz = append(horiz, i)
				sx += t.sizeW
			}

			sy := start.sizeH
			var vert []int
			for y+sy < g.height {
				i := g.idx(x, y+sy)
				t := &g.tiles[i]
				if (sy+t.sizeH)*tileStride > MaxFootprint || !similarLine(start, t) {
					break
				}
				vert = append(vert, i)
				sy += t.sizeH
			}

			if len(horiz) > len(vert) {
				count += len(horiz)
			} else {
				count += len(vert)
			}

			if len(horiz) >= len(vert) {
				g.mergeLine(startI, horiz)
			} else {
				g.mergeLine(startI, vert)
			}
		}
	}

	return count
}
