package brick

import "testing"

// arrayHeightmap and arrayColormap are minimal literal fixtures for
// end-to-end reduction tests, built from in-memory slices instead of
// decoded images.
type arrayHeightmap struct {
	w, h   uint32
	values []uint32 // row-major: values[y*w+x]
}

func (m *arrayHeightmap) At(x, y uint32) uint32 { return m.values[y*m.w+x] }
func (m *arrayHeightmap) Size() (uint32, uint32) { return m.w, m.h }

type arrayColormap struct {
	w, h   uint32
	values []Color
}

func (m *arrayColormap) At(x, y uint32) Color  { return m.values[y*m.w+x] }
func (m *arrayColormap) Size() (uint32, uint32) { return m.w, m.h }

func uniformHeightmap(w, h, v uint32) *arrayHeightmap {
	vals := make([]uint32, w*h)
	for i := range vals {
		vals[i] = v
	}
	return &arrayHeightmap{w: w, h: h, values: vals}
}

func uniformColormap(w, h uint32, c Color) *arrayColormap {
	vals := make([]Color, w*h)
	for i := range vals {
		vals[i] = c
	}
	return &arrayColormap{w: w, h: h, values: vals}
}

func defaultOptions() GenOptions {
	return GenOptions{
		TileStride: 1,
		Scale:      1,
		Quadtree:   true,
	}
}

// Cull triggers on height==0 regardless of alpha.
func TestCullEmptiesOutput(t *testing.T) {
	h := uniformHeightmap(1, 1, 0)
	c := uniformColormap(1, 1, Color{255, 0, 0, 255})
	opts := defaultOptions()
	opts.Cull = true

	bricks, err := Reduce(h, c, opts, nil)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if len(bricks) != 0 {
		t.Fatalf("expected empty brick list, got %d", len(bricks))
	}
}

// A single pixel at height 3 with stride 5 and scale 1 emits one brick: red,
// 5x5 footprint, z-height 2, centred at (5,5,3).
func TestSinglePixel(t *testing.T) {
	h := uniformHeightmap(1, 1, 3)
	c := uniformColormap(1, 1, Color{255, 0, 0, 255})
	opts := defaultOptions()
	opts.TileStride = 5

	bricks, err := Reduce(h, c, opts, nil)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if len(bricks) != 1 {
		t.Fatalf("expected 1 brick, got %d", len(bricks))
	}
	b := bricks[0]
	if b.Color != (Color{255, 0, 0, 255}) {
		t.Errorf("color = %v, want red", b.Color)
	}
	if b.SizeW != 5 || b.SizeH != 5 {
		t.Errorf("footprint = %dx%d, want 5x5", b.SizeW, b.SizeH)
	}
	if b.SizeZ != 2 {
		t.Errorf("z-height = %d, want 2", b.SizeZ)
	}
	if b.PosX != 5 || b.PosY != 5 || b.PosZ != 3 {
		t.Errorf("position = (%d,%d,%d), want (5,5,3)", b.PosX, b.PosY, b.PosZ)
	}
}

// A uniform 2x2 block collapses to one brick under the quad reducer.
func TestQuadMergeUniform(t *testing.T) {
	h := uniformHeightmap(2, 2, 5)
	c := uniformColormap(2, 2, Color{0, 128, 0, 255})
	opts := defaultOptions()
	opts.TileStride = 5

	bricks, err := Reduce(h, c, opts, nil)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if len(bricks) != 1 {
		t.Fatalf("expected 1 brick, got %d", len(bricks))
	}
	b := bricks[0]
	if b.SizeW != 10 || b.SizeH != 10 {
		t.Errorf("footprint = %dx%d, want 10x10", b.SizeW, b.SizeH)
	}
	if b.PosX != 10 || b.PosY != 10 {
		t.Errorf("position = (%d,%d), want (10,10)", b.PosX, b.PosY)
	}
	if b.SizeZ < 2 {
		t.Errorf("height = %d, want >= 2", b.SizeZ)
	}
}

// With the quad reducer disabled, the line reducer still merges two
// matching neighbouring tiles horizontally into one brick.
func TestLineMergeWithoutQuadtree(t *testing.T) {
	h := uniformHeightmap(2, 1, 1)
	c := uniformColormap(2, 1, Color{10, 20, 30, 255})
	opts := defaultOptions()
	opts.TileStride = 5
	opts.Quadtree = false

	bricks, err := Reduce(h, c, opts, nil)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if len(bricks) != 1 {
		t.Fatalf("expected 1 brick, got %d", len(bricks))
	}
	b := bricks[0]
	if b.SizeW != 10 || b.SizeH != 5 {
		t.Errorf("footprint = %dx%d, want 10x5", b.SizeW, b.SizeH)
	}
}

// A 2x2 block with one differing height can't quad-merge; the line reducer
// merges what it can row-wise, but the differing row can't stack with the
// rest, leaving three bricks.
func TestQuadFailsLineMergesRows(t *testing.T) {
	hm := &arrayHeightmap{w: 2, h: 2, values: []uint32{
		1, 1, // y=0: (0,0)=1 (1,0)=1
		1, 2, // y=1: (0,1)=1 (1,1)=2
	}}
	cm := uniformColormap(2, 2, Color{5, 5, 5, 255})
	opts := defaultOptions()
	opts.TileStride = 1

	bricks, err := Reduce(hm, cm, opts, nil)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if len(bricks) != 3 {
		t.Fatalf("expected 3 bricks, got %d", len(bricks))
	}
}

// A uniform 4x4 grid fully collapses under the quad reducer; a further
// line pass changes nothing.
func TestQuadMergesFullGrid(t *testing.T) {
	h := uniformHeightmap(4, 4, 7)
	c := uniformColormap(4, 4, Color{1, 2, 3, 255})
	opts := defaultOptions()
	opts.TileStride = 2

	bricks, err := Reduce(h, c, opts, nil)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if len(bricks) != 1 {
		t.Fatalf("expected 1 brick, got %d", len(bricks))
	}
	b := bricks[0]
	if b.SizeW != 4*2 || b.SizeH != 4*2 {
		t.Errorf("footprint = %dx%d, want %dx%d", b.SizeW, b.SizeH, 4*2, 4*2)
	}
}

// TestIdempotenceOfConvergedPasses verifies that an extra sweep after
// convergence changes nothing.
func TestIdempotenceOfConvergedPasses(t *testing.T) {
	h := uniformHeightmap(4, 4, 7)
	c := uniformColormap(4, 4, Color{1, 2, 3, 255})
	grid, err := NewGrid(h, c)
	if err != nil {
		t.Fatal(err)
	}
	for lvl := uint32(0); ; lvl++ {
		if grid.quadOptimizeLevel(lvl) == 0 {
			break
		}
	}
	for grid.lineOptimizePass(1) != 0 {
	}
	if n := grid.lineOptimizePass(1); n != 0 {
		t.Errorf("extra pass after convergence merged %d tiles, want 0", n)
	}
}

func TestDimensionMismatch(t *testing.T) {
	h := uniformHeightmap(2, 2, 1)
	c := uniformColormap(3, 3, Color{})
	if _, err := NewGrid(h, c); err != ErrDimensionMismatch {
		t.Fatalf("err = %v, want ErrDimensionMismatch", err)
	}
}

func TestCancellation(t *testing.T) {
	h := uniformHeightmap(4, 4, 1)
	c := uniformColormap(4, 4, Color{1, 1, 1, 255})
	opts := defaultOptions()

	_, err := Reduce(h, c, opts, func(float64) bool { return false })
	if err != ErrCancelled {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
}

func TestDeterminism(t *testing.T) {
	h := uniformHeightmap(8, 8, 4)
	c := uniformColormap(8, 8, Color{9, 9, 9, 255})
	opts := defaultOptions()
	opts.TileStride = 5

	a, err := Reduce(h, c, opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Reduce(h, c, opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("len(a)=%d len(b)=%d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("brick %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
