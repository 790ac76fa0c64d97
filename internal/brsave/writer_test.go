package brsave

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/meshiest/heightmap2brick/internal/brick"
)

func sampleBricks() []brick.Brick {
	return []brick.Brick{
		{
			SizeW: 10, SizeH: 10, SizeZ: 6,
			PosX: 5, PosY: 5, PosZ: 3,
			Color:           brick.Color{255, 0, 0, 255},
			CollidePlayer:   true,
			CollideWeapon:   true,
			CollideInteract: true,
			Asset:           brick.AssetDefault,
			Material:        brick.MaterialPlastic,
			OwnerIndex:      0,
		},
		{
			SizeW: 20, SizeH: 5, SizeZ: 2,
			PosX: -40, PosY: 100, PosZ: -3,
			Color:           brick.Color{0, 128, 255, 0},
			CollidePlayer:   false,
			CollideWeapon:   false,
			CollideInteract: false,
			Asset:           brick.AssetMicro,
			Material:        brick.MaterialGlow,
			OwnerIndex:      7,
		},
	}
}

func TestStyleRecordRoundTrip(t *testing.T) {
	for _, b := range sampleBricks() {
		s := styleOf(b)
		buf := encodeStyle(s)
		if len(buf) != styleRecordSize {
			t.Fatalf("encodeStyle() length = %d, want %d", len(buf), styleRecordSize)
		}
		if got := decodeStyle(buf); got != s {
			t.Errorf("decodeStyle(encodeStyle(%+v)) = %+v", s, got)
		}
	}
}

func TestBrickRecordRoundTrip(t *testing.T) {
	for _, b := range sampleBricks() {
		rec := encodeBrickRecord(3, b)
		if len(rec) != brickRecordSize {
			t.Fatalf("encodeBrickRecord() length = %d, want %d", len(rec), brickRecordSize)
		}
		styles := make([]style, 4)
		styles[3] = styleOf(b)
		got := decodeBrickRecord(rec, styles)
		if got != b {
			t.Errorf("decodeBrickRecord(encodeBrickRecord(%+v)) = %+v", b, got)
		}
	}
}

func TestWriterDedupsRepeatedStyles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dedup.brk")

	w, err := NewWriter(path, Metadata{})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	same := sampleBricks()[0]
	other := same
	other.PosX, other.PosY = same.PosX+10, same.PosY+10
	bricks := []brick.Brick{same, other, same}
	if err := w.WriteAll(bricks); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if err := w.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	archive, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if archive.Header.StyleCount != 1 {
		t.Errorf("StyleCount = %d, want 1 (same/other/same share one style)", archive.Header.StyleCount)
	}
	if archive.Header.BrickCount != 3 {
		t.Errorf("BrickCount = %d, want 3", archive.Header.BrickCount)
	}
	for i, want := range bricks {
		if archive.Bricks[i] != want {
			t.Errorf("Bricks[%d] = %+v, want %+v", i, archive.Bricks[i], want)
		}
	}
}

func TestWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.brk")

	meta := Metadata{OwnerID: "1", OwnerName: "tester", Description: "round trip test"}
	w, err := NewWriter(path, meta)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	bricks := sampleBricks()
	if err := w.WriteAll(bricks); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if err := w.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	archive, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if archive.Metadata != meta {
		t.Errorf("Metadata = %+v, want %+v", archive.Metadata, meta)
	}
	if len(archive.Bricks) != len(bricks) {
		t.Fatalf("len(Bricks) = %d, want %d", len(archive.Bricks), len(bricks))
	}
	for i, b := range bricks {
		if archive.Bricks[i] != b {
			t.Errorf("Bricks[%d] = %+v, want %+v", i, archive.Bricks[i], b)
		}
	}
}

func TestWriterEmptyArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.brk")

	w, err := NewWriter(path, Metadata{OwnerName: "nobody"})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	archive, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(archive.Bricks) != 0 {
		t.Errorf("len(Bricks) = %d, want 0", len(archive.Bricks))
	}
}

func TestWriterAbortRemovesTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aborted.brk")

	w, err := NewWriter(path, Metadata{})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.WriteBrick(sampleBricks()[0]); err != nil {
		t.Fatalf("WriteBrick: %v", err)
	}
	w.Abort()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("directory holds %d entries after Abort, want 0 (temp file not removed)", len(entries))
	}
}
