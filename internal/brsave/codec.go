package brsave

import (
	"encoding/binary"

	"github.com/meshiest/heightmap2brick/internal/brick"
)

// style is the deduplicated, position-independent portion of a brick: its
// footprint, colour, collision flags, material and asset. Terrain made of
// a handful of colours and heights produces many bricks sharing the same
// style even though no two occupy the same position, so the style table
// is where repetition actually pays off.
type style struct {
	sizeW, sizeH, sizeZ uint16
	color               brick.Color
	flags               byte
}

func styleOf(b brick.Brick) style {
	var flags byte
	if b.CollidePlayer {
		flags |= flagCollidePlayer
	}
	if b.CollideWeapon {
		flags |= flagCollideWeapon
	}
	if b.CollideInteract {
		flags |= flagCollideInteract
	}
	if b.Material == brick.MaterialGlow {
		flags |= flagMaterialGlow
	}
	flags |= byte(b.Asset&assetMask) << assetShift

	return style{sizeW: b.SizeW, sizeH: b.SizeH, sizeZ: b.SizeZ, color: b.Color, flags: flags}
}

// encodeStyle serialises a style into its fixed styleRecordSize-byte form.
func encodeStyle(s style) []byte {
	buf := make([]byte, styleRecordSize)
	binary.LittleEndian.PutUint16(buf[0:2], s.sizeW)
	binary.LittleEndian.PutUint16(buf[2:4], s.sizeH)
	binary.LittleEndian.PutUint16(buf[4:6], s.sizeZ)
	buf[6], buf[7], buf[8], buf[9] = s.color[0], s.color[1], s.color[2], s.color[3]
	buf[10] = s.flags
	return buf
}

// decodeStyle parses a single fixed styleRecordSize-byte record.
func decodeStyle(buf []byte) style {
	return style{
		sizeW: binary.LittleEndian.Uint16(buf[0:2]),
		sizeH: binary.LittleEndian.Uint16(buf[2:4]),
		sizeZ: binary.LittleEndian.Uint16(buf[4:6]),
		color: brick.Color{buf[6], buf[7], buf[8], buf[9]},
		flags: buf[10],
	}
}

func (s style) asset() brick.Asset {
	return brick.Asset((s.flags >> assetShift) & assetMask)
}

func (s style) material() brick.Material {
	if s.flags&flagMaterialGlow != 0 {
		return brick.MaterialGlow
	}
	return brick.MaterialPlastic
}

// encodeBrickRecord serialises a brick's position record: its index into
// the style table, its centre position, and its owner index.
func encodeBrickRecord(styleIndex uint32, b brick.Brick) []byte {
	buf := make([]byte, brickRecordSize)
	binary.LittleEndian.PutUint32(buf[0:4], styleIndex)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(b.PosX))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(b.PosY))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(b.PosZ))
	binary.LittleEndian.PutUint32(buf[16:20], b.OwnerIndex)
	return buf
}

// decodeBrickRecord parses a brick's position record, looking up its
// style from a previously-decoded style table.
func decodeBrickRecord(buf []byte, styles []style) brick.Brick {
	idx := binary.LittleEndian.Uint32(buf[0:4])
	s := styles[idx]

	return brick.Brick{
		SizeW: s.sizeW,
		SizeH: s.sizeH,
		SizeZ: s.sizeZ,
		PosX:  int32(binary.LittleEndian.Uint32(buf[4:8])),
		PosY:  int32(binary.LittleEndian.Uint32(buf[8:12])),
		PosZ:  int32(binary.LittleEndian.Uint32(buf[12:16])),
		Color: s.color,

		CollidePlayer:   s.flags&flagCollidePlayer != 0,
		CollideWeapon:   s.flags&flagCollideWeapon != 0,
		CollideInteract: s.flags&flagCollideInteract != 0,

		Asset:    s.asset(),
		Material: s.material(),

		OwnerIndex: binary.LittleEndian.Uint32(buf[16:20]),
	}
}
