// Package brsave serialises a []brick.Brick list produced by
// internal/brick.Reduce into a single-file archive a game client can load:
// a fixed-width binary header, gzip'd JSON metadata, a deduplicated style
// table, and a flat array of brick position records.
package brsave

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed size, in bytes, of the archive header.
const HeaderSize = 61

const (
	magic   = "BRKS"
	version = 1
)

// Header is the fixed-size archive header.
type Header struct {
	BrickCount      uint32
	StyleCount      uint32
	MetadataOffset  uint64
	MetadataLength  uint64
	StyleOffset     uint64
	StyleLength     uint64
	BrickDataOffset uint64
	BrickDataLength uint64
}

// Serialize writes the HeaderSize-byte header.
func (h Header) Serialize() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], magic)
	buf[4] = version
	binary.LittleEndian.PutUint32(buf[5:9], h.BrickCount)
	binary.LittleEndian.PutUint32(buf[9:13], h.StyleCount)
	binary.LittleEndian.PutUint64(buf[13:21], h.MetadataOffset)
	binary.LittleEndian.PutUint64(buf[21:29], h.MetadataLength)
	binary.LittleEndian.PutUint64(buf[29:37], h.StyleOffset)
	binary.LittleEndian.PutUint64(buf[37:45], h.StyleLength)
	binary.LittleEndian.PutUint64(buf[45:53], h.BrickDataOffset)
	binary.LittleEndian.PutUint64(buf[53:61], h.BrickDataLength)
	return buf
}

// DeserializeHeader parses a HeaderSize-byte header.
func DeserializeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("brsave: header too short: %d bytes (need %d)", len(buf), HeaderSize)
	}
	if string(buf[0:4]) != magic {
		return Header{}, fmt.Errorf("brsave: invalid magic bytes: %q", buf[0:4])
	}
	if buf[4] != version {
		return Header{}, fmt.Errorf("brsave: unsupported version: %d (expected %d)", buf[4], version)
	}
	return Header{
		BrickCount:      binary.LittleEndian.Uint32(buf[5:9]),
		StyleCount:      binary.LittleEndian.Uint32(buf[9:13]),
		MetadataOffset:  binary.LittleEndian.Uint64(buf[13:21]),
		MetadataLength:  binary.LittleEndian.Uint64(buf[21:29]),
		StyleOffset:     binary.LittleEndian.Uint64(buf[29:37]),
		StyleLength:     binary.LittleEndian.Uint64(buf[37:45]),
		BrickDataOffset: binary.LittleEndian.Uint64(buf[45:53]),
		BrickDataLength: binary.LittleEndian.Uint64(buf[53:61]),
	}, nil
}

// Metadata is stored as gzip-compressed JSON.
type Metadata struct {
	OwnerID     string `json:"owner_id"`
	OwnerName   string `json:"owner_name"`
	Description string `json:"description,omitempty"`
}

// styleRecordSize is the fixed on-disk size of one deduplicated brick
// "style" record: 3x uint16 size + 4 colour bytes + 1 flags byte.
const styleRecordSize = 2 + 2 + 2 + 4 + 1

// brickRecordSize is the fixed on-disk size of one brick's position
// record: a uint32 index into the style table, 3x int32 position, and a
// uint32 owner index.
const brickRecordSize = 4 + 4 + 4 + 4 + 4

const (
	flagCollidePlayer   = 1 << 0
	flagCollideWeapon   = 1 << 1
	flagCollideInteract = 1 << 2
	flagMaterialGlow    = 1 << 3
	// bits 4-5 hold the asset id (0-3).
	assetShift = 4
	assetMask  = 0b11
)
