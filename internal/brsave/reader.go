package brsave

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/meshiest/heightmap2brick/internal/brick"
)

// Archive is an archive read back from disk: its header, decoded
// metadata, and the full brick list (styles already resolved).
type Archive struct {
	Header   Header
	Metadata Metadata
	Bricks   []brick.Brick
}

// ReadFile loads an entire archive into memory. Archives produced by
// Writer are small enough (one record per brick plus a deduplicated
// style table, no tiling) that a streaming reader isn't warranted.
func ReadFile(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("brsave: opening archive: %w", err)
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("brsave: reading archive: %w", err)
	}
	if uint64(len(buf)) < HeaderSize {
		return nil, fmt.Errorf("brsave: archive too short")
	}

	header, err := DeserializeHeader(buf[:HeaderSize])
	if err != nil {
		return nil, err
	}

	metaEnd := header.MetadataOffset + header.MetadataLength
	if metaEnd > uint64(len(buf)) {
		return nil, fmt.Errorf("brsave: metadata extends past end of file")
	}
	metaRaw, err := decompressGzip(buf[header.MetadataOffset:metaEnd])
	if err != nil {
		return nil, fmt.Errorf("brsave: decompressing metadata: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(metaRaw, &meta); err != nil {
		return nil, fmt.Errorf("brsave: unmarshalling metadata: %w", err)
	}

	styleEnd := header.StyleOffset + header.StyleLength
	if styleEnd > uint64(len(buf)) {
		return nil, fmt.Errorf("brsave: style table extends past end of file")
	}
	styleRaw := buf[header.StyleOffset:styleEnd]
	if uint64(len(styleRaw)) != uint64(header.StyleCount)*styleRecordSize {
		return nil, fmt.Errorf("brsave: style table length %d doesn't match style count %d", len(styleRaw), header.StyleCount)
	}
	styles := make([]style, header.StyleCount)
	for i := range styles {
		off := i * styleRecordSize
		styles[i] = decodeStyle(styleRaw[off : off+styleRecordSize])
	}

	dataEnd := header.BrickDataOffset + header.BrickDataLength
	if dataEnd > uint64(len(buf)) {
		return nil, fmt.Errorf("brsave: brick data extends past end of file")
	}
	data := buf[header.BrickDataOffset:dataEnd]
	if uint64(len(data)) != uint64(header.BrickCount)*brickRecordSize {
		return nil, fmt.Errorf("brsave: brick data length %d doesn't match brick count %d", len(data), header.BrickCount)
	}

	bricks := make([]brick.Brick, header.BrickCount)
	for i := range bricks {
		off := i * brickRecordSize
		rec := data[off : off+brickRecordSize]
		styleIdx := binary.LittleEndian.Uint32(rec[0:4])
		if int(styleIdx) >= len(styles) {
			return nil, fmt.Errorf("brsave: brick %d references style index %d, have %d styles", i, styleIdx, len(styles))
		}
		bricks[i] = decodeBrickRecord(rec, styles)
	}

	return &Archive{Header: header, Metadata: meta, Bricks: bricks}, nil
}

func decompressGzip(data []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gr.Close()
	return io.ReadAll(gr)
}
