package brsave

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"

	"github.com/meshiest/heightmap2brick/internal/brick"
)

// Writer writes a brick list to an archive in two passes: brick position
// records are appended to a temp file as they arrive, and Finalize
// assembles the final [Header][Metadata][StyleTable][BrickData] layout.
//
// Each brick's style (footprint, colour, flags, material, asset) is
// deduplicated into a shared table, keyed by an FNV-64a hash of the
// encoded style bytes, since terrain built from a handful of colours and
// heights produces many bricks sharing one style.
type Writer struct {
	outputPath string
	meta       Metadata

	tmpFile   *os.File
	tmpOffset uint64
	count     uint32
	finalized bool

	styles    []style
	styleIdx  map[uint64]uint32 // FNV-64a hash of encoded style -> table index
	styleHits int64
}

// NewWriter creates a writer that will produce path once Finalize is
// called.
func NewWriter(path string, meta Metadata) (*Writer, error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "brsave-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("brsave: creating temp file: %w", err)
	}
	return &Writer{
		outputPath: path,
		meta:       meta,
		tmpFile:    tmpFile,
		styleIdx:   make(map[uint64]uint32),
	}, nil
}

func styleHash(buf []byte) uint64 {
	h := fnv.New64a()
	h.Write(buf)
	return h.Sum64()
}

// internStyle returns the table index for b's style, reusing an existing
// entry if an identical style has already been written.
func (w *Writer) internStyle(b brick.Brick) uint32 {
	s := styleOf(b)
	enc := encodeStyle(s)
	hash := styleHash(enc)

	if idx, ok := w.styleIdx[hash]; ok && w.styles[idx] == s {
		w.styleHits++
		return idx
	}

	idx := uint32(len(w.styles))
	w.styles = append(w.styles, s)
	w.styleIdx[hash] = idx
	return idx
}

// WriteBrick appends one brick to the archive.
func (w *Writer) WriteBrick(b brick.Brick) error {
	styleIndex := w.internStyle(b)
	rec := encodeBrickRecord(styleIndex, b)
	n, err := w.tmpFile.Write(rec)
	if err != nil {
		return fmt.Errorf("brsave: writing brick record: %w", err)
	}
	w.tmpOffset += uint64(n)
	w.count++
	return nil
}

// WriteAll appends every brick in bricks, in order.
func (w *Writer) WriteAll(bricks []brick.Brick) error {
	for _, b := range bricks {
		if err := w.WriteBrick(b); err != nil {
			return err
		}
	}
	return nil
}

// Finalize writes the final archive file and releases the temp file.
func (w *Writer) Finalize() error {
	if w.finalized {
		return fmt.Errorf("brsave: already finalized")
	}
	w.finalized = true

	metaBytes, err := json.Marshal(w.meta)
	if err != nil {
		return fmt.Errorf("brsave: marshalling metadata: %w", err)
	}
	metaBytes, err = compressGzip(metaBytes)
	if err != nil {
		return fmt.Errorf("brsave: compressing metadata: %w", err)
	}

	styleBytes := make([]byte, 0, len(w.styles)*styleRecordSize)
	for _, s := range w.styles {
		styleBytes = append(styleBytes, encodeStyle(s)...)
	}

	metadataOffset := uint64(HeaderSize)
	styleOffset := metadataOffset + uint64(len(metaBytes))
	brickDataOffset := styleOffset + uint64(len(styleBytes))

	header := Header{
		BrickCount:      w.count,
		StyleCount:      uint32(len(w.styles)),
		MetadataOffset:  metadataOffset,
		MetadataLength:  uint64(len(metaBytes)),
		StyleOffset:     styleOffset,
		StyleLength:     uint64(len(styleBytes)),
		BrickDataOffset: brickDataOffset,
		BrickDataLength: w.tmpOffset,
	}

	out, err := os.Create(w.outputPath)
	if err != nil {
		return fmt.Errorf("brsave: creating output file: %w", err)
	}
	defer out.Close()

	if _, err := out.Write(header.Serialize()); err != nil {
		return fmt.Errorf("brsave: writing header: %w", err)
	}
	if _, err := out.Write(metaBytes); err != nil {
		return fmt.Errorf("brsave: writing metadata: %w", err)
	}
	if _, err := out.Write(styleBytes); err != nil {
		return fmt.Errorf("brsave: writing style table: %w", err)
	}
	if _, err := w.tmpFile.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("brsave: seeking temp file: %w", err)
	}
	if _, err := io.Copy(out, w.tmpFile); err != nil {
		return fmt.Errorf("brsave: copying brick data: %w", err)
	}

	tmpPath := w.tmpFile.Name()
	w.tmpFile.Close()
	os.Remove(tmpPath)
	return nil
}

// Abort discards the writer's temp file without producing an output file.
func (w *Writer) Abort() {
	if w.tmpFile == nil {
		return
	}
	tmpPath := w.tmpFile.Name()
	w.tmpFile.Close()
	os.Remove(tmpPath)
}

func compressGzip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := gw.Write(data); err != nil {
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
