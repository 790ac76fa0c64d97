// Package source implements the Heightmap and Colormap interfaces the
// brick reducer consumes, backed by decoded raster images.
package source

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/webp"
)

// decodeImageFile reads and decodes a single image file, dispatching on
// its file extension.
func decodeImageFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding PNG %s: %w", path, err)
		}
		return img, nil
	case ".jpg", ".jpeg":
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding JPEG %s: %w", path, err)
		}
		return img, nil
	case ".webp":
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding WebP %s: %w", path, err)
		}
		return img, nil
	default:
		return nil, fmt.Errorf("unsupported image format %q for %s", ext, path)
	}
}

// PNGHeightmap is an image-backed Heightmap. It sums the red channel of one
// or more equally-sized images, so a heightmap's precision can be spread
// across several 8-bit images.
type PNGHeightmap struct {
	images []image.Image
	width  uint32
	height uint32
}

// NewPNGHeightmap decodes one or more image files, all of which must share
// the same dimensions, and builds a Heightmap that sums their red channels
// per pixel.
func NewPNGHeightmap(paths ...string) (*PNGHeightmap, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("heightmap requires at least one image")
	}

	images := make([]image.Image, 0, len(paths))
	var width, height int
	for i, p := range paths {
		img, err := decodeImageFile(p)
		if err != nil {
			return nil, err
		}
		b := img.Bounds()
		if i == 0 {
			width, height = b.Dx(), b.Dy()
		} else if b.Dx() != width || b.Dy() != height {
			return nil, fmt.Errorf("mismatched heightmap image sizes: %s is %dx%d, want %dx%d",
				p, b.Dx(), b.Dy(), width, height)
		}
		images = append(images, img)
	}

	return &PNGHeightmap{images: images, width: uint32(width), height: uint32(height)}, nil
}

func (m *PNGHeightmap) At(x, y uint32) uint32 {
	var sum uint32
	for _, img := range m.images {
		r, _, _, _ := img.At(int(x), int(y)).RGBA()
		sum += r >> 8
	}
	return sum
}

func (m *PNGHeightmap) Size() (uint32, uint32) { return m.width, m.height }

// FlatHeightmap always returns height 1, used for GenOptions.Img mode
// where only the colormap's appearance matters.
type FlatHeightmap struct {
	width, height uint32
}

// NewFlatHeightmap builds a Heightmap of the given size that reports a
// uniform height of 1 everywhere.
func NewFlatHeightmap(width, height uint32) *FlatHeightmap {
	return &FlatHeightmap{width: width, height: height}
}

func (m *FlatHeightmap) At(x, y uint32) uint32  { return 1 }
func (m *FlatHeightmap) Size() (uint32, uint32) { return m.width, m.height }

// PNGColormap is an image-backed Colormap.
type PNGColormap struct {
	img    image.Image
	width  uint32
	height uint32
	linear bool
}

// NewPNGColormap decodes an image file as a colormap. When linear is true,
// pixels are converted from sRGB to linear RGB on read.
func NewPNGColormap(path string, linear bool) (*PNGColormap, error) {
	img, err := decodeImageFile(path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &PNGColormap{img: img, width: uint32(b.Dx()), height: uint32(b.Dy()), linear: linear}, nil
}

func (m *PNGColormap) At(x, y uint32) [4]uint8 {
	c := color.NRGBAModel.Convert(m.img.At(int(x), int(y))).(color.NRGBA)
	if !m.linear {
		return [4]uint8{c.R, c.G, c.B, c.A}
	}
	return [4]uint8{SRGBToLinear(c.R), SRGBToLinear(c.G), SRGBToLinear(c.B), c.A}
}

func (m *PNGColormap) Size() (uint32, uint32) { return m.width, m.height }
