// Package raster is an in-memory pixel transform engine over a dense grid of
// grayscale or packed-colour pixels.
//
// An Image owns its grid exclusively. Every mutator either rewrites the grid
// in place or builds a new grid and swaps it in together with the new width
// and height, so dimensions and grid never disagree. Every channel written
// back goes through pack, which clamps to [0,255].
//
// An Image is not safe for concurrent mutation.
package raster

import (
	"errors"
	"fmt"

	"github.com/Fepozopo/rimp/pkg/colormodel"
)

var (
	// ErrInvalidDimension reports a grid, or a resampling result, narrower or
	// shorter than one pixel, or an image smaller than a filter kernel.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrInvalidKernel reports an empty, ragged, non-square or even-sided kernel.
	ErrInvalidKernel = errors.New("invalid kernel")
	// ErrPixelOutOfRange reports a pixel the colour model cannot decode.
	ErrPixelOutOfRange = errors.New("pixel value out of range")
)

const (
	// LightenDarkenAmount is the per-channel step of Lighten and Darken.
	LightenDarkenAmount = 3
	maxBrightness       = colormodel.MaxChannel
	minBrightness       = 0
	opaque              = 255
)

// Image is a mutable raster of width×height pixels interpreted by a colour model.
type Image struct {
	model  colormodel.Model
	pixels [][]int
	width  int
	height int
}

// New builds an Image in the given mode using the default model for that mode.
// pixels is copied; the caller keeps ownership of its slice.
func New(mode colormodel.Mode, pixels [][]int) (*Image, error) {
	model, err := colormodel.For(mode)
	if err != nil {
		return nil, err
	}
	return NewWithModel(model, pixels)
}

// NewWithModel builds an Image interpreted by model. The grid must have at
// least one row, every row the same non-zero length, and every value decodable
// by model.
func NewWithModel(model colormodel.Model, pixels [][]int) (*Image, error) {
	if model == nil {
		return nil, fmt.Errorf("color model is nil")
	}
	height := len(pixels)
	if height == 0 {
		return nil, fmt.Errorf("image has no rows: %w", ErrInvalidDimension)
	}
	width := len(pixels[0])
	if width == 0 {
		return nil, fmt.Errorf("image has no columns: %w", ErrInvalidDimension)
	}
	// The core reads gray pixels as raw brightness, whatever the model accepts.
	gray := model.Mode() == colormodel.Grayscale
	grid := newGrid(width, height)
	for row := range pixels {
		if len(pixels[row]) != width {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", row, len(pixels[row]), width, ErrInvalidDimension)
		}
		for col, p := range pixels[row] {
			if !model.Valid(p) || (gray && (p < 0 || p > colormodel.MaxChannel)) {
				return nil, fmt.Errorf("pixel (%d,%d) = %d for %v image: %w", row, col, p, model.Mode(), ErrPixelOutOfRange)
			}
		}
		copy(grid[row], pixels[row])
	}
	return &Image{model: model, pixels: grid, width: width, height: height}, nil
}

// Width returns the number of columns.
func (img *Image) Width() int { return img.width }

// Height returns the number of rows.
func (img *Image) Height() int { return img.height }

// Mode returns the colour mode fixed at construction.
func (img *Image) Mode() colormodel.Mode { return img.model.Mode() }

// Model returns the colour model interpreting the pixels.
func (img *Image) Model() colormodel.Model { return img.model }

// IsColor reports whether pixels are packed colour values.
func (img *Image) IsColor() bool { return img.model.Mode() == colormodel.Color }

// At returns the raw pixel at row, col.
func (img *Image) At(row, col int) int { return img.pixels[row][col] }

// Pixels returns a copy of the grid, height rows of width values.
func (img *Image) Pixels() [][]int {
	out := newGrid(img.width, img.height)
	for row := range img.pixels {
		copy(out[row], img.pixels[row])
	}
	return out
}

// PixelsIntRGB flattens the grid row-major into packed 0xRRGGBB values.
// Grayscale values are broadcast to all three channels; colour pixels are
// returned as stored.
func (img *Image) PixelsIntRGB() []int {
	out := make([]int, img.width*img.height)
	for row := 0; row < img.height; row++ {
		for col := 0; col < img.width; col++ {
			p := img.pixels[row][col]
			if !img.IsColor() {
				p *= 0x10101
			}
			out[row*img.width+col] = p
		}
	}
	return out
}

// Clone returns an independent copy sharing only the colour model.
func (img *Image) Clone() *Image {
	return &Image{model: img.model, pixels: img.Pixels(), width: img.width, height: img.height}
}

// channels decodes p into red, green and blue.
func (img *Image) channels(p int) (r, g, b int) {
	if !img.IsColor() {
		return p, p, p
	}
	return img.model.Red(p), img.model.Green(p), img.model.Blue(p)
}

// pack clamps each channel to [0,255] and encodes the result. Grayscale
// images take the red channel as the pixel.
func (img *Image) pack(r, g, b int) int {
	r = clampInt(r, minBrightness, maxBrightness)
	g = clampInt(g, minBrightness, maxBrightness)
	b = clampInt(b, minBrightness, maxBrightness)
	if !img.IsColor() {
		return r
	}
	return img.model.Pack(r, g, b, opaque)
}

// average returns the per-channel floor average of two pixels.
func (img *Image) average(p1, p2 int) int {
	r1, g1, b1 := img.channels(p1)
	r2, g2, b2 := img.channels(p2)
	return img.pack((r1+r2)/2, (g1+g2)/2, (b1+b2)/2)
}

// replace swaps in a freshly built grid along with its dimensions.
func (img *Image) replace(grid [][]int, width, height int) {
	img.pixels = grid
	img.width = width
	img.height = height
}

// newGrid allocates height rows of width zeroed pixels backed by one slice.
func newGrid(width, height int) [][]int {
	backing := make([]int, width*height)
	grid := make([][]int, height)
	for row := range grid {
		grid[row] = backing[row*width : (row+1)*width : (row+1)*width]
	}
	return grid
}

// clampInt clamps v to [lo,hi]
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
