package raster

import (
	"fmt"
	"image"

	"github.com/Fepozopo/rimp/pkg/colormodel"
)

// FromImage converts any image.Image into an Image of the given mode.
// Grayscale images take floor((r+g+b)/3) of each 8-bit pixel; colour images
// pack r, g and b as opaque pixels. Source alpha is dropped.
func FromImage(src image.Image, mode colormodel.Mode) (*Image, error) {
	if src == nil {
		return nil, fmt.Errorf("source image is nil")
	}
	model, err := colormodel.For(mode)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("source image is %dx%d: %w", w, h, ErrInvalidDimension)
	}
	grid := newGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r16, g16, b16, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			r, g, bl := int(r16>>8), int(g16>>8), int(b16>>8)
			if mode == colormodel.Grayscale {
				grid[y][x] = (r + g + bl) / 3
			} else {
				grid[y][x] = model.Pack(r, g, bl, opaque)
			}
		}
	}
	return &Image{model: model, pixels: grid, width: w, height: h}, nil
}

// ToNRGBA renders the image as an opaque *image.NRGBA.
func (img *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.width, img.height))
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			r, g, b := img.channels(img.pixels[y][x])
			i := out.PixOffset(x, y)
			out.Pix[i+0] = uint8(r)
			out.Pix[i+1] = uint8(g)
			out.Pix[i+2] = uint8(b)
			out.Pix[i+3] = opaque
		}
	}
	return out
}
