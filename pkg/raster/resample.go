package raster

import "fmt"

// Halve scales the image by one half in each dimension. Each output pixel is
// the average of the averages of the two columns of a 2×2 block:
//
//	avg(avg(p[2r][2c], p[2r+1][2c]), avg(p[2r][2c+1], p[2r+1][2c+1]))
//
// A trailing odd row or column is dropped. Images narrower or shorter than two
// pixels are rejected and left unchanged.
func (img *Image) Halve() error {
	newWidth := img.width / 2
	newHeight := img.height / 2
	if newWidth < 1 || newHeight < 1 {
		return fmt.Errorf("halve %dx%d: result would be %dx%d: %w", img.width, img.height, newWidth, newHeight, ErrInvalidDimension)
	}
	p := img.pixels
	img.remap(newWidth, newHeight, func(row, col int) int {
		return img.average(
			img.average(p[2*row][2*col], p[2*row+1][2*col]),
			img.average(p[2*row][2*col+1], p[2*row+1][2*col+1]))
	})
	return nil
}

// DoubleSize scales the image to (2w-1)×(2h-1). Source pixels land on even
// coordinates; odd rows and columns hold the average of the source pixel with
// its lower, right or lower-right neighbour. The last row and column are
// filled from the last source row and column, so every output pixel is
// defined.
func (img *Image) DoubleSize() {
	newWidth := img.width*2 - 1
	newHeight := img.height*2 - 1
	out := newGrid(newWidth, newHeight)
	p := img.pixels
	for row := 0; row < img.height; row++ {
		for col := 0; col < img.width; col++ {
			src := p[row][col]
			out[2*row][2*col] = src
			below := row+1 < img.height
			right := col+1 < img.width
			if below {
				out[2*row+1][2*col] = img.average(src, p[row+1][col])
			}
			if right {
				out[2*row][2*col+1] = img.average(src, p[row][col+1])
			}
			if below && right {
				out[2*row+1][2*col+1] = img.average(src, p[row+1][col+1])
			}
		}
	}
	img.replace(out, newWidth, newHeight)
}
