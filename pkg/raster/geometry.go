package raster

// remap builds a width×height grid where out[row][col] = src(row, col) and
// swaps it in. src reads only from the current grid.
func (img *Image) remap(width, height int, src func(row, col int) int) {
	out := newGrid(width, height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			out[row][col] = src(row, col)
		}
	}
	img.replace(out, width, height)
}

// FlipHorizontally mirrors the image left to right.
func (img *Image) FlipHorizontally() {
	w, old := img.width, img.pixels
	img.remap(img.width, img.height, func(row, col int) int {
		return old[row][w-1-col]
	})
}

// FlipVertically mirrors the image top to bottom.
func (img *Image) FlipVertically() {
	h, old := img.height, img.pixels
	img.remap(img.width, img.height, func(row, col int) int {
		return old[h-1-row][col]
	})
}

// ShiftHorizontally rotates every row by one column with wraparound:
// direction < 0 moves pixels left, direction > 0 moves them right.
func (img *Image) ShiftHorizontally(direction int) {
	if direction == 0 {
		return
	}
	w, old := img.width, img.pixels
	offset := 1 // source column relative to destination when shifting left
	if direction > 0 {
		offset = w - 1
	}
	img.remap(img.width, img.height, func(row, col int) int {
		return old[row][(col+offset)%w]
	})
}

// ShiftVertically rotates every column by one row with wraparound:
// direction < 0 moves pixels up, direction > 0 moves them down.
func (img *Image) ShiftVertically(direction int) {
	if direction == 0 {
		return
	}
	h, old := img.height, img.pixels
	offset := 1
	if direction > 0 {
		offset = h - 1
	}
	img.remap(img.width, img.height, func(row, col int) int {
		return old[(row+offset)%h][col]
	})
}

// Rotate turns the image 90 degrees clockwise. Width and height swap.
func (img *Image) Rotate() {
	oldH, old := img.height, img.pixels
	// out[col][newWidth-1-row] = in[row][col], with newWidth == oldH
	img.remap(img.height, img.width, func(row, col int) int {
		return old[oldH-1-col][row]
	})
}
