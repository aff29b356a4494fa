package raster

import (
	"fmt"
	"math"
	"runtime"
	"sync"
)

// Kernel is a square matrix of filter weights with an odd side length.
type Kernel [][]float64

// Size returns the side length of k.
func (k Kernel) Size() int { return len(k) }

// Edge returns the number of border pixels the kernel cannot reach.
func (k Kernel) Edge() int { return (len(k) - 1) / 2 }

// Validate reports ErrInvalidKernel unless k is non-empty, square and odd.
func (k Kernel) Validate() error {
	n := len(k)
	if n == 0 {
		return fmt.Errorf("empty kernel: %w", ErrInvalidKernel)
	}
	if n%2 == 0 {
		return fmt.Errorf("kernel side %d is even: %w", n, ErrInvalidKernel)
	}
	for i, row := range k {
		if len(row) != n {
			return fmt.Errorf("kernel row %d has %d weights, want %d: %w", i, len(row), n, ErrInvalidKernel)
		}
	}
	return nil
}

// BlurKernel returns the 3×3 box blur, every weight 1/9.
func BlurKernel() Kernel {
	const w = 1.0 / 9
	return Kernel{
		{w, w, w},
		{w, w, w},
		{w, w, w},
	}
}

// SharpenKernel returns a 3×3 sharpening kernel whose weights sum to one.
func SharpenKernel() Kernel {
	return Kernel{
		{0, -1, 0},
		{-1, 5, -1},
		{0, -1, 0},
	}
}

// EdgeDetectKernel returns a 3×3 Laplacian whose weights sum to zero.
func EdgeDetectKernel() Kernel {
	return Kernel{
		{-1, -1, -1},
		{-1, 8, -1},
		{-1, -1, -1},
	}
}

// GaussianKernel3x3 returns a 3×3 Gaussian blur.
func GaussianKernel3x3() Kernel {
	return Kernel{
		{1.0 / 16, 2.0 / 16, 1.0 / 16},
		{2.0 / 16, 4.0 / 16, 2.0 / 16},
		{1.0 / 16, 2.0 / 16, 1.0 / 16},
	}
}

// ApplyFilter convolves the image with kernel. Pixels within kernel.Edge() of
// any side are copied through unchanged; every other pixel becomes the packed,
// rounded per-channel weighted sum of its window in the unfiltered image.
//
// The kernel and the image size are checked before any pixel is touched.
func (img *Image) ApplyFilter(kernel Kernel) error {
	if err := kernel.Validate(); err != nil {
		return err
	}
	k := kernel.Size()
	if img.width < k || img.height < k {
		return fmt.Errorf("image %dx%d smaller than %dx%d kernel: %w", img.width, img.height, k, k, ErrInvalidDimension)
	}
	edge := kernel.Edge()
	src := img.pixels
	out := newGrid(img.width, img.height)
	for row := range src {
		copy(out[row], src[row])
	}

	// Rows are split into bands; each goroutine writes only its own rows of
	// out and reads only src.
	first, last := edge, img.height-edge
	bands := runtime.GOMAXPROCS(0)
	if n := last - first; bands > n {
		bands = n
	}
	step := (last - first + bands - 1) / bands
	var wg sync.WaitGroup
	for start := first; start < last; start += step {
		end := start + step
		if end > last {
			end = last
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for row := start; row < end; row++ {
				for col := edge; col < img.width-edge; col++ {
					out[row][col] = img.convolveAt(src, kernel, row, col)
				}
			}
		}(start, end)
	}
	wg.Wait()

	img.replace(out, img.width, img.height)
	return nil
}

// convolveAt returns the filtered pixel centred on row, col of src.
func (img *Image) convolveAt(src [][]int, kernel Kernel, row, col int) int {
	edge := kernel.Edge()
	var sumR, sumG, sumB float64
	for i, weights := range kernel {
		line := src[row+i-edge]
		for j, w := range weights {
			r, g, b := img.channels(line[col+j-edge])
			sumR += w * float64(r)
			sumG += w * float64(g)
			sumB += w * float64(b)
		}
	}
	return img.pack(roundChannel(sumR), roundChannel(sumG), roundChannel(sumB))
}

// roundChannel rounds v to the nearest int, saturating far outside the channel
// range so the conversion cannot overflow.
func roundChannel(v float64) int {
	if v < -1024 {
		return -1024
	}
	if v > 1024 {
		return 1024
	}
	return int(math.Round(v))
}
