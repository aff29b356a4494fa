package raster

import (
	"errors"
	"testing"

	"github.com/Fepozopo/rimp/pkg/colormodel"
)

// makeGray builds a width×height grayscale grid with values from fn.
func makeGray(t *testing.T, w, h int, fn func(row, col int) int) *Image {
	t.Helper()
	grid := make([][]int, h)
	for row := range grid {
		grid[row] = make([]int, w)
		for col := range grid[row] {
			grid[row][col] = fn(row, col)
		}
	}
	img, err := New(colormodel.Grayscale, grid)
	if err != nil {
		t.Fatalf("New gray %dx%d: %v", w, h, err)
	}
	return img
}

// makeColor builds a width×height colour image whose channels derive from
// row and col so that no two neighbours are equal.
func makeColor(t *testing.T, w, h int) *Image {
	t.Helper()
	m := colormodel.ARGB{}
	grid := make([][]int, h)
	for row := range grid {
		grid[row] = make([]int, w)
		for col := range grid[row] {
			grid[row][col] = m.Pack((row*37+col*11)%256, (row*7+col*53)%256, (row*101+col*3)%256, 255)
		}
	}
	img, err := New(colormodel.Color, grid)
	if err != nil {
		t.Fatalf("New color %dx%d: %v", w, h, err)
	}
	return img
}

func sequential4x4(t *testing.T) *Image {
	return makeGray(t, 4, 4, func(row, col int) int { return row*4 + col })
}

func assertGrid(t *testing.T, img *Image, want [][]int) {
	t.Helper()
	if img.Height() != len(want) || img.Width() != len(want[0]) {
		t.Fatalf("dimensions %dx%d; want %dx%d", img.Width(), img.Height(), len(want[0]), len(want))
	}
	got := img.Pixels()
	for row := range want {
		for col := range want[row] {
			if got[row][col] != want[row][col] {
				t.Fatalf("pixel (%d,%d) = %d; want %d\ngot  %v\nwant %v", row, col, got[row][col], want[row][col], got, want)
			}
		}
	}
}

func sameImage(a, b *Image) bool {
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return false
	}
	for row := 0; row < a.Height(); row++ {
		for col := 0; col < a.Width(); col++ {
			if a.At(row, col) != b.At(row, col) {
				return false
			}
		}
	}
	return true
}

func checkConsistent(t *testing.T, img *Image) {
	t.Helper()
	px := img.Pixels()
	if len(px) != img.Height() {
		t.Fatalf("grid has %d rows; height %d", len(px), img.Height())
	}
	for row := range px {
		if len(px[row]) != img.Width() {
			t.Fatalf("row %d has %d columns; width %d", row, len(px[row]), img.Width())
		}
	}
}

func TestNewValidation(t *testing.T) {
	cases := []struct {
		name string
		mode colormodel.Mode
		grid [][]int
		want error
	}{
		{"no rows", colormodel.Grayscale, [][]int{}, ErrInvalidDimension},
		{"no columns", colormodel.Grayscale, [][]int{{}}, ErrInvalidDimension},
		{"ragged", colormodel.Grayscale, [][]int{{1, 2}, {3}}, ErrInvalidDimension},
		{"gray too bright", colormodel.Grayscale, [][]int{{0, 256}}, ErrPixelOutOfRange},
		{"gray negative", colormodel.Grayscale, [][]int{{-1}}, ErrPixelOutOfRange},
		{"color negative", colormodel.Color, [][]int{{-5}}, ErrPixelOutOfRange},
	}
	for _, c := range cases {
		img, err := New(c.mode, c.grid)
		if !errors.Is(err, c.want) {
			t.Fatalf("%s: err = %v; want %v", c.name, err, c.want)
		}
		if img != nil {
			t.Fatalf("%s: expected nil image on error", c.name)
		}
	}
}

// looseGray is a grayscale model that accepts any pixel.
type looseGray struct{ colormodel.Gray }

func (looseGray) Valid(int) bool { return true }

func TestNewWithModelGrayRange(t *testing.T) {
	for _, grid := range [][][]int{{{300, 10}}, {{0, -4}}} {
		img, err := NewWithModel(looseGray{}, grid)
		if !errors.Is(err, ErrPixelOutOfRange) {
			t.Fatalf("NewWithModel(%v): err = %v; want %v", grid, err, ErrPixelOutOfRange)
		}
		if img != nil {
			t.Fatalf("NewWithModel(%v): expected nil image on error", grid)
		}
	}

	img, err := NewWithModel(looseGray{}, [][]int{{0, 255}})
	if err != nil {
		t.Fatalf("NewWithModel in range: %v", err)
	}
	hist := img.CalculateHistogram()
	if hist[0] != 1 || hist[255] != 1 {
		t.Fatalf("histogram ends = %d, %d; want 1, 1", hist[0], hist[255])
	}
}

func TestNewCopiesInput(t *testing.T) {
	grid := [][]int{{1, 2}, {3, 4}}
	img, err := New(colormodel.Grayscale, grid)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	grid[0][0] = 99
	if img.At(0, 0) != 1 {
		t.Fatalf("image aliases caller grid")
	}
	px := img.Pixels()
	px[1][1] = 77
	if img.At(1, 1) != 4 {
		t.Fatalf("Pixels() aliases the image grid")
	}
}

func TestPixelsIntRGB(t *testing.T) {
	gray := makeGray(t, 2, 1, func(_, col int) int { return []int{0x12, 0xff}[col] })
	got := gray.PixelsIntRGB()
	if got[0] != 0x121212 || got[1] != 0xffffff {
		t.Fatalf("gray PixelsIntRGB = %#x", got)
	}
	col := makeColor(t, 3, 2)
	flat := col.PixelsIntRGB()
	if len(flat) != 6 {
		t.Fatalf("len = %d; want 6", len(flat))
	}
	if flat[1*3+2] != col.At(1, 2) {
		t.Fatalf("color PixelsIntRGB not row-major")
	}
}

func TestPackClamps(t *testing.T) {
	gray := makeGray(t, 1, 1, func(_, _ int) int { return 0 })
	if got := gray.pack(300, 300, 300); got != 255 {
		t.Fatalf("gray pack(300) = %d", got)
	}
	if got := gray.pack(-4, -4, -4); got != 0 {
		t.Fatalf("gray pack(-4) = %d", got)
	}
	col := makeColor(t, 1, 1)
	p := col.pack(-10, 128, 999)
	m := colormodel.ARGB{}
	if m.Red(p) != 0 || m.Green(p) != 128 || m.Blue(p) != 255 || m.Alpha(p) != 255 {
		t.Fatalf("color pack = %#x", p)
	}
}

func TestAverageFloors(t *testing.T) {
	gray := makeGray(t, 1, 1, func(_, _ int) int { return 0 })
	if got := gray.average(3, 6); got != 4 {
		t.Fatalf("average(3,6) = %d; want 4", got)
	}
	m := colormodel.ARGB{}
	col := makeColor(t, 1, 1)
	got := col.average(m.Pack(1, 10, 255, 255), m.Pack(2, 21, 0, 255))
	if m.Red(got) != 1 || m.Green(got) != 15 || m.Blue(got) != 127 {
		t.Fatalf("color average = %#x", got)
	}
}

func TestClone(t *testing.T) {
	img := sequential4x4(t)
	c := img.Clone()
	c.Negative()
	if img.At(0, 1) != 1 {
		t.Fatalf("Clone shares the grid")
	}
}
