// Package colormodel maps packed pixel integers to and from their red, green
// and blue channels. The raster engine consumes a Model and never assumes a
// particular encoding beyond these operations.
package colormodel

import "fmt"

// Mode is the colour mode of an image. It never changes after construction.
type Mode int

const (
	Grayscale Mode = iota
	Color
)

func (m Mode) String() string {
	switch m {
	case Grayscale:
		return "grayscale"
	case Color:
		return "color"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "gray", "grayscale", "color" or "colour".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "gray", "grey", "grayscale", "greyscale":
		return Grayscale, nil
	case "color", "colour", "rgb":
		return Color, nil
	}
	return 0, fmt.Errorf("unknown color mode: %q", s)
}

// MaxChannel is the largest value a single channel can hold.
const MaxChannel = 255

// Model decodes and encodes pixels for one colour mode.
type Model interface {
	Mode() Mode
	Red(pixel int) int
	Green(pixel int) int
	Blue(pixel int) int
	// Pack encodes already-clamped channels into a pixel.
	Pack(r, g, b, a int) int
	// Valid reports whether pixel can be decoded by this model.
	Valid(pixel int) bool
}

// For returns the default model for mode.
func For(mode Mode) (Model, error) {
	switch mode {
	case Grayscale:
		return Gray{}, nil
	case Color:
		return ARGB{}, nil
	}
	return nil, fmt.Errorf("unknown color mode: %v", mode)
}

// Gray treats a pixel as a raw brightness in [0,255]; all three channels
// equal the pixel and Pack returns red.
type Gray struct{}

func (Gray) Mode() Mode              { return Grayscale }
func (Gray) Red(p int) int           { return p }
func (Gray) Green(p int) int         { return p }
func (Gray) Blue(p int) int          { return p }
func (Gray) Pack(r, _, _, _ int) int { return r }
func (Gray) Valid(p int) bool        { return p >= 0 && p <= MaxChannel }

// ARGB packs channels as 0xAARRGGBB, the layout of the default RGB colour
// model of most windowing toolkits.
type ARGB struct{}

func (ARGB) Mode() Mode       { return Color }
func (ARGB) Red(p int) int    { return (p >> 16) & 0xff }
func (ARGB) Green(p int) int  { return (p >> 8) & 0xff }
func (ARGB) Blue(p int) int   { return p & 0xff }
func (ARGB) Alpha(p int) int  { return (p >> 24) & 0xff }
func (ARGB) Valid(p int) bool { return p >= 0 && uint64(p) <= 0xffffffff }

func (ARGB) Pack(r, g, b, a int) int {
	return (a&0xff)<<24 | (r&0xff)<<16 | (g&0xff)<<8 | b&0xff
}
