package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fepozopo/rimp/pkg/colormodel"
	"github.com/Fepozopo/rimp/pkg/raster"
)

func newGray(t *testing.T, w, h int) *raster.Image {
	t.Helper()
	grid := make([][]int, h)
	for r := range grid {
		grid[r] = make([]int, w)
		for c := range grid[r] {
			grid[r][c] = (r*w + c) % 256
		}
	}
	img, err := raster.New(colormodel.Grayscale, grid)
	require.NoError(t, err)
	return img
}

func TestCommandsRegistryMatchesApply(t *testing.T) {
	args := map[string][]string{
		"shiftHorizontal": {"1"},
		"shiftVertical":   {"-1"},
		"encrypt":         {"99"},
		"filter":          {"blur"},
	}
	for _, c := range Commands {
		img := newGray(t, 6, 6)
		err := Apply(img, c.Name, args[c.Name])
		assert.NoError(t, err, "command %s", c.Name)
		_, ok := Lookup(c.Name)
		assert.True(t, ok, "Lookup(%s)", c.Name)
	}
	_, ok := Lookup("sepia")
	assert.False(t, ok)
}

func TestApplyUnknownCommand(t *testing.T) {
	err := Apply(newGray(t, 2, 2), "sepia", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported command")

	require.Error(t, Apply(nil, "negative", nil))
}

func TestApplyArgErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"shiftHorizontal", nil},
		{"shiftVertical", []string{"up"}},
		{"encrypt", nil},
		{"encrypt", []string{"abc"}},
		{"filter", []string{"1,2,3"}},
	}
	for _, c := range cases {
		img := newGray(t, 4, 4)
		before := img.Pixels()
		err := Apply(img, c.name, c.args)
		assert.Error(t, err, "%s %v", c.name, c.args)
		assert.Equal(t, before, img.Pixels(), "%s modified the image on error", c.name)
	}
}

func TestApplyEncryptRoundTrip(t *testing.T) {
	img := newGray(t, 5, 4)
	before := img.Pixels()
	require.NoError(t, Apply(img, "encrypt", []string{"12345"}))
	assert.NotEqual(t, before, img.Pixels())
	require.NoError(t, Apply(img, "encrypt", []string{" 12345 "}))
	assert.Equal(t, before, img.Pixels())
}

func TestApplyResamplingDims(t *testing.T) {
	img := newGray(t, 5, 3)
	require.NoError(t, Apply(img, "rotate", nil))
	assert.Equal(t, 3, img.Width())
	assert.Equal(t, 5, img.Height())

	require.NoError(t, Apply(img, "double", nil))
	assert.Equal(t, 5, img.Width())
	assert.Equal(t, 9, img.Height())

	require.NoError(t, Apply(img, "halve", nil))
	assert.Equal(t, 2, img.Width())
	assert.Equal(t, 4, img.Height())

	tiny := newGray(t, 1, 1)
	assert.ErrorIs(t, Apply(tiny, "halve", nil), raster.ErrInvalidDimension)
}

func TestParseKernel(t *testing.T) {
	k, err := ParseKernel("sharpen")
	require.NoError(t, err)
	assert.Equal(t, raster.SharpenKernel(), k)

	k, err = ParseKernel("1/9,1/9,1/9, 1/9,1/9,1/9, 1/9,1/9,1/9")
	require.NoError(t, err)
	require.Equal(t, 3, k.Size())
	assert.InDelta(t, 1.0/9, k[2][1], 1e-12)

	k, err = ParseKernel("0.5")
	require.NoError(t, err)
	assert.Equal(t, raster.Kernel{{0.5}}, k)

	_, err = ParseKernel("1,0,0,1")
	assert.ErrorIs(t, err, raster.ErrInvalidKernel)

	_, err = ParseKernel("1,2,3")
	assert.ErrorIs(t, err, raster.ErrInvalidKernel)

	_, err = ParseKernel("1,x,0,0,1,0,0,0,1")
	assert.Error(t, err)

	_, err = ParseKernel("1/0")
	assert.Error(t, err)
}

func TestApplyFilterTooSmall(t *testing.T) {
	img := newGray(t, 2, 2)
	assert.ErrorIs(t, Apply(img, "filter", []string{"edge"}), raster.ErrInvalidDimension)
}
