package engine

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Fepozopo/rimp/pkg/raster"
)

const (
	defaultHistogramWidth  = 512
	defaultHistogramHeight = 160
	// labelBand is the strip under the bars reserved for axis labels.
	labelBand = 16
)

var (
	histBackground = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	histBar        = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	histText       = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
)

// RenderHistogramImage draws hist as a bar chart, one bar per brightness
// level, scaled to width×height. Images at least 32 pixels tall get a label
// strip with the axis range and the tallest bar's count.
func RenderHistogramImage(hist [raster.HistogramBins]int, width, height int) *image.NRGBA {
	if width <= 0 {
		width = defaultHistogramWidth
	}
	if height <= 0 {
		height = defaultHistogramHeight
	}
	plotH := height
	labelled := height >= 2*labelBand
	if labelled {
		plotH = height - labelBand
	}

	maxv := 1
	for _, v := range hist {
		if v > maxv {
			maxv = v
		}
	}

	// draw at one column per bin, then scale to the requested width
	plot := image.NewNRGBA(image.Rect(0, 0, raster.HistogramBins, plotH))
	draw.Draw(plot, plot.Bounds(), image.NewUniform(histBackground), image.Point{}, draw.Src)
	for bin, v := range hist {
		bh := (v*plotH + maxv - 1) / maxv
		for y := 0; y < bh; y++ {
			plot.SetNRGBA(bin, plotH-1-y, histBar)
		}
	}

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), image.NewUniform(histBackground), image.Point{}, draw.Src)
	draw.NearestNeighbor.Scale(out, image.Rect(0, 0, width, plotH), plot, plot.Bounds(), draw.Src, nil)

	if labelled {
		baseline := height - 3
		drawLabel(out, "0", 1, baseline)
		last := fmt.Sprintf("%d", raster.HistogramBins-1)
		drawLabel(out, last, width-1-textWidth(last), baseline)
		peak := fmt.Sprintf("max %d", maxv)
		drawLabel(out, peak, (width-textWidth(peak))/2, baseline)
	}
	return out
}

func textWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Round()
}

func drawLabel(dst *image.NRGBA, text string, x, y int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(histText),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// FormatHistogram renders hist as text: one line per non-empty level,
// "level: count".
func FormatHistogram(hist [raster.HistogramBins]int) string {
	var sb strings.Builder
	for level, n := range hist {
		if n == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%3d: %d\n", level, n)
	}
	return sb.String()
}
