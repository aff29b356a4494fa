package raster

// HistogramBins is the number of brightness levels counted by CalculateHistogram.
const HistogramBins = 256

// Brightness returns floor((r+g+b)/3) of pixel p as decoded by img's model.
func (img *Image) Brightness(p int) int {
	r, g, b := img.channels(p)
	return (r + g + b) / 3
}

// CalculateHistogram counts pixels per brightness level. For grayscale images
// this is a direct count of each gray value. The image is not modified.
func (img *Image) CalculateHistogram() [HistogramBins]int {
	var hist [HistogramBins]int
	for row := 0; row < img.height; row++ {
		for col := 0; col < img.width; col++ {
			hist[img.Brightness(img.pixels[row][col])]++
		}
	}
	return hist
}
