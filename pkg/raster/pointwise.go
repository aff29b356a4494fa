package raster

// mapChannels replaces every pixel with pack(fn(r), fn(g), fn(b)).
func (img *Image) mapChannels(fn func(v int) int) {
	for row := 0; row < img.height; row++ {
		for col := 0; col < img.width; col++ {
			r, g, b := img.channels(img.pixels[row][col])
			img.pixels[row][col] = img.pack(fn(r), fn(g), fn(b))
		}
	}
}

// Lighten raises every channel by LightenDarkenAmount.
func (img *Image) Lighten() {
	img.mapChannels(func(v int) int { return v + LightenDarkenAmount })
}

// Darken lowers every channel by LightenDarkenAmount.
func (img *Image) Darken() {
	img.mapChannels(func(v int) int { return v - LightenDarkenAmount })
}

// Negative replaces every channel with 255 minus its value.
func (img *Image) Negative() {
	img.mapChannels(func(v int) int { return maxBrightness - v })
}

// channelMeans returns the truncated per-channel mean over all pixels.
func (img *Image) channelMeans() (r, g, b int) {
	var sumR, sumG, sumB int64
	for row := 0; row < img.height; row++ {
		for col := 0; col < img.width; col++ {
			pr, pg, pb := img.channels(img.pixels[row][col])
			sumR += int64(pr)
			sumG += int64(pg)
			sumB += int64(pb)
		}
	}
	n := int64(img.width) * int64(img.height)
	return int(sumR / n), int(sumG / n), int(sumB / n)
}

// nudge moves v one step away from mean when away is true, one step toward it
// otherwise. A value equal to the mean is left alone.
func nudge(v, mean int, away bool) int {
	step := 0
	switch {
	case v > mean:
		step = 1
	case v < mean:
		step = -1
	}
	if !away {
		step = -step
	}
	return v + step
}

func (img *Image) stepContrast(away bool) {
	mr, mg, mb := img.channelMeans()
	for row := 0; row < img.height; row++ {
		for col := 0; col < img.width; col++ {
			r, g, b := img.channels(img.pixels[row][col])
			img.pixels[row][col] = img.pack(nudge(r, mr, away), nudge(g, mg, away), nudge(b, mb, away))
		}
	}
}

// EnhanceContrast moves each channel of each pixel one step away from that
// channel's mean over the whole image. Repeated calls keep stepping by one.
func (img *Image) EnhanceContrast() { img.stepContrast(true) }

// ReduceContrast moves each channel of each pixel one step toward that
// channel's mean over the whole image.
func (img *Image) ReduceContrast() { img.stepContrast(false) }
