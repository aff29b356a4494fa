package raster

// colorKeySpace is the range of cipher draws for packed colour pixels; it
// covers the red, green and blue bytes and leaves alpha alone.
const colorKeySpace = 1 << 24

// EncryptDecrypt XORs every pixel, row-major, with successive draws of a
// keyStream seeded with key: draws lie in [0, 2^24) for colour images and in
// [0, 256) for grayscale. Calling it twice with the same key restores the
// image.
func (img *Image) EncryptDecrypt(key int64) {
	ks := newKeyStream(key)
	bound := int32(colorKeySpace)
	if !img.IsColor() {
		bound = maxBrightness + 1
	}
	for row := 0; row < img.height; row++ {
		for col := 0; col < img.width; col++ {
			img.pixels[row][col] ^= int(ks.nextInt(bound))
		}
	}
}

// keyStream is the 48-bit linear congruential generator specified for
// java.util.Random: seed' = (seed*0x5DEECE66D + 0xB) mod 2^48, with the
// initial seed XORed with the multiplier. Ciphertext is therefore
// reproducible for a given key on every platform and matches images
// encrypted by the Java image editor.
type keyStream struct {
	seed uint64
}

const (
	lcgMultiplier = 0x5DEECE66D
	lcgAddend     = 0xB
	lcgMask       = (1 << 48) - 1
)

func newKeyStream(key int64) *keyStream {
	return &keyStream{seed: (uint64(key) ^ lcgMultiplier) & lcgMask}
}

// next advances the generator and returns its top bits as a signed 32-bit value.
func (ks *keyStream) next(bits uint) int32 {
	ks.seed = (ks.seed*lcgMultiplier + lcgAddend) & lcgMask
	return int32(ks.seed >> (48 - bits))
}

// nextInt returns a value in [0, bound). bound must be positive.
func (ks *keyStream) nextInt(bound int32) int32 {
	r := ks.next(31)
	m := bound - 1
	if bound&m == 0 {
		return int32((int64(bound) * int64(r)) >> 31)
	}
	// reject draws from the incomplete final bucket; u-r+m overflows int32
	// exactly when u falls there
	for u := r; ; u = ks.next(31) {
		r = u % bound
		if u-r+m >= 0 {
			return r
		}
	}
}
