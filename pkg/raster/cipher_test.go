package raster

import (
	"testing"

	"github.com/Fepozopo/rimp/pkg/colormodel"
)

func TestKeyStreamMatchesReferenceLCG(t *testing.T) {
	ks := newKeyStream(42)
	if got := ks.next(32); got != -1170105035 {
		t.Fatalf("first 32-bit draw for seed 42 = %d; want -1170105035", got)
	}
	cases := []struct {
		key   int64
		bound int32
		want  []int32
	}{
		{42, 10, []int32{0, 3, 8, 4, 0}},
		{42, 256, []int32{186, 13, 174, 12, 79, 241}},
		{42, 1 << 24, []int32{12206493, 917130, 11462587, 804288}},
		{-7, 256, []int32{68, 230, 172, 242}},
		{0, 100, []int32{60, 48, 29, 47}},
	}
	for _, c := range cases {
		ks := newKeyStream(c.key)
		for i, w := range c.want {
			if got := ks.nextInt(c.bound); got != w {
				t.Fatalf("key %d bound %d draw %d = %d; want %d", c.key, c.bound, i, got, w)
			}
		}
	}
}

func TestEncryptDecryptGrayKnownValues(t *testing.T) {
	img := makeGray(t, 3, 2, func(_, _ int) int { return 0 })
	img.EncryptDecrypt(42)
	assertGrid(t, img, [][]int{{186, 13, 174}, {12, 79, 241}})
}

func TestEncryptDecryptColorKeepsAlpha(t *testing.T) {
	m := colormodel.ARGB{}
	img := makeColor(t, 4, 4)
	img.EncryptDecrypt(42)
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if a := m.Alpha(img.At(row, col)); a != 255 {
				t.Fatalf("alpha at (%d,%d) = %d", row, col, a)
			}
		}
	}
	black, err := New(colormodel.Color, [][]int{{m.Pack(0, 0, 0, 255)}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	black.EncryptDecrypt(42)
	if got := black.At(0, 0); got != 0xff000000|12206493 {
		t.Fatalf("encrypted black = %#x", got)
	}
}

func TestEncryptDecryptInverse(t *testing.T) {
	keys := []int64{0, 1, 42, -7, 1 << 40, -1 << 62}
	for _, key := range keys {
		for _, img := range []*Image{sequential4x4(t), makeColor(t, 9, 5)} {
			orig := img.Clone()
			img.EncryptDecrypt(key)
			if sameImage(img, orig) {
				t.Fatalf("key %d: encryption left %v image unchanged", key, img.Mode())
			}
			img.EncryptDecrypt(key)
			if !sameImage(img, orig) {
				t.Fatalf("key %d: decrypt did not restore %v image", key, img.Mode())
			}
		}
	}
}

func TestEncryptDecryptWrongKey(t *testing.T) {
	img := makeColor(t, 4, 4)
	orig := img.Clone()
	img.EncryptDecrypt(1)
	img.EncryptDecrypt(2)
	if sameImage(img, orig) {
		t.Fatalf("decrypting with a different key restored the image")
	}
}
