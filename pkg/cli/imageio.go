package cli

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Fepozopo/rimp/pkg/colormodel"
	"github.com/Fepozopo/rimp/pkg/raster"
	"github.com/HugoSmits86/nativewebp"
	_ "github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Format names returned by LoadImage and accepted by Encode.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatGIF  = "gif"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
	FormatWebP = "webp"
	FormatTGA  = "tga"
)

// SaveOptions tunes the encoders used by SaveImage.
type SaveOptions struct {
	JPEGQuality int // 1-100; zero selects 92
}

// SaveOptionsFromConfig returns the encoder settings carried by cfg.
func SaveOptionsFromConfig(cfg Config) SaveOptions {
	return SaveOptions{JPEGQuality: cfg.JPEGQuality}
}

// LoadImage reads a file from disk and converts it to a raster image of the
// requested mode. The container is detected from the file signature, with
// the extension used for TGA, which has none. JPEGs are turned upright
// according to their EXIF orientation. It returns the detected format name.
func LoadImage(path string, mode colormodel.Mode) (*raster.Image, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	format := DetectFormat(b, path)
	if format == "" {
		return nil, "", fmt.Errorf("%s: unrecognised image format", path)
	}
	src, err := Decode(bytes.NewReader(b), format)
	if err != nil {
		return nil, format, fmt.Errorf("decode %s: %w", path, err)
	}
	img, err := raster.FromImage(src, mode)
	if err != nil {
		return nil, format, fmt.Errorf("convert %s: %w", path, err)
	}
	if format == FormatJPEG {
		if o, err := jpegOrientation(b); err == nil && o > 1 && o <= 8 {
			debugf("auto-orienting %s (orientation %d)", path, o)
			AutoOrient(img, o)
		}
	}
	debugf("loaded %s as %s (%dx%d, %s)", path, format, img.Width(), img.Height(), mode)
	return img, format, nil
}

// DetectFormat sniffs the magic bytes of data, falling back to the extension
// of path for TGA. It returns "" when nothing matches.
func DetectFormat(data []byte, path string) string {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return FormatPNG
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return FormatJPEG
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return FormatGIF
	case bytes.HasPrefix(data, []byte("BM")):
		return FormatBMP
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return FormatTIFF
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return FormatWebP
	}
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		return FormatTGA
	}
	return ""
}

// Decode decodes r with the decoder for format.
func Decode(r io.Reader, format string) (image.Image, error) {
	switch format {
	case FormatPNG:
		return png.Decode(r)
	case FormatJPEG:
		return jpeg.Decode(r)
	case FormatGIF:
		return gif.Decode(r)
	case FormatBMP:
		return bmp.Decode(r)
	case FormatTIFF:
		return tiff.Decode(r)
	case FormatWebP:
		return webp.Decode(r)
	case FormatTGA:
		// TGA registers without a signature, so it is only reached through
		// the extension check in DetectFormat.
		img, _, err := image.Decode(r)
		return img, err
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// FormatForPath maps an output filename to an encoder. Unknown extensions
// select PNG.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return FormatJPEG
	case ".gif":
		return FormatGIF
	case ".bmp":
		return FormatBMP
	case ".tif", ".tiff":
		return FormatTIFF
	case ".webp":
		return FormatWebP
	default:
		return FormatPNG
	}
}

// Encode writes img to w in the named format.
func Encode(w io.Writer, img image.Image, format string, opts SaveOptions) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		q := opts.JPEGQuality
		if q == 0 {
			q = 92
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	case FormatGIF:
		return gif.Encode(w, img, nil)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatWebP:
		return nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// SaveImage writes img to path using the format inferred from the filename
// extension. See FormatForPath.
func SaveImage(path string, img *raster.Image, opts SaveOptions) error {
	if img == nil {
		return fmt.Errorf("no image to save")
	}
	return SaveStdImage(path, img.ToNRGBA(), opts)
}

// SaveStdImage is SaveImage for any image.Image, such as a rendered
// histogram.
func SaveStdImage(path string, img image.Image, opts SaveOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	format := FormatForPath(path)
	if err := Encode(f, img, format, opts); err != nil {
		f.Close()
		return fmt.Errorf("encode %s as %s: %w", path, format, err)
	}
	debugf("saved %s as %s", path, format)
	return f.Close()
}

// GetImageInfo returns a one-line summary of img.
func GetImageInfo(img *raster.Image, format string) (string, error) {
	if img == nil {
		return "", fmt.Errorf("nil image")
	}
	if format == "" {
		format = "unknown"
	}
	return fmt.Sprintf("Format: %s, Mode: %s, Width: %d, Height: %d",
		strings.ToUpper(format), img.Mode(), img.Width(), img.Height()), nil
}
