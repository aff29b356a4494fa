package cli

import (
	"encoding/binary"
	"fmt"

	"github.com/Fepozopo/rimp/pkg/raster"
)

const exifOrientationTag = 0x0112

// AutoOrient applies an EXIF orientation (1..8) to img in place. Orientation
// 1 and unknown values leave img untouched.
func AutoOrient(img *raster.Image, orientation int) {
	switch orientation {
	case 2:
		img.FlipHorizontally()
	case 3:
		img.Rotate()
		img.Rotate()
	case 4:
		img.FlipVertically()
	case 5:
		// transpose
		img.Rotate()
		img.FlipHorizontally()
	case 6:
		img.Rotate()
	case 7:
		// transverse
		img.Rotate()
		img.FlipVertically()
	case 8:
		img.Rotate()
		img.Rotate()
		img.Rotate()
	}
}

// jpegOrientation returns the orientation tag from the Exif APP1 segment of
// a JPEG stream.
func jpegOrientation(data []byte) (int, error) {
	tiffStart, err := exifTIFFStart(data)
	if err != nil {
		return 0, err
	}
	if tiffStart+8 > len(data) {
		return 0, fmt.Errorf("tiff header truncated")
	}
	var order binary.ByteOrder
	switch string(data[tiffStart : tiffStart+2]) {
	case "MM":
		order = binary.BigEndian
	case "II":
		order = binary.LittleEndian
	default:
		return 0, fmt.Errorf("unknown tiff byte order")
	}
	if order.Uint16(data[tiffStart+2:tiffStart+4]) != 0x002A {
		return 0, fmt.Errorf("invalid tiff magic")
	}
	ifd := tiffStart + int(order.Uint32(data[tiffStart+4:tiffStart+8]))
	if ifd+2 > len(data) {
		return 0, fmt.Errorf("ifd truncated")
	}
	n := int(order.Uint16(data[ifd : ifd+2]))
	for e := 0; e < n; e++ {
		ent := ifd + 2 + e*12
		if ent+12 > len(data) {
			break
		}
		if order.Uint16(data[ent:ent+2]) != exifOrientationTag {
			continue
		}
		// SHORT, count 1: the value sits in the first two bytes of the field
		if typ := order.Uint16(data[ent+2 : ent+4]); typ != 3 {
			return 0, fmt.Errorf("orientation has type %d, want SHORT", typ)
		}
		return int(order.Uint16(data[ent+8 : ent+10])), nil
	}
	return 0, fmt.Errorf("orientation tag not found")
}

// exifTIFFStart scans JPEG segments for an APP1 Exif block and returns the
// offset where its TIFF header begins.
func exifTIFFStart(data []byte) (int, error) {
	if len(data) < 4 {
		return -1, fmt.Errorf("data too short")
	}
	i := 2 // skip SOI
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			i++
			continue
		}
		marker := data[i+1]
		if marker == 0xDA { // start of scan
			break
		}
		segLen := int(data[i+2])<<8 | int(data[i+3])
		if marker == 0xE1 && segLen >= 8 && i+10 <= len(data) && string(data[i+4:i+10]) == "Exif\x00\x00" {
			return i + 10, nil
		}
		if segLen <= 2 {
			i += 2
		} else {
			i += 2 + segLen
		}
	}
	return -1, fmt.Errorf("no exif segment")
}
