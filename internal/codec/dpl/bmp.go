// internal/codec/dpl/bmp.go
package dpl

import (
	"encoding/binary"
	"image"
)

// encodeMonoBMP writes a 1-bit-per-pixel BMP file from a grayscale image,
// thresholding each pixel. Hand-rolled because neither the standard
// library nor golang.org/x/image/bmp can emit 1-bpp BMP, and the printer
// firmware rejects deeper pixel formats.
//
// Layout: 14-byte file header, 40-byte BITMAPINFOHEADER, 2-entry palette
// (black, white), rows bottom-up and padded to 4 bytes.
func encodeMonoBMP(src *image.Gray, threshold int) []byte {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()

	rowSize := ((w + 31) / 32) * 4
	pixelOffset := 14 + 40 + 2*4
	fileSize := pixelOffset + rowSize*h

	out := make([]byte, fileSize)

	// BITMAPFILEHEADER
	out[0], out[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(out[2:], uint32(fileSize))
	binary.LittleEndian.PutUint32(out[10:], uint32(pixelOffset))

	// BITMAPINFOHEADER
	binary.LittleEndian.PutUint32(out[14:], 40)
	binary.LittleEndian.PutUint32(out[18:], uint32(w))
	binary.LittleEndian.PutUint32(out[22:], uint32(h))
	binary.LittleEndian.PutUint16(out[26:], 1) // planes
	binary.LittleEndian.PutUint16(out[28:], 1) // bits per pixel
	binary.LittleEndian.PutUint32(out[34:], uint32(rowSize*h))

	// Palette: index 0 black, index 1 white (B, G, R, reserved)
	out[54], out[55], out[56] = 0x00, 0x00, 0x00
	out[58], out[59], out[60] = 0xFF, 0xFF, 0xFF

	// Pixel rows, bottom-up; bit set = white
	for y := 0; y < h; y++ {
		row := out[pixelOffset+(h-1-y)*rowSize:]
		for x := 0; x < w; x++ {
			if int(src.GrayAt(x, y).Y) >= threshold {
				row[x/8] |= 0x80 >> (x % 8)
			}
		}
	}

	return out
}
