// internal/codec/dpl/image.go
package dpl

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// ImageOptions tunes the <STX>I upload stream. The zero value is not
// usable; start from DefaultImageOptions.
type ImageOptions struct {
	// Module is the printer memory module designator.
	Module string
	// ASCIIHex sends the payload hex-encoded ('A' data-type flag).
	ASCIIHex bool
	// IncludeSOHDisable prefixes <SOH>D<CR> before a raw binary upload so
	// the printer stops interpreting SOH inside the image bytes.
	IncludeSOHDisable bool
	// MaxWidth/MaxHeight bound the converted raster in pixels.
	MaxWidth  int
	MaxHeight int
	// Threshold (0..255) splits gray into white (>=) and black (<).
	Threshold int
	// FixOrientation compensates the printer's mirrored, 90° CCW rendering
	// by pre-rotating 90° CW and mirroring.
	FixOrientation bool
	Dialect        Dialect
}

// DefaultImageOptions matches the deployed label printers.
func DefaultImageOptions() ImageOptions {
	return ImageOptions{
		Module:            "G",
		IncludeSOHDisable: true,
		MaxWidth:          100,
		MaxHeight:         100,
		Threshold:         128,
		FixOrientation:    true,
		Dialect:           DialectStandard,
	}
}

// EncodeImageUpload builds a DPL command stream storing an image on the
// printer:
//
//	[<SOH>D<CR>] <STX> I <module> [A] <format> <name> <CR> <image bytes>
//
// PNG and JPEG inputs are converted to 1-bit monochrome BMP (transparency
// flattened onto white, downscaled to fit the pixel box, orientation
// fixed, thresholded). BMP/PCX/IMG files pass through untouched with
// their format designator.
func EncodeImageUpload(img []byte, filename string, opts ImageOptions) ([]byte, error) {
	cc, err := Codes(opts.Dialect)
	if err != nil {
		return nil, err
	}
	if opts.Threshold < 0 || opts.Threshold > 255 {
		return nil, fmt.Errorf("threshold %d outside 0..255", opts.Threshold)
	}
	if opts.MaxWidth <= 0 || opts.MaxHeight <= 0 {
		return nil, fmt.Errorf("max image box must be positive, got %dx%d", opts.MaxWidth, opts.MaxHeight)
	}

	var payload []byte
	var format byte

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg":
		payload, err = convertToMonoBMP(img, opts)
		if err != nil {
			return nil, err
		}
		format = 'b'
	case ".bmp":
		payload, format = img, 'b'
	case ".pcx":
		payload, format = img, 'p'
	case ".img":
		payload, format = img, 'i'
	default:
		return nil, fmt.Errorf("unsupported image format %q: use .png/.jpg/.jpeg/.bmp/.pcx/.img", filepath.Ext(filename))
	}

	name := sanitizeName(stem(filename), 16, "IMAGE")

	var out []byte
	if opts.IncludeSOHDisable && !opts.ASCIIHex {
		out = append(out, cc.SOH, 'D', cc.CR)
	}

	out = append(out, cc.STX, 'I')
	out = append(out, opts.Module...)
	if opts.ASCIIHex {
		out = append(out, 'A')
	}
	out = append(out, format)
	out = append(out, name...)
	out = append(out, cc.CR)

	if opts.ASCIIHex {
		out = append(out, strings.ToUpper(hex.EncodeToString(payload))...)
	} else {
		out = append(out, payload...)
	}
	return out, nil
}

// convertToMonoBMP turns a PNG/JPEG into a 1-bit BMP the printer firmware
// accepts.
func convertToMonoBMP(data []byte, opts ImageOptions) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	// Flatten any transparency onto a white background
	bounds := src.Bounds()
	flat := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(flat, flat.Bounds(), image.White, image.Point{}, xdraw.Src)
	xdraw.Draw(flat, flat.Bounds(), src, bounds.Min, xdraw.Over)

	// Downscale to fit the box, preserving aspect
	w, h := flat.Bounds().Dx(), flat.Bounds().Dy()
	if w > opts.MaxWidth || h > opts.MaxHeight {
		scale := float64(opts.MaxWidth) / float64(w)
		if s := float64(opts.MaxHeight) / float64(h); s < scale {
			scale = s
		}
		dw, dh := int(float64(w)*scale), int(float64(h)*scale)
		if dw < 1 {
			dw = 1
		}
		if dh < 1 {
			dh = 1
		}
		scaled := image.NewRGBA(image.Rect(0, 0, dw, dh))
		xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), flat, flat.Bounds(), xdraw.Src, nil)
		flat = scaled
	}

	gray := toGray(flat)
	if opts.FixOrientation {
		gray = mirror(rotateCW(gray))
	}

	return encodeMonoBMP(gray, opts.Threshold), nil
}

func toGray(src image.Image) *image.Gray {
	bounds := src.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(gray, gray.Bounds(), src, bounds.Min, xdraw.Src)
	return gray
}

// rotateCW rotates 90° clockwise.
func rotateCW(src *image.Gray) *image.Gray {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewGray(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.SetGray(h-1-y, x, src.GrayAt(x, y))
		}
	}
	return dst
}

// mirror flips horizontally.
func mirror(src *image.Gray) *image.Gray {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.SetGray(w-1-x, y, src.GrayAt(x, y))
		}
	}
	return dst
}
