// internal/codec/dpl/font.go
package dpl

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// DefaultFontModule is the printer memory module used for scalable fonts.
const DefaultFontModule = "D"

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// EncodeFontUpload builds a <STX>i command stream that stores a TTF file
// as a scalable font:
//
//	<STX> i <module> T <font id> <name> <CR> <8-hex size> <font bytes>
//
// fontID must be a 2-digit reference in the range 11-99.
func EncodeFontUpload(font []byte, filename string, fontID int, module string, dialect Dialect) ([]byte, error) {
	cc, err := Codes(dialect)
	if err != nil {
		return nil, err
	}

	if fontID < 11 || fontID > 99 {
		return nil, fmt.Errorf("font id %d outside 11-99", fontID)
	}
	if module == "" {
		module = DefaultFontModule
	}

	name := sanitizeName(stem(filename), 32, "FONT")
	sizeHex := fmt.Sprintf("%08X", len(font))

	header := make([]byte, 0, len(name)+16)
	header = append(header, cc.STX)
	header = append(header, 'i')
	header = append(header, module...)
	header = append(header, 'T')
	header = append(header, strconv.Itoa(fontID)...)
	header = append(header, name...)
	header = append(header, cc.CR)
	header = append(header, sizeHex...)

	return append(header, font...), nil
}

// sanitizeName makes a stored object name ASCII-safe: everything outside
// [A-Za-z0-9_.-] collapses to "_", truncated to maxLen, falling back when
// nothing printable remains.
func sanitizeName(name string, maxLen int, fallback string) string {
	safe := unsafeNameChars.ReplaceAllString(name, "_")
	if len(safe) > maxLen {
		safe = safe[:maxLen]
	}
	if safe == "" {
		return fallback
	}
	return safe
}

// stem strips the file extension from a name.
func stem(filename string) string {
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}
