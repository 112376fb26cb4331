// internal/codec/tenzom/tenzom.go

// Package tenzom implements the Tenzo-M binary scale protocol: fixed
// 6-byte request frames and checksum-guarded 10-byte weight responses.
package tenzom

import (
	"strconv"

	"github.com/shopspring/decimal"

	"device-gateway/pkg/driver"
)

// Request frames are fixed; the checksum byte for each command is
// precomputed, the algorithm only runs on responses.
var (
	ReadGross = []byte{0xFF, 0x01, 0xC3, 0xE3, 0xFF, 0xFF}
	ReadNet   = []byte{0xFF, 0x01, 0xC2, 0x8A, 0xFF, 0xFF}
	ZeroTare  = []byte{0xFF, 0x01, 0xC0, 0x58, 0xFF, 0xFF}
)

// CON byte layout: bit7 sign, bit4 stable, bit3 overload, bits2..0
// decimal point position.
const (
	conSign     = 0x80
	conStable   = 0x10
	conOverload = 0x08
	conDecimals = 0x07
)

// crcStep performs one step of the protocol's rotate-XOR checksum, ported
// from the vendor's assembler routine: rotate AL left through carry, rotate
// AH left consuming that carry, XOR AH with 0x69 when AH's own carry is set.
func crcStep(al, ah byte) byte {
	for i := 0; i < 8; i++ {
		carryAL := al >> 7
		al = al<<1 | carryAL

		carryAH := ah >> 7
		ah = ah<<1 | carryAL

		if carryAH == 1 {
			ah ^= 0x69
		}
	}
	return ah
}

// Checksum computes the frame checksum over data plus one implicit
// trailing zero byte.
func Checksum(data []byte) byte {
	var crc byte
	for _, b := range data {
		crc = crcStep(b, crc)
	}
	return crcStep(0x00, crc)
}

// Decode parses a weight response frame:
//
//	[FF][Adr][COP][W0][W1][W2][CON][CRC][FF][FF]
//
// Returns ok=false on any structural or checksum failure.
func Decode(frame []byte) (driver.Reading, bool) {
	if len(frame) < 10 {
		return driver.Reading{}, false
	}
	if frame[0] != 0xFF || frame[len(frame)-1] != 0xFF || frame[len(frame)-2] != 0xFF {
		return driver.Reading{}, false
	}

	// Adr..CON inclusive
	core := frame[1:7]
	if Checksum(core) != frame[7] {
		return driver.Reading{}, false
	}

	w0, w1, w2, con := core[2], core[3], core[4], core[5]

	raw, ok := bcdDigits(w2, w1, w0)
	if !ok {
		return driver.Reading{}, false
	}

	pos := int32(con & conDecimals)
	weight := decimal.New(raw, -pos)
	if con&conSign != 0 {
		weight = weight.Neg()
	}

	return driver.Reading{
		Weight:   weight.InexactFloat64(),
		Stable:   con&conStable != 0,
		Overload: con&conOverload != 0,
	}, true
}

// bcdDigits unpacks three BCD bytes into a 6-digit integer. A nibble
// above 9 invalidates the frame.
func bcdDigits(bytes ...byte) (int64, bool) {
	var value int64
	for _, b := range bytes {
		hi, lo := int64(b>>4), int64(b&0x0F)
		if hi > 9 || lo > 9 {
			return 0, false
		}
		value = value*100 + hi*10 + lo
	}
	return value, true
}

// Encode builds a valid response frame for a scaled weight value, used by
// device simulators. raw is the unsigned 6-digit integer reading,
// decimals the decimal point position (0..7).
func Encode(raw int64, decimals int, negative, stable, overload bool) []byte {
	digits := strconv.FormatInt(raw, 10)
	for len(digits) < 6 {
		digits = "0" + digits
	}

	toBCD := func(s string) byte {
		return byte(s[0]-'0')<<4 | byte(s[1]-'0')
	}
	w2, w1, w0 := toBCD(digits[0:2]), toBCD(digits[2:4]), toBCD(digits[4:6])

	con := byte(decimals) & conDecimals
	if negative {
		con |= conSign
	}
	if stable {
		con |= conStable
	}
	if overload {
		con |= conOverload
	}

	core := []byte{0x01, 0xC3, w0, w1, w2, con}
	frame := append([]byte{0xFF}, core...)
	frame = append(frame, Checksum(core), 0xFF, 0xFF)
	return frame
}
