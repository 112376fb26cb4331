// internal/codec/tenzom/tenzom_test.go
package tenzom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestFrameChecksums(t *testing.T) {
	// The precomputed checksum byte of each request frame must match the
	// algorithm run over [Adr, COP].
	frames := map[string][]byte{
		"read_gross": ReadGross,
		"read_net":   ReadNet,
		"zero_tare":  ZeroTare,
	}

	for name, frame := range frames {
		t.Run(name, func(t *testing.T) {
			require.Len(t, frame, 6)
			assert.Equal(t, byte(0xFF), frame[0])
			assert.Equal(t, []byte{0xFF, 0xFF}, frame[4:6])
			assert.Equal(t, Checksum(frame[1:3]), frame[3])
		})
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		raw      int64
		decimals int
		negative bool
		stable   bool
		overload bool
		weight   float64
	}{
		{name: "stable weight", raw: 12345, decimals: 3, stable: true, weight: 12.345},
		{name: "zero", raw: 0, decimals: 3, stable: true, weight: 0},
		{name: "negative", raw: 745, decimals: 3, negative: true, stable: true, weight: -0.745},
		{name: "unstable", raw: 100, decimals: 2, weight: 1.0},
		{name: "overload", raw: 999999, decimals: 0, stable: true, overload: true, weight: 999999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := Encode(tt.raw, tt.decimals, tt.negative, tt.stable, tt.overload)

			reading, ok := Decode(frame)
			require.True(t, ok)
			assert.InDelta(t, tt.weight, reading.Weight, 1e-9)
			assert.Equal(t, tt.stable, reading.Stable)
			assert.Equal(t, tt.overload, reading.Overload)
		})
	}
}

func TestDecodeRejectsCorruptedChecksum(t *testing.T) {
	frame := Encode(12345, 3, false, true, false)
	frame[7] ^= 0x01

	_, ok := Decode(frame)
	assert.False(t, ok)
}

func TestDecodeRejectsBadFraming(t *testing.T) {
	valid := Encode(500, 3, false, true, false)

	tests := []struct {
		name  string
		frame []byte
	}{
		{name: "too short", frame: valid[:8]},
		{name: "empty", frame: nil},
		{name: "missing leading marker", frame: append([]byte{0x00}, valid[1:]...)},
		{name: "missing trailing markers", frame: append(append([]byte{}, valid[:8]...), 0x00, 0x00)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Decode(tt.frame)
			assert.False(t, ok)
		})
	}
}

func TestDecodeRejectsNonBCDWeight(t *testing.T) {
	frame := Encode(12345, 3, false, true, false)

	// Corrupt W1 with a hex nibble and fix the checksum so only the BCD
	// check can reject it
	frame[4] = 0xAB
	frame[7] = Checksum(frame[1:7])

	_, ok := Decode(frame)
	assert.False(t, ok)
}

func TestChecksumKnownVectors(t *testing.T) {
	// Request frame checksums from the protocol documentation
	assert.Equal(t, byte(0xE3), Checksum([]byte{0x01, 0xC3}))
	assert.Equal(t, byte(0x8A), Checksum([]byte{0x01, 0xC2}))
	assert.Equal(t, byte(0x58), Checksum([]byte{0x01, 0xC0}))
}
