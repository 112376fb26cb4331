// internal/codec/digi/digi_test.go
package digi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFirstLineWins(t *testing.T) {
	reading, ok := Decode([]byte("000.745\r000.000\r\n"))
	require.True(t, ok)
	assert.InDelta(t, 0.745, reading.Weight, 1e-9)
	assert.True(t, reading.Stable)
	assert.False(t, reading.Overload)
}

func TestDecodeSkipsLeadingEmptyLines(t *testing.T) {
	reading, ok := Decode([]byte("\r\r001.500\r"))
	require.True(t, ok)
	assert.InDelta(t, 1.5, reading.Weight, 1e-9)
}

func TestDecodeNegativeWeight(t *testing.T) {
	reading, ok := Decode([]byte("-000.120\r"))
	require.True(t, ok)
	assert.InDelta(t, -0.12, reading.Weight, 1e-9)
}

func TestDecodeRejectsNonNumericLine(t *testing.T) {
	_, ok := Decode([]byte("ERR 03\r"))
	assert.False(t, ok)
}

func TestDecodeRejectsEmptyStream(t *testing.T) {
	_, ok := Decode([]byte("\r\r\n"))
	assert.False(t, ok)
}
