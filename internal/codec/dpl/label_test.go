// internal/codec/dpl/label_test.go
package dpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeLabelTextRecordHexEncodesText(t *testing.T) {
	template := "<STX>L<CR>191100801000025P015P009Hello<CR>E<CR>"

	out, err := EncodeLabel(template, DialectStandard)
	require.NoError(t, err)

	want := append([]byte{0x02, 'L', 0x0D}, []byte("191100801000025P015P009")...)
	want = append(want, []byte("00480065006C006C006F")...)
	want = append(want, 0x0D, 'E', 0x0D)
	assert.Equal(t, want, out)
}

func TestEncodeLabelTextRecordNonASCIIText(t *testing.T) {
	// Unicode survives in text records since the text field is emitted as
	// 4-hex-digit code points
	out, err := EncodeLabel("191100801000025P015P009Ağırlık<CR>", DialectStandard)
	require.NoError(t, err)
	assert.Contains(t, string(out), "0041011F01310072006C0131006B")
}

func TestEncodeLabelTextRecordRequiresTwoPFields(t *testing.T) {
	_, err := EncodeLabel("191100801000025P015Hello<CR>", DialectStandard)
	assert.Error(t, err)
}

func TestEncodeLabelTextRecordRejectsControlTokensInText(t *testing.T) {
	_, err := EncodeLabel("191100801000025P015P009He<STX>llo<CR>", DialectStandard)
	assert.Error(t, err)
}

func TestEncodeLabelNonTextRecordRejectsNonASCII(t *testing.T) {
	// Barcode and command records have no hex-encoding path, non-ASCII
	// would reach the printer raw
	_, err := EncodeLabel("1a6210000000050Ağırlık<CR>", DialectStandard)
	assert.Error(t, err)
}

func TestEncodeLabelSubstitutesTokens(t *testing.T) {
	out, err := EncodeLabel("<STX>KC<CR>", DialectStandard)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 'K', 'C', 0x0D}, out)

	out, err = EncodeLabel("1a62<FNC1>12345<CR>", DialectStandard)
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte("1a62"), 0x7E, 0x31), '1', '2', '3', '4', '5', 0x0D), out)
}

func TestEncodeLabelAlternate2Dialect(t *testing.T) {
	out, err := EncodeLabel("<STX>KC<CR>", DialectAlternate2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x7E, 'K', 'C', 0x7C}, out)
}

func TestEncodeLabelSkipsEmptySegments(t *testing.T) {
	out, err := EncodeLabel("<STX>T<CR>", DialectStandard)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 'T', 0x0D}, out)
}

func TestEncodeLabelUnknownTokenPassesThrough(t *testing.T) {
	// Angle brackets that do not form a known token are literal label data
	out, err := EncodeLabel("1a62<X>123<CR>", DialectStandard)
	require.NoError(t, err)
	assert.Equal(t, append([]byte("1a62<X>123"), 0x0D), out)
}
