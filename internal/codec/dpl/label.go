// internal/codec/dpl/label.go
package dpl

import (
	"fmt"
	"strings"
	"unicode"
)

// inlineTokens are substituted in place; <CR> is the record separator and
// is handled by the segment split instead.
var inlineTokens = []string{"<STX>", "<SOH>", "<ESC>", "<FNC1>", "<GS>"}

// EncodeLabel builds printer-ready DPL bytes from a tokenized template.
//
// The template may contain the tokens <STX>, <SOH>, <ESC>, <CR>, <FNC1>
// and <GS>; each is replaced with the dialect's literal bytes. Segments
// between <CR> tokens become records terminated with the dialect's CR byte.
//
// A segment whose first character is a digit and whose second character is
// the literal '9' is treated as a text record: the Unicode text after the
// second P### field is emitted as 4-hex-digit code points (one group per
// character), which is what the printer's UC/u.. scalable-font path
// expects. This detection heuristic is kept bit-for-bit compatible with
// the deployed label templates even though a non-text record could in
// principle start the same way.
//
// Non-text records must be ASCII after token substitution.
func EncodeLabel(template string, dialect Dialect) ([]byte, error) {
	cc, err := Codes(dialect)
	if err != nil {
		return nil, err
	}

	var out []byte
	for _, segment := range strings.Split(template, "<CR>") {
		if segment == "" {
			continue
		}

		record, err := encodeRecord(segment, cc)
		if err != nil {
			return nil, err
		}
		out = append(out, record...)
		out = append(out, cc.CR)
	}
	return out, nil
}

func encodeRecord(segment string, cc ControlCodes) ([]byte, error) {
	runes := []rune(segment)

	if !isTextRecord(runes) {
		record, err := substituteTokens(segment, cc)
		if err != nil {
			return nil, fmt.Errorf("non-text record must stay ASCII after token substitution: %w", err)
		}
		return record, nil
	}

	// Text record: payload begins 4 characters after the second 'P'
	// ('P' plus a 3-digit field width).
	firstP := indexRune(runes, 'P', 0)
	secondP := -1
	if firstP != -1 {
		secondP = indexRune(runes, 'P', firstP+1)
	}
	if firstP == -1 || secondP == -1 {
		return nil, fmt.Errorf("text record must contain two P-fields (e.g. P015P009): %q", segment)
	}

	textStart := secondP + 4
	if textStart > len(runes) {
		return nil, fmt.Errorf("second P-field is incomplete: %q", segment)
	}

	prefix := string(runes[:textStart])
	text := string(runes[textStart:])

	if containsControlToken(text) {
		return nil, fmt.Errorf("text record contains control tokens inside the text field: %q", segment)
	}

	record, err := substituteTokens(prefix, cc)
	if err != nil {
		return nil, fmt.Errorf("text record prefix must be ASCII/tokens only: %w", err)
	}
	return append(record, encodeUnicodeHex(text)...), nil
}

// isTextRecord applies the deployed template convention: font field '9'
// in the second position of a record that starts with a digit.
func isTextRecord(runes []rune) bool {
	return len(runes) >= 2 && unicode.IsDigit(runes[0]) && runes[1] == '9'
}

// substituteTokens replaces inline control tokens with their dialect bytes
// and rejects any non-ASCII character outside a token.
func substituteTokens(segment string, cc ControlCodes) ([]byte, error) {
	replacement := map[string][]byte{
		"<STX>":  {cc.STX},
		"<SOH>":  {cc.SOH},
		"<ESC>":  {cc.ESC},
		"<FNC1>": cc.FNC1,
		"<GS>":   {cc.GS},
	}

	out := make([]byte, 0, len(segment))
	runes := []rune(segment)
	for i := 0; i < len(runes); {
		if runes[i] == '<' {
			if end := indexRune(runes, '>', i+1); end != -1 {
				token := string(runes[i : end+1])
				if b, ok := replacement[token]; ok {
					out = append(out, b...)
					i = end + 1
					continue
				}
			}
		}
		if runes[i] > 0x7F {
			return nil, fmt.Errorf("non-ASCII character %q at position %d", runes[i], i)
		}
		out = append(out, byte(runes[i]))
		i++
	}
	return out, nil
}

func containsControlToken(s string) bool {
	for _, token := range inlineTokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}

// encodeUnicodeHex emits 4 uppercase hex digits per character (BMP code
// points), no separators.
func encodeUnicodeHex(text string) []byte {
	var b strings.Builder
	for _, r := range text {
		fmt.Fprintf(&b, "%04X", r)
	}
	return []byte(b.String())
}

func indexRune(runes []rune, r rune, from int) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
