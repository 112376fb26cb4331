// internal/codec/dpl/control_codes.go
package dpl

import "fmt"

// Dialect selects one of the printer's control-code byte mappings.
type Dialect int

const (
	DialectStandard Dialect = iota
	DialectAlternate
	DialectAlternate2
)

// ControlCodes holds the literal byte values for the named DPL control
// tokens under one dialect.
type ControlCodes struct {
	STX  byte
	SOH  byte
	CR   byte
	ESC  byte
	FNC1 []byte
	GS   byte
}

var (
	standardCodes = ControlCodes{
		STX: 0x02,
		SOH: 0x01,
		CR:  0x0D,
		ESC: 0x1B,
		// The manual's <ESC>0 does not work as FNC1 on the tested firmware;
		// "~1" does.
		FNC1: []byte{0x7E, 0x31},
		GS:   0x1D,
	}

	alternateCodes = ControlCodes{
		STX:  0x7E, // '~'
		SOH:  0x5E, // '^'
		CR:   0x0D,
		ESC:  0x1B,
		FNC1: []byte{0x7E, 0x31},
		GS:   0x1D,
	}

	alternate2Codes = ControlCodes{
		STX:  0x7E, // '~'
		SOH:  0x5E, // '^'
		CR:   0x7C, // '|'
		ESC:  0x1B,
		FNC1: []byte{0x7E, 0x31},
		GS:   0x1D,
	}
)

// Codes returns the control-code mapping for a dialect.
func Codes(d Dialect) (ControlCodes, error) {
	switch d {
	case DialectStandard:
		return standardCodes, nil
	case DialectAlternate:
		return alternateCodes, nil
	case DialectAlternate2:
		return alternate2Codes, nil
	default:
		return ControlCodes{}, fmt.Errorf("unknown control-code dialect %d", d)
	}
}
