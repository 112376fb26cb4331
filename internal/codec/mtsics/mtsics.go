// internal/codec/mtsics/mtsics.go

// Package mtsics implements the Mettler-Toledo Standard Interface Command
// Set (MT-SICS level 1), an ASCII line protocol. Verified against the
// IND226 terminal.
package mtsics

import (
	"regexp"
	"strconv"
	"strings"

	"device-gateway/pkg/driver"
)

var (
	ReadGross     = []byte("S\r\n")
	ReadImmediate = []byte("SI\r\n")
	Tare          = []byte("T\r\n")
	ClearTare     = []byte("TAC\r\n")
)

// Response line: command echo, status letter, signed value, unit.
// Examples: "S S      2.168 kg", "SI D   -12.345 g", "T I      0.000 kg"
var linePattern = regexp.MustCompile(`^\s*([A-Z]{1,3})\s+([A-Z])\s+([+-]?\s*[0-9]*\.?[0-9]+)\s*([a-zA-Z]+)\s*$`)

// Decode parses one MT-SICS weight line. Status letters: S = stable,
// D = dynamic, I = overload/underload; anything else invalidates the frame.
func Decode(data []byte) (driver.Reading, bool) {
	line := strings.TrimSpace(string(data))
	if line == "" {
		return driver.Reading{}, false
	}

	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return driver.Reading{}, false
	}

	// The value may carry internal spaces before the digits
	value, err := strconv.ParseFloat(strings.ReplaceAll(m[3], " ", ""), 64)
	if err != nil {
		return driver.Reading{}, false
	}

	reading := driver.Reading{Weight: value}
	switch m[2] {
	case "S":
		reading.Stable = true
	case "D":
		// unstable, no overload
	case "I":
		reading.Overload = true
	default:
		return driver.Reading{}, false
	}
	return reading, true
}
