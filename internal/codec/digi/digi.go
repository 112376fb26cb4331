// internal/codec/digi/digi.go

// Package digi implements the DIGI DI-160 streaming protocol. The scale
// pushes carriage-return-separated weight lines spontaneously; there is no
// request command and no status signaling.
package digi

import (
	"strconv"
	"strings"

	"device-gateway/pkg/driver"
)

// Decode parses a DI-160 frame such as "000.745\r000.000\r\n". The first
// non-empty line is the weight; the stream carries no stable/overload
// flags, so the reading is always reported stable and not overloaded.
func Decode(data []byte) (driver.Reading, bool) {
	for _, line := range strings.Split(string(data), "\r") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		weight, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return driver.Reading{}, false
		}
		return driver.Reading{Weight: weight, Stable: true, Overload: false}, true
	}
	return driver.Reading{}, false
}
