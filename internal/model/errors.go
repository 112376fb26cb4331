// internal/model/errors.go
package model

import "errors"

// Gateway error taxonomy. The dispatch layer classifies failures with
// errors.Is against these sentinels; everything below them is wrapped
// context added along the way.
var (
	// ErrValidation marks a malformed client request, rejected before any
	// device I/O.
	ErrValidation = errors.New("request validation failed")

	// ErrUnknownCommand marks a command outside the protocol.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrDriverNotFound marks a driver name with no registered driver.
	ErrDriverNotFound = errors.New("driver not found")

	// ErrDeviceBusy marks an endpoint that already owns an active task.
	// Advisory only, never mutates pool or task state.
	ErrDeviceBusy = errors.New("device is busy")

	// ErrConnect marks a TCP connect that failed after exhausting retries.
	// The endpoint's pool entry is closed.
	ErrConnect = errors.New("could not connect to device")

	// ErrTimeout marks a connect/read/write that exceeded its bound.
	// The endpoint's pool entry is closed.
	ErrTimeout = errors.New("no response from device")

	// ErrPeerClosed marks an empty read, the device closed the stream.
	// The endpoint's pool entry is closed.
	ErrPeerClosed = errors.New("empty response, device closed the connection")

	// ErrDecode marks bytes that did not match the expected wire format or
	// failed a checksum. The transport is fine, the pool entry stays open.
	ErrDecode = errors.New("invalid device response")
)
