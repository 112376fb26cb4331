// internal/model/request.go
package model

import (
	"fmt"
	"net"
	"strconv"
)

// Endpoint identifies one physical device connection target. It is the
// pooling key and the task-ownership key.
type Endpoint struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// Addr returns the host:port dial address.
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

func (e Endpoint) String() string {
	return e.Addr()
}

// ClientRequest is one decoded WebSocket command message.
type ClientRequest struct {
	Command      Command `json:"command"`
	IP           string  `json:"ip"`
	Port         int     `json:"port"`
	Driver       string  `json:"driver"`
	PrintCommand string  `json:"print_command,omitempty"`
}

// Validate checks shape and ranges before any device I/O happens.
// An invalid request never touches the connection pool.
func (r *ClientRequest) Validate() error {
	if r.Command == "" {
		return fmt.Errorf("%w: command is required", ErrValidation)
	}
	if net.ParseIP(r.IP) == nil {
		return fmt.Errorf("%w: invalid ip %q", ErrValidation, r.IP)
	}
	if r.Port < 1024 || r.Port > 65535 {
		return fmt.Errorf("%w: port %d outside [1024,65535]", ErrValidation, r.Port)
	}
	if r.Driver == "" {
		return fmt.Errorf("%w: driver is required", ErrValidation)
	}
	return nil
}

// Endpoint returns the device endpoint addressed by the request.
func (r *ClientRequest) Endpoint() Endpoint {
	return Endpoint{Host: r.IP, Port: r.Port}
}
