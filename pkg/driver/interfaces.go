// pkg/driver/interfaces.go
package driver

import (
	"context"

	"device-gateway/internal/model"
)

// ScaleDriver performs one logical weight exchange with a scale. A driver
// is stateless aside from its fixed command bytes and is safe to reuse
// across devices of the same model.
type ScaleDriver interface {
	Name() string

	// GetWeight acquires the pooled connection for the endpoint, writes the
	// request command if the protocol has one, reads and decodes the reply.
	// session identifies the owning client session in logs.
	GetWeight(ctx context.Context, endpoint model.Endpoint, session string) (Reading, error)
}

// PrinterDriver encodes and transmits printer command streams. Print, font
// and image uploads are send-only; SendCommand expects a reply.
type PrinterDriver interface {
	Name() string

	PrintLabel(ctx context.Context, endpoint model.Endpoint, session, template string) error
	LoadFont(ctx context.Context, endpoint model.Endpoint, session string, font []byte, filename string, fontID int) error
	LoadImage(ctx context.Context, endpoint model.Endpoint, session string, img []byte, filename string) error

	// SendCommand transmits an arbitrary encoded command and returns the
	// decoded device reply.
	SendCommand(ctx context.Context, endpoint model.Endpoint, session, template string) (string, error)

	// TestConnection sends a known status query and verifies the reply
	// carries the expected marker.
	TestConnection(ctx context.Context, endpoint model.Endpoint, session string) error
}
