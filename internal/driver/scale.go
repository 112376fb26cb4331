// internal/driver/scale.go
package driver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"device-gateway/internal/config"
	"device-gateway/internal/model"
	"device-gateway/internal/pool"
	"device-gateway/pkg/driver"
)

// DecodeFunc parses one raw reply chunk into a reading. ok=false means the
// bytes did not match the wire format; the connection itself is fine.
type DecodeFunc func(data []byte) (driver.Reading, bool)

// Scale is a generic request/response scale driver: a fixed command, a
// protocol decoder, and the shared exchange workflow. Protocols that push
// readings spontaneously register with a nil command.
type Scale struct {
	exchanger
	command []byte
	decode  DecodeFunc
}

// NewScale creates a scale driver
func NewScale(name string, command []byte, decode DecodeFunc, p *pool.Pool, cfg *config.DeviceConfig, logger *zap.Logger) *Scale {
	return &Scale{
		exchanger: exchanger{pool: p, config: cfg, logger: logger, name: name},
		command:   command,
		decode:    decode,
	}
}

// Name returns the registered driver name
func (s *Scale) Name() string {
	return s.name
}

// GetWeight performs one weight exchange. On a decode failure the pooled
// connection stays open; the device answered, just not with a frame we
// understood.
func (s *Scale) GetWeight(ctx context.Context, endpoint model.Endpoint, session string) (driver.Reading, error) {
	raw, err := s.sendAndReceive(ctx, endpoint, session, s.command)
	if err != nil {
		return driver.Reading{}, err
	}

	reading, ok := s.decode(raw)
	if !ok {
		return driver.Reading{}, fmt.Errorf("%w: driver %s got % X", model.ErrDecode, s.name, raw)
	}
	return reading, nil
}
