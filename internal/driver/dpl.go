// internal/driver/dpl.go
package driver

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"device-gateway/internal/codec/dpl"
	"device-gateway/internal/config"
	"device-gateway/internal/model"
	"device-gateway/internal/pool"
)

// DPL drives Datamax-class label printers speaking DPL over raw TCP.
// Print and upload operations are fire-and-forget: the printer sends no
// acknowledgement, so the pooled connection is closed after each one to
// leave the device in a known state.
type DPL struct {
	exchanger
	dialect dpl.Dialect
}

// NewDPL creates a DPL printer driver
func NewDPL(name string, dialect dpl.Dialect, p *pool.Pool, cfg *config.DeviceConfig, logger *zap.Logger) *DPL {
	return &DPL{
		exchanger: exchanger{pool: p, config: cfg, logger: logger, name: name},
		dialect:   dialect,
	}
}

// Name returns the registered driver name
func (d *DPL) Name() string {
	return d.name
}

// PrintLabel encodes a tokenized label template and transmits it
func (d *DPL) PrintLabel(ctx context.Context, endpoint model.Endpoint, session, template string) error {
	payload, err := dpl.EncodeLabel(template, d.dialect)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	return d.sendOneShot(ctx, endpoint, session, payload)
}

// LoadFont stores a TTF file on the printer under a 2-digit font id
func (d *DPL) LoadFont(ctx context.Context, endpoint model.Endpoint, session string, font []byte, filename string, fontID int) error {
	payload, err := dpl.EncodeFontUpload(font, filename, fontID, dpl.DefaultFontModule, d.dialect)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	return d.sendOneShot(ctx, endpoint, session, payload)
}

// LoadImage converts and stores an image on the printer
func (d *DPL) LoadImage(ctx context.Context, endpoint model.Endpoint, session string, img []byte, filename string) error {
	opts := dpl.DefaultImageOptions()
	opts.Dialect = d.dialect

	payload, err := dpl.EncodeImageUpload(img, filename, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	return d.sendOneShot(ctx, endpoint, session, payload)
}

// SendCommand transmits a tokenized command and returns the decoded reply
func (d *DPL) SendCommand(ctx context.Context, endpoint model.Endpoint, session, template string) (string, error) {
	payload, err := dpl.EncodeLabel(template, d.dialect)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrValidation, err)
	}

	defer d.pool.Close(endpoint, session)

	raw, err := d.sendAndReceive(ctx, endpoint, session, payload)
	if err != nil {
		return "", err
	}
	return decodeReply(raw), nil
}

// TestConnection queries the printer configuration and checks the reply
// carries the information-page marker.
func (d *DPL) TestConnection(ctx context.Context, endpoint model.Endpoint, session string) error {
	reply, err := d.SendCommand(ctx, endpoint, session, dpl.GetConfiguration)
	if err != nil {
		return err
	}

	if !strings.Contains(reply, dpl.TestConnectionMarker) {
		return fmt.Errorf("%w: configuration reply carries no %q marker", model.ErrDecode, dpl.TestConnectionMarker)
	}
	return nil
}

// sendOneShot transmits a payload and drops the pooled connection
// afterwards, whether the write succeeded or not.
func (d *DPL) sendOneShot(ctx context.Context, endpoint model.Endpoint, session string, payload []byte) error {
	defer d.pool.Close(endpoint, session)
	return d.send(ctx, endpoint, session, payload)
}

// decodeReply renders a raw printer reply as text: UTF-8 with invalid
// bytes replaced, CRLF and bare CR normalized to newlines.
func decodeReply(raw []byte) string {
	text := strings.ToValidUTF8(string(raw), "�")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
