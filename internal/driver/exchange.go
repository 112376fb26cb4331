// internal/driver/exchange.go

// Package driver implements the concrete device drivers behind the
// WebSocket commands: generic request/response scale drivers and the DPL
// label printer driver, all sharing one pooled TCP exchange workflow.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"go.uber.org/zap"

	"device-gateway/internal/config"
	"device-gateway/internal/model"
	"device-gateway/internal/pool"
	"device-gateway/internal/utils"
)

// exchanger is the shared transport workflow: acquire the pooled
// connection, bound every read and write with a deadline, and classify
// failures into the gateway error taxonomy. Transport failures close the
// pool entry; decode failures (handled by the callers) do not.
type exchanger struct {
	pool   *pool.Pool
	config *config.DeviceConfig
	logger *zap.Logger
	name   string
}

// deviceLogger ties exchange and connection events to the endpoint,
// driver and owning WebSocket session.
func (e *exchanger) deviceLogger(endpoint model.Endpoint, session string) *utils.DeviceLogger {
	return utils.NewDeviceLogger(e.logger, endpoint, e.name, session)
}

// sendAndReceive writes the request (when non-empty) and reads one reply
// chunk. A nil request means the device pushes data spontaneously and we
// only listen.
func (e *exchanger) sendAndReceive(ctx context.Context, endpoint model.Endpoint, session string, request []byte) ([]byte, error) {
	conn, err := e.pool.GetOrCreate(ctx, endpoint, session)
	if err != nil {
		return nil, err
	}

	dl := e.deviceLogger(endpoint, session)
	deadline := e.deadline(ctx)

	if len(request) > 0 {
		conn.SetWriteDeadline(deadline)
		if _, err := conn.Write(request); err != nil {
			return nil, e.transportError(endpoint, session, "write", err)
		}
		dl.LogExchange("write", request)
	}

	buf := make([]byte, e.config.ResponseSizeBytes)
	conn.SetReadDeadline(deadline)
	n, err := conn.Read(buf)
	if err != nil {
		if n == 0 && errors.Is(err, io.EOF) {
			return nil, e.peerClosed(endpoint, session)
		}
		return nil, e.transportError(endpoint, session, "read", err)
	}
	if n == 0 {
		return nil, e.peerClosed(endpoint, session)
	}

	dl.LogExchange("read", buf[:n])
	return buf[:n], nil
}

// send writes the request without expecting a reply
func (e *exchanger) send(ctx context.Context, endpoint model.Endpoint, session string, request []byte) error {
	conn, err := e.pool.GetOrCreate(ctx, endpoint, session)
	if err != nil {
		return err
	}

	conn.SetWriteDeadline(e.deadline(ctx))
	if _, err := conn.Write(request); err != nil {
		return e.transportError(endpoint, session, "write", err)
	}

	e.deviceLogger(endpoint, session).LogExchange("write", request)
	return nil
}

// deadline bounds the exchange with the configured timeout, tightened by
// the context deadline when that comes first.
func (e *exchanger) deadline(ctx context.Context) time.Time {
	d := time.Now().Add(e.config.ExchangeTimeout)
	if cd, ok := ctx.Deadline(); ok && cd.Before(d) {
		d = cd
	}
	return d
}

// transportError closes the endpoint's pool entry and maps the raw error
// onto the taxonomy: timeouts become ErrTimeout, everything else means the
// stream died mid-exchange and becomes ErrPeerClosed.
func (e *exchanger) transportError(endpoint model.Endpoint, session, op string, err error) error {
	e.pool.Close(endpoint, session)
	e.deviceLogger(endpoint, session).LogConnection(op, false, err)

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return fmt.Errorf("%w: %s", model.ErrTimeout, endpoint.Addr())
	}
	return fmt.Errorf("%w: %s: %v", model.ErrPeerClosed, endpoint.Addr(), err)
}

func (e *exchanger) peerClosed(endpoint model.Endpoint, session string) error {
	err := fmt.Errorf("%w: %s", model.ErrPeerClosed, endpoint.Addr())
	e.pool.Close(endpoint, session)
	e.deviceLogger(endpoint, session).LogConnection("read", false, err)
	return err
}
