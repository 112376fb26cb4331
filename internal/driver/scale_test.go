// internal/driver/scale_test.go
package driver

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"device-gateway/internal/codec/digi"
	"device-gateway/internal/codec/tenzom"
	"device-gateway/internal/config"
	"device-gateway/internal/model"
	"device-gateway/internal/pool"
)

func testDeviceConfig() *config.DeviceConfig {
	return &config.DeviceConfig{
		ConnectTimeout:    200 * time.Millisecond,
		ConnectAttempts:   1,
		ExchangeTimeout:   300 * time.Millisecond,
		ResponseSizeBytes: 1024,
		PollInterval:      10 * time.Millisecond,
	}
}

// fakeDevice is a scripted TCP device: for every accepted connection it
// reads one request chunk (when expectRequest) and answers with reply.
// An empty reply closes the connection instead.
type fakeDevice struct {
	listener      net.Listener
	endpoint      model.Endpoint
	expectRequest bool
	reply         []byte
}

func newFakeDevice(t *testing.T, expectRequest bool, reply []byte) *fakeDevice {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	_, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	d := &fakeDevice{
		listener:      ln,
		endpoint:      model.Endpoint{Host: "127.0.0.1", Port: port},
		expectRequest: expectRequest,
		reply:         reply,
	}
	go d.serve()
	return d
}

func (d *fakeDevice) serve() {
	for {
		conn, err := d.listener.Accept()
		if err != nil {
			return
		}
		go d.handle(conn)
	}
}

func (d *fakeDevice) handle(conn net.Conn) {
	for {
		if d.expectRequest {
			buf := make([]byte, 64)
			if _, err := conn.Read(buf); err != nil {
				conn.Close()
				return
			}
		}

		if len(d.reply) == 0 {
			conn.Close()
			return
		}
		if _, err := conn.Write(d.reply); err != nil {
			conn.Close()
			return
		}

		if !d.expectRequest {
			// Streaming devices push one chunk per exchange in these tests
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func TestScaleGetWeight(t *testing.T) {
	frame := tenzom.Encode(12345, 3, false, true, false)
	device := newFakeDevice(t, true, frame)

	p := pool.New(testDeviceConfig(), zap.NewNop())
	scale := NewScale("tenzo_m", tenzom.ReadGross, tenzom.Decode, p, testDeviceConfig(), zap.NewNop())

	reading, err := scale.GetWeight(context.Background(), device.endpoint, "s1")
	require.NoError(t, err)
	assert.InDelta(t, 12.345, reading.Weight, 1e-9)
	assert.True(t, reading.Stable)

	// The connection stays pooled for the next exchange
	assert.Equal(t, 1, p.Len())

	_, err = scale.GetWeight(context.Background(), device.endpoint, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Len())
}

func TestScaleGetWeightDecodeErrorKeepsConnection(t *testing.T) {
	device := newFakeDevice(t, true, []byte("not a frame"))

	p := pool.New(testDeviceConfig(), zap.NewNop())
	scale := NewScale("tenzo_m", tenzom.ReadGross, tenzom.Decode, p, testDeviceConfig(), zap.NewNop())

	_, err := scale.GetWeight(context.Background(), device.endpoint, "s1")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDecode)

	// Decode failures do not tear the transport down
	assert.Equal(t, 1, p.Len())
}

func TestScaleGetWeightPeerClosed(t *testing.T) {
	device := newFakeDevice(t, true, nil)

	p := pool.New(testDeviceConfig(), zap.NewNop())
	scale := NewScale("tenzo_m", tenzom.ReadGross, tenzom.Decode, p, testDeviceConfig(), zap.NewNop())

	_, err := scale.GetWeight(context.Background(), device.endpoint, "s1")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrPeerClosed)
	assert.Equal(t, 0, p.Len())
}

func TestScaleGetWeightTimeout(t *testing.T) {
	// Device accepts but never answers
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			if _, err := ln.Accept(); err != nil {
				return
			}
		}
	}()

	_, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, _ := strconv.Atoi(portStr)
	endpoint := model.Endpoint{Host: "127.0.0.1", Port: port}

	p := pool.New(testDeviceConfig(), zap.NewNop())
	scale := NewScale("tenzo_m", tenzom.ReadGross, tenzom.Decode, p, testDeviceConfig(), zap.NewNop())

	_, err = scale.GetWeight(context.Background(), endpoint, "s1")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrTimeout)
	assert.Equal(t, 0, p.Len())
}

func TestScaleGetWeightConnectFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, portStr, _ := net.SplitHostPort(ln.Addr().String())
	port, _ := strconv.Atoi(portStr)
	ln.Close()

	p := pool.New(testDeviceConfig(), zap.NewNop())
	scale := NewScale("tenzo_m", tenzom.ReadGross, tenzom.Decode, p, testDeviceConfig(), zap.NewNop())

	_, err = scale.GetWeight(context.Background(), model.Endpoint{Host: "127.0.0.1", Port: port}, "s1")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrConnect)
}

func TestScaleTransportFailureLogsDeviceFields(t *testing.T) {
	device := newFakeDevice(t, true, nil)

	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	p := pool.New(testDeviceConfig(), logger)
	scale := NewScale("tenzo_m", tenzom.ReadGross, tenzom.Decode, p, testDeviceConfig(), logger)

	_, err := scale.GetWeight(context.Background(), device.endpoint, "sess-7")
	require.Error(t, err)

	entries := logs.FilterMessage("Device connection event").All()
	require.NotEmpty(t, entries)
	fields := entries[0].ContextMap()
	assert.Equal(t, device.endpoint.Addr(), fields["device_addr"])
	assert.Equal(t, "tenzo_m", fields["driver"])
	assert.Equal(t, "sess-7", fields["session_id"])
}

func TestScaleStreamingDeviceWithoutCommand(t *testing.T) {
	device := newFakeDevice(t, false, []byte("000.745\r000.000\r\n"))

	p := pool.New(testDeviceConfig(), zap.NewNop())
	scale := NewScale("digi_di160", nil, digi.Decode, p, testDeviceConfig(), zap.NewNop())

	reading, err := scale.GetWeight(context.Background(), device.endpoint, "s1")
	require.NoError(t, err)
	assert.InDelta(t, 0.745, reading.Weight, 1e-9)
	assert.True(t, reading.Stable)
}
