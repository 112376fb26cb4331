// internal/model/request_test.go
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRequestValidate(t *testing.T) {
	valid := ClientRequest{Command: CommandGet, IP: "192.168.1.50", Port: 4001, Driver: "tenzo_m"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*ClientRequest)
	}{
		{name: "missing command", mutate: func(r *ClientRequest) { r.Command = "" }},
		{name: "bad ip", mutate: func(r *ClientRequest) { r.IP = "scale.local" }},
		{name: "empty ip", mutate: func(r *ClientRequest) { r.IP = "" }},
		{name: "privileged port", mutate: func(r *ClientRequest) { r.Port = 80 }},
		{name: "port too high", mutate: func(r *ClientRequest) { r.Port = 70000 }},
		{name: "zero port", mutate: func(r *ClientRequest) { r.Port = 0 }},
		{name: "missing driver", mutate: func(r *ClientRequest) { r.Driver = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := valid
			tt.mutate(&request)

			err := request.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestEndpointAddr(t *testing.T) {
	endpoint := Endpoint{Host: "192.168.1.50", Port: 4001}
	assert.Equal(t, "192.168.1.50:4001", endpoint.Addr())

	// IPv6 hosts are bracketed
	endpoint = Endpoint{Host: "fe80::1", Port: 9100}
	assert.Equal(t, "[fe80::1]:9100", endpoint.Addr())
}

func TestKnownCommand(t *testing.T) {
	for _, c := range []Command{CommandStream, CommandGet, CommandStatus, CommandStop, CommandSend} {
		assert.True(t, KnownCommand(c))
	}
	assert.False(t, KnownCommand("reboot"))
	assert.False(t, KnownCommand(""))
}

func TestStatusResponseMirrorsAvailability(t *testing.T) {
	available := StatusResponse(true)
	assert.True(t, available.OK)
	assert.Equal(t, MessageDeviceAvailable, available.Message)

	busy := StatusResponse(false)
	assert.False(t, busy.OK)
	assert.Equal(t, MessageDeviceBusy, busy.Message)
}
