// internal/handler/gateway_handler.go
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"device-gateway/internal/config"
	"device-gateway/internal/driver"
	"device-gateway/internal/model"
	"device-gateway/internal/pool"
	"device-gateway/internal/session"
	"device-gateway/internal/utils"
	pkgdriver "device-gateway/pkg/driver"
)

// GatewayHandler terminates WebSocket sessions and dispatches the device
// command protocol: stream, get, status, stop, send. One JSON object per
// message in, response envelopes out.
type GatewayHandler struct {
	upgrader websocket.Upgrader
	registry *driver.Registry
	pool     *pool.Pool
	sessions *session.Manager
	config   *config.Config
	logger   *utils.ServiceLogger
}

// NewGatewayHandler creates a new gateway handler
func NewGatewayHandler(
	registry *driver.Registry,
	connPool *pool.Pool,
	sessions *session.Manager,
	cfg *config.Config,
	logger *zap.Logger,
) *GatewayHandler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Origin filtering happens in the CORS middleware; the gateway
			// serves LAN clients and browser kiosks alike
			return true
		},
	}

	return &GatewayHandler{
		upgrader: upgrader,
		registry: registry,
		pool:     connPool,
		sessions: sessions,
		config:   cfg,
		logger:   utils.NewServiceLogger(logger, "gateway-handler"),
	}
}

// HandleConnection upgrades an HTTP request to a WebSocket session
func (h *GatewayHandler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}

	client := &Client{
		ID:          uuid.New().String(),
		Connection:  conn,
		Send:        make(chan []byte, 256),
		UserAgent:   c.Request.UserAgent(),
		RemoteAddr:  c.Request.RemoteAddr,
		ConnectedAt: time.Now(),
		owned:       make(map[model.Endpoint]bool),
	}

	h.logger.Info("WebSocket client connected",
		zap.String("client_id", client.ID),
		zap.String("remote_addr", client.RemoteAddr),
	)

	go h.handleClientWrite(client)
	go h.handleClientRead(client)
}

// handleClientRead reads command messages until the session ends, then
// releases everything the session owns.
func (h *GatewayHandler) handleClientRead(client *Client) {
	defer h.cleanupClient(client)

	for {
		_, messageBytes, err := client.Connection.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Error("WebSocket read error",
					zap.Error(err),
					zap.String("client_id", client.ID),
				)
			}
			return
		}

		h.dispatch(client, messageBytes)
	}
}

// handleClientWrite pumps outbound frames and keepalive pings
func (h *GatewayHandler) handleClientWrite(client *Client) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		client.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Connection.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Connection.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Error("WebSocket write error",
					zap.Error(err),
					zap.String("client_id", client.ID),
				)
				return
			}

		case <-ticker.C:
			client.Connection.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// cleanupClient stops the polling tasks this session owns, closes their
// device connections and tears the socket down.
func (h *GatewayHandler) cleanupClient(client *Client) {
	for _, endpoint := range client.OwnedEndpoints() {
		if owner, ok := h.sessions.Owner(endpoint); ok && owner == client.ID {
			h.sessions.Stop(endpoint)
			h.pool.Close(endpoint, client.ID)
		}
	}

	client.CloseSend()
	client.Connection.Close()

	h.logger.Info("WebSocket client disconnected",
		zap.String("client_id", client.ID),
		zap.Duration("session_duration", time.Since(client.ConnectedAt)),
	)
}

// dispatch decodes and routes one command message. Every failure is
// answered with an error envelope; the client connection stays open.
func (h *GatewayHandler) dispatch(client *Client, messageBytes []byte) {
	var request model.ClientRequest
	if err := json.Unmarshal(messageBytes, &request); err != nil {
		h.sendResponse(client, model.ErrorResponse(model.ErrValidation.Error()+": malformed JSON"))
		return
	}

	if !model.KnownCommand(request.Command) {
		h.sendResponse(client, model.ErrorResponse(model.ErrUnknownCommand.Error()))
		return
	}

	if err := request.Validate(); err != nil {
		h.sendResponse(client, model.ErrorResponse(err.Error()))
		return
	}

	switch request.Command {
	case model.CommandStream:
		h.handleStream(client, &request)
	case model.CommandGet:
		h.handleGet(client, &request)
	case model.CommandStatus:
		h.handleStatus(client, &request)
	case model.CommandStop:
		h.handleStop(client, &request)
	case model.CommandSend:
		h.handleSend(client, &request)
	}
}

// handleStream starts a continuous weight polling task on the endpoint
func (h *GatewayHandler) handleStream(client *Client, request *model.ClientRequest) {
	scale, err := h.registry.Scale(request.Driver)
	if err != nil {
		h.sendResponse(client, model.ErrorResponse(errorMessage(err)))
		return
	}

	endpoint := request.Endpoint()
	err = h.sessions.Start(endpoint, client.ID, func(ctx context.Context) {
		h.pollWeight(ctx, client, scale, endpoint)
	})
	if err != nil {
		h.sendResponse(client, model.ErrorResponse(errorMessage(err)))
		return
	}

	client.Own(endpoint)
	h.sendResponse(client, model.InfoResponse(model.MessageExchangeStarted))
}

// pollWeight runs the polling loop of a stream task. A decode failure is
// reported and polling continues; a transport failure is reported and ends
// the task, its pool entry is already closed by then.
func (h *GatewayHandler) pollWeight(ctx context.Context, client *Client, scale pkgdriver.ScaleDriver, endpoint model.Endpoint) {
	defer client.Disown(endpoint)

	ticker := time.NewTicker(h.config.Device.PollInterval)
	defer ticker.Stop()

	for {
		reading, err := scale.GetWeight(ctx, endpoint, client.ID)
		switch {
		case err == nil:
			h.sendResponse(client, model.WeightResponse(model.WeightData(reading)))
		case errors.Is(err, model.ErrDecode):
			h.sendResponse(client, model.ErrorResponse(errorMessage(err)))
		default:
			if ctx.Err() == nil {
				h.sendResponse(client, model.ErrorResponse(errorMessage(err)))
			}
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// handleGet performs a single weight exchange and then closes both the
// device connection and the client session.
func (h *GatewayHandler) handleGet(client *Client, request *model.ClientRequest) {
	scale, err := h.registry.Scale(request.Driver)
	if err != nil {
		h.sendResponse(client, model.ErrorResponse(errorMessage(err)))
		return
	}

	endpoint := request.Endpoint()
	err = h.sessions.Start(endpoint, client.ID, func(ctx context.Context) {
		h.sendResponse(client, model.InfoResponse(model.MessageExchangeStarted))

		opCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		reading, err := scale.GetWeight(opCtx, endpoint, client.ID)
		cancel()

		if err != nil {
			h.sendResponse(client, model.ErrorResponse(errorMessage(err)))
		} else {
			h.sendResponse(client, model.WeightResponse(model.WeightData(reading)))
		}

		h.sendResponse(client, model.InfoResponse(model.MessageExchangeStopped))
		h.pool.Close(endpoint, client.ID)
		client.CloseSend()
	})
	if err != nil {
		h.sendResponse(client, model.ErrorResponse(errorMessage(err)))
	}
}

// handleStatus reports endpoint availability without touching the device
func (h *GatewayHandler) handleStatus(client *Client, request *model.ClientRequest) {
	available := !h.sessions.Active(request.Endpoint())
	h.sendResponse(client, model.StatusResponse(available))
}

// handleStop ends the endpoint's polling task. Stopping an idle endpoint
// is a silent no-op.
func (h *GatewayHandler) handleStop(client *Client, request *model.ClientRequest) {
	endpoint := request.Endpoint()
	if !h.sessions.Stop(endpoint) {
		return
	}

	h.pool.Close(endpoint, client.ID)
	client.Disown(endpoint)
	h.sendResponse(client, model.InfoResponse(model.MessageExchangeStopped))
}

// handleSend transmits a printer command and returns the decoded reply.
// The exchange runs as a registered endpoint task, so a stream or another
// send arriving while it is in flight is rejected as busy instead of
// sharing the device socket.
func (h *GatewayHandler) handleSend(client *Client, request *model.ClientRequest) {
	printer, err := h.registry.Printer(request.Driver)
	if err != nil {
		h.sendResponse(client, model.ErrorResponse(errorMessage(err)))
		return
	}

	if request.PrintCommand == "" {
		h.sendResponse(client, model.ErrorResponse(model.ErrValidation.Error()+": print_command is required"))
		return
	}

	endpoint := request.Endpoint()
	err = h.sessions.Start(endpoint, client.ID, func(ctx context.Context) {
		opCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		reply, err := printer.SendCommand(opCtx, endpoint, client.ID, request.PrintCommand)
		if err != nil {
			h.sendResponse(client, model.ErrorResponse(errorMessage(err)))
			return
		}

		h.sendResponse(client, model.DataResponse(reply, model.MessageCommandSent))
	})
	if err != nil {
		h.sendResponse(client, model.ErrorResponse(errorMessage(err)))
	}
}

// sendResponse marshals and queues one response envelope
func (h *GatewayHandler) sendResponse(client *Client, response model.Response) {
	messageBytes, err := json.Marshal(response)
	if err != nil {
		h.logger.Error("Failed to marshal response", zap.Error(err))
		return
	}

	if !client.TrySend(messageBytes) {
		h.logger.Warn("Dropped response, client send queue unavailable",
			zap.String("client_id", client.ID),
		)
	}
}

// errorMessage maps taxonomy errors onto the client-facing message
// contract and passes everything else through.
func errorMessage(err error) string {
	if errors.Is(err, model.ErrDeviceBusy) {
		return model.MessageDeviceBusy
	}
	return err.Error()
}
