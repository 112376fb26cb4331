// internal/model/response.go
package model

// ResponseType tags the response envelope sent back to the client.
type ResponseType string

const (
	ResponseTypeWeight ResponseType = "weight"
	ResponseTypeData   ResponseType = "data"
	ResponseTypeInfo   ResponseType = "info"
	ResponseTypeError  ResponseType = "error"
	ResponseTypeStatus ResponseType = "status"
)

// WeightData is the decoded payload of a scale exchange.
type WeightData struct {
	Weight   float64 `json:"weight"`
	Stable   bool    `json:"stable"`
	Overload bool    `json:"overload"`
}

// Response is the envelope for every gateway → client message.
// Data carries *WeightData for scales, a decoded text string for
// printers, or null.
type Response struct {
	OK      bool         `json:"ok"`
	Type    ResponseType `json:"type"`
	Data    interface{}  `json:"data"`
	Message string       `json:"message,omitempty"`
}

// Human-readable messages mirrored from the production front-end contract.
const (
	MessageExchangeStarted = "exchange started"
	MessageExchangeStopped = "exchange stopped"
	MessageDeviceBusy      = "device is busy"
	MessageDeviceAvailable = "device is available"
	MessageCommandSent     = "command sent"
)

// WeightResponse wraps a successful scale reading.
func WeightResponse(data WeightData) Response {
	return Response{OK: true, Type: ResponseTypeWeight, Data: &data}
}

// DataResponse wraps decoded printer output.
func DataResponse(text, message string) Response {
	return Response{OK: true, Type: ResponseTypeData, Data: text, Message: message}
}

// InfoResponse wraps an informational acknowledgement.
func InfoResponse(message string) Response {
	return Response{OK: true, Type: ResponseTypeInfo, Message: message}
}

// ErrorResponse wraps a failure; the client connection stays open.
func ErrorResponse(message string) Response {
	return Response{OK: false, Type: ResponseTypeError, Message: message}
}

// StatusResponse reports endpoint availability; ok mirrors availability.
func StatusResponse(available bool) Response {
	message := MessageDeviceAvailable
	if !available {
		message = MessageDeviceBusy
	}
	return Response{OK: available, Type: ResponseTypeStatus, Message: message}
}
