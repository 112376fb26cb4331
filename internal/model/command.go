// internal/model/command.go
package model

// Command represents a gateway command issued by a WebSocket client
type Command string

const (
	CommandStream Command = "stream"
	CommandGet    Command = "get"
	CommandStatus Command = "status"
	CommandStop   Command = "stop"
	CommandSend   Command = "send"
)

// KnownCommand reports whether the command is part of the protocol.
// Unknown commands are answered with an explicit error, the client
// connection stays open.
func KnownCommand(c Command) bool {
	switch c {
	case CommandStream, CommandGet, CommandStatus, CommandStop, CommandSend:
		return true
	default:
		return false
	}
}
