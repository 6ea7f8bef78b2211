package callhub

import "rentgo/backend/internal/models"

// Client is the interface for one live connection handle (e.g., WebSocket).
// It abstracts the underlying transport, allowing the hub to push events to
// a specific user without knowing how they are connected.
type Client interface {
	// GetUserID returns the unique identifier for the user associated with the client.
	GetUserID() string

	// GetSendChannel returns the channel to which the ManagerService (hub) sends
	// events intended for this specific client. It is a send-only channel.
	GetSendChannel() chan<- models.Event

	// Run starts the client's read and write pumps, which handle incoming and
	// outgoing events.
	Run()
	// Close gracefully shuts down the client's connection and associated channels.
	Close()
}
