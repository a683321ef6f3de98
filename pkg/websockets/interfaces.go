package websockets

import (
	"context"
)

// ConnectionManager defines the interface for managing WebSocket connections.
type ConnectionManager interface {
	AddConnection(ctx context.Context, userID, connectionID string) error
	RemoveConnection(ctx context.Context, connectionID string) error
}

// ConnectionLister returns the connections a user currently holds open.
type ConnectionLister interface {
	GetConnections(ctx context.Context, userID string) ([]string, error)
}

// Publisher defines the interface for publishing messages to a user's WebSocket clients.
type Publisher interface {
	Publish(ctx context.Context, userID string, message Message) error
}
