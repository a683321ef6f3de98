package storage

import "context"

// ConnectionStore keeps track of which websocket connections belong to which user.
type ConnectionStore interface {
	AddConnection(ctx context.Context, userID, connectionID string) error
	RemoveConnection(ctx context.Context, connectionID string) error
	GetConnections(ctx context.Context, userID string) ([]string, error)
}
