package websockets

import "context"

// NoOpPublisher drops every message. It stands in when no websocket transport is configured.
type NoOpPublisher struct{}

func (p *NoOpPublisher) Publish(ctx context.Context, userID string, message Message) error {
	return nil
}
