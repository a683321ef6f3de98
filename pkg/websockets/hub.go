package websockets

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// Hub keeps the local server's websocket connections in memory, grouped by user.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]map[string]*hubConn
	logger *logging.Logger
}

type hubConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

var _ Publisher = (*Hub)(nil)

// NewHub creates an empty Hub.
func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		conns:  make(map[string]map[string]*hubConn),
		logger: logging.OrGlobal(logger).Named("websockets.hub"),
	}
}

// Attach registers conn for userID and returns its connection id.
func (h *Hub) Attach(userID string, conn *websocket.Conn) string {
	id := uuid.New().String()
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[string]*hubConn)
	}
	h.conns[userID][id] = &hubConn{conn: conn}
	return id
}

// Detach forgets a connection.
func (h *Hub) Detach(userID, connectionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[userID], connectionID)
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
}

// Count returns how many connections userID holds.
func (h *Hub) Count(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}

func (h *Hub) Publish(_ context.Context, userID string, message Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	h.mu.RLock()
	targets := make(map[string]*hubConn, len(h.conns[userID]))
	for id, c := range h.conns[userID] {
		targets[id] = c
	}
	h.mu.RUnlock()

	for id, c := range targets {
		c.mu.Lock()
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := c.conn.WriteMessage(websocket.TextMessage, payload)
		c.mu.Unlock()
		if err != nil {
			h.logger.Info("dropping unwritable connection", zap.String("connection_id", id), zap.Error(err))
			c.conn.Close()
			h.Detach(userID, id)
		}
	}
	return nil
}
