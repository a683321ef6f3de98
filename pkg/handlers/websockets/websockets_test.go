package websockets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/digital-wallet/pkg/middleware"
	"github.com/chris/digital-wallet/pkg/websockets"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockConnManager struct {
	mock.Mock
}

func (m *mockConnManager) AddConnection(ctx context.Context, userID, connectionID string) error {
	return m.Called(ctx, userID, connectionID).Error(0)
}

func (m *mockConnManager) RemoveConnection(ctx context.Context, connectionID string) error {
	return m.Called(ctx, connectionID).Error(0)
}

func connectRequest(headers map[string]string) events.APIGatewayWebsocketProxyRequest {
	return events.APIGatewayWebsocketProxyRequest{
		Headers:        headers,
		RequestContext: events.APIGatewayWebsocketProxyRequestContext{ConnectionID: "conn-1"},
	}
}

func TestHandleConnect(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		conns := new(mockConnManager)
		conns.On("AddConnection", mock.Anything, "user-1", "conn-1").Return(nil)
		h := NewHandler(conns, nil, nil)

		resp, err := h.HandleConnect(context.Background(), connectRequest(map[string]string{"x-user-id": "user-1"}))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		conns.AssertExpectations(t)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		conns := new(mockConnManager)
		h := NewHandler(conns, nil, nil)

		resp, err := h.HandleConnect(context.Background(), connectRequest(nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		conns.AssertNotCalled(t, "AddConnection", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Store failure", func(t *testing.T) {
		conns := new(mockConnManager)
		conns.On("AddConnection", mock.Anything, "user-1", "conn-1").Return(errors.New("throttled"))
		h := NewHandler(conns, nil, nil)

		resp, err := h.HandleConnect(context.Background(), connectRequest(map[string]string{"X-User-ID": "user-1"}))

		assert.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestHandleDisconnect(t *testing.T) {
	conns := new(mockConnManager)
	conns.On("RemoveConnection", mock.Anything, "conn-1").Return(nil)
	h := NewHandler(conns, nil, nil)

	resp, err := h.HandleDisconnect(context.Background(), connectRequest(nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	conns.AssertExpectations(t)
}

func TestServeHTTP(t *testing.T) {
	hub := websockets.NewHub(nil)
	h := NewHandler(nil, hub, nil)
	server := httptest.NewServer(middleware.Identity(h))
	defer server.Close()

	header := http.Header{}
	header.Set(middleware.HeaderUserID, "user-1")
	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), header)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return hub.Count("user-1") == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, client.Close())
	assert.Eventually(t, func() bool { return hub.Count("user-1") == 0 }, time.Second, 10*time.Millisecond)
}
