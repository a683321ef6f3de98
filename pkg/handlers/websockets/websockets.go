package websockets

import (
	"context"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/digital-wallet/pkg/handlers/respond"
	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/middleware"
	"github.com/chris/digital-wallet/pkg/websockets"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler handles WebSocket connections.
type Handler struct {
	connManager websockets.ConnectionManager
	hub         *websockets.Hub
	logger      *logging.Logger
}

// NewHandler creates a new Handler. connManager backs the API Gateway routes and
// hub the local /ws endpoint; either may be nil when that mode is not served.
func NewHandler(connManager websockets.ConnectionManager, hub *websockets.Hub, logger *logging.Logger) *Handler {
	return &Handler{
		connManager: connManager,
		hub:         hub,
		logger:      logging.OrGlobal(logger).Named("websockets"),
	}
}

// userID reads the caller the auth proxy attached to the $connect request.
func userID(request events.APIGatewayWebsocketProxyRequest) string {
	for k, v := range request.Headers {
		if strings.EqualFold(k, middleware.HeaderUserID) {
			return strings.TrimSpace(v)
		}
	}
	return request.QueryStringParameters["user_id"]
}

// HandleConnect handles new client connections.
func (h *Handler) HandleConnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	connectionID := request.RequestContext.ConnectionID
	user := userID(request)
	if user == "" {
		h.logger.Warn("rejecting unauthenticated connection", zap.String("connection_id", connectionID))
		return events.APIGatewayProxyResponse{StatusCode: http.StatusUnauthorized}, nil
	}

	h.logger.Info("client connected", zap.String("connection_id", connectionID), zap.String("user_id", user))
	if err := h.connManager.AddConnection(ctx, user, connectionID); err != nil {
		h.logger.Error("failed to save connection ID", zap.String("connection_id", connectionID), zap.Error(err))
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}

	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

// HandleDisconnect handles client disconnections.
func (h *Handler) HandleDisconnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	connectionID := request.RequestContext.ConnectionID
	h.logger.Info("client disconnected", zap.String("connection_id", connectionID))

	if err := h.connManager.RemoveConnection(ctx, connectionID); err != nil {
		h.logger.Error("failed to delete connection ID", zap.String("connection_id", connectionID), zap.Error(err))
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}

	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

// HandleDefault handles messages sent from a client. Clients are not expected to send any.
func (h *Handler) HandleDefault(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	h.logger.Debug("received message", zap.String("connection_id", request.RequestContext.ConnectionID), zap.String("body", request.Body))
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all connections by default for local development.
		return true
	},
}

// ServeHTTP handles WebSocket requests for the local development server.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	if h.hub == nil {
		http.Error(w, "websockets are not served here", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer conn.Close()

	connectionID := h.hub.Attach(caller.UserID, conn)
	h.logger.Info("client connected locally", zap.String("connection_id", connectionID), zap.String("user_id", caller.UserID))

	defer func() {
		h.logger.Info("client disconnected locally", zap.String("connection_id", connectionID))
		h.hub.Detach(caller.UserID, connectionID)
	}()

	// Reading is how a closed connection is noticed; messages are discarded.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("unexpected close error", zap.Error(err))
			}
			break
		}
	}
}
