package handlers

import (
	"context"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	api "holostream/internal/api/application"
)

const feedWriteTimeout = 5 * time.Second

// FeedHandler streams store snapshots over a WebSocket
type FeedHandler struct {
	service  *api.MetricsService
	interval time.Duration
}

// NewFeedHandler creates a feed sending one frame per interval
func NewFeedHandler(service *api.MetricsService, interval time.Duration) *FeedHandler {
	return &FeedHandler{
		service:  service,
		interval: interval,
	}
}

// Stream handles GET /api/v1/ws
// @Summary      Live metrics feed
// @Description  WebSocket sending the connection status and all metrics on every tick
// @Tags         metrics
// @Security     ApiKeyAuth
// @Router       /v1/ws [get]
func (h *FeedHandler) Stream(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		logger.Warn("WebSocket accept failed", "err", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "feed stopped")

	// Clients never send; CloseRead cancels ctx once they go away
	ctx := conn.CloseRead(r.Context())

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		if err := h.send(ctx, conn); err != nil {
			logger.Debug("Feed client gone", "err", err)
			return
		}

		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case <-ticker.C:
		}
	}
}

func (h *FeedHandler) send(ctx context.Context, conn *websocket.Conn) error {
	ctx, cancel := context.WithTimeout(ctx, feedWriteTimeout)
	defer cancel()

	status := h.service.Status()
	return wsjson.Write(ctx, conn, api.FeedMessage{
		Status:    status.Status,
		Timestamp: time.Now().UTC(),
		Metrics:   h.service.List(),
	})
}
