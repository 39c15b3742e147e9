package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// Cart stream event names
const (
	StreamEventCart = "cart"
)

// StreamMessage is one server-sent event
type StreamMessage struct {
	Event string
	ID    string
	Data  string
}

// Stream godoc
// @Summary      Stream cart changes
// @Description  Server-sent events carrying the cart snapshot on connect and after every change.
// @Description  Each event id is the cart version; a stale snapshot is never sent after a newer one.
// @Tags         cart
// @Produce      text/event-stream
// @Success      200 {string} string "SSE stream"
// @Failure      429 {object} ErrorResponse
// @Router       /cart/stream [get]
func (h *CartHandler) Stream(c *gin.Context) {
	if !h.acquireStream() {
		h.ErrorWithCode(c, dto.ErrCodeRateLimited, "Too many open cart streams", nil)
		return
	}
	defer h.streams.Add(-1)

	ctx := c.Request.Context()
	sessionID := middleware.GetSessionID(c)

	// Subscribe before reading so no change between the read and the
	// subscription is lost
	sub := h.watcher.Watch(sessionID, 0)
	defer sub.Close()

	current, err := h.carts.Get(ctx, sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	last := current.Snapshot()

	if h.metrics != nil {
		h.metrics.StreamOpened(ctx)
		defer h.metrics.StreamClosed(ctx)
	}

	// The server write timeout would otherwise cut the stream
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	log := h.logger.With(
		zap.String("session_id", sessionID),
		zap.String("request_id", middleware.GetRequestID(c)),
	)
	log.Debug("Cart stream opened", zap.Uint64("version", last.Version))

	if err := h.sendSnapshot(c.Writer, last); err != nil {
		log.Warn("Failed to send cart snapshot", zap.Error(err))
		return
	}
	c.Writer.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("Cart stream closed by client")
			return
		case <-h.done:
			log.Debug("Cart stream closed by server shutdown")
			return
		case <-heartbeat.C:
			if _, err := io.WriteString(c.Writer, ": heartbeat\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		case snapshot, ok := <-sub.Updates():
			if !ok {
				return
			}
			if !snapshot.NewerThan(last) {
				continue
			}
			last = snapshot
			if err := h.sendSnapshot(c.Writer, snapshot); err != nil {
				log.Warn("Failed to send cart snapshot", zap.Error(err))
				return
			}
			c.Writer.Flush()
		}
	}
}

// StreamCount returns the number of open cart streams
func (h *CartHandler) StreamCount() int {
	return int(h.streams.Load())
}

// acquireStream reserves a stream slot, failing once maxStreams are open
func (h *CartHandler) acquireStream() bool {
	for {
		open := h.streams.Load()
		if h.maxStreams > 0 && open >= int64(h.maxStreams) {
			return false
		}
		if h.streams.CompareAndSwap(open, open+1) {
			return true
		}
	}
}

func (h *CartHandler) sendSnapshot(w io.Writer, snapshot cart.Snapshot) error {
	data, err := json.Marshal(cartapp.ToCartResponse(snapshot, h.locale))
	if err != nil {
		return fmt.Errorf("marshal cart snapshot: %w", err)
	}
	return writeEvent(w, StreamMessage{
		Event: StreamEventCart,
		ID:    fmt.Sprintf("%d", snapshot.Version),
		Data:  string(data),
	})
}

// writeEvent writes an SSE event to the response writer
func writeEvent(w io.Writer, msg StreamMessage) error {
	if msg.Event != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", msg.Event); err != nil {
			return err
		}
	}
	if msg.ID != "" {
		if _, err := fmt.Fprintf(w, "id: %s\n", msg.ID); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "data: %s\n\n", msg.Data)
	return err
}
