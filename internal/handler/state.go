package handler

import (
	"net/http"
	"strconv"
	"time"

	"musespark-backend/internal/service"
	"musespark-backend/internal/utils"
	"musespark-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// HeartbeatInterval keeps idle event streams from being cut by proxies.
var HeartbeatInterval = 30 * time.Second

func (h *Handler) GetState(c *gin.Context) {
	h.respond(c, nil)
}

// StreamEvents sends the current snapshot and then one "state" event per
// commit until the client goes away or the app stops.
func (h *Handler) StreamEvents(c *gin.Context) {
	ctx := c.Request.Context()
	updates, unsubscribe := h.app.Subscribe()
	defer unsubscribe()

	snap, err := h.app.Snapshot(ctx)
	if err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusOK)
	sse := utils.NewSSEWriter(c.Writer)
	if err := writeSnapshot(sse, snap); err != nil {
		return
	}

	heartbeat := time.NewTicker(HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				sse.Close()
				return
			}
			if err := writeSnapshot(sse, snap); err != nil {
				return
			}
		case <-heartbeat.C:
			if err := sse.Comment("heartbeat"); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func writeSnapshot(sse *utils.SSEWriter, snap service.Snapshot) error {
	if err := sse.WriteJSON(strconv.FormatUint(snap.Revision, 10), "state", snap); err != nil {
		logger.Debugf("Event stream closed: %v", err)
		return err
	}
	return nil
}
