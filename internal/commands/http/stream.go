package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emergent-shell/shell-backend/internal/auth"
	"github.com/emergent-shell/shell-backend/internal/commands/domain"
)

// stream pushes the live command history for (user) or (user, project) over
// Server-Sent Events. Each bus signal triggers a fresh store query, so
// subscribers only ever see committed state and observe the
// Processing...→final transition without re-requesting. A slow poll backs up
// the bus in case events are dropped or no Redis is configured.
func (h *Handler) stream(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "not authenticated"})
		return
	}
	projectID := c.Query("project_id")

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "streaming unsupported"})
		return
	}

	ctx := c.Request.Context()

	evCh, cancel, err := h.bus.Subscribe(ctx, userID, projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "subscribe failed"})
		return
	}
	defer cancel()

	lastDigest := ""
	send := func(event string) bool {
		items, err := h.store.ListByOwner(ctx, userID, projectID, domain.HistoryLimit)
		if err != nil {
			h.log.WithError(err).Warn("stream history query failed")
			return true
		}

		digest := historyDigest(items)
		if event == "update" && digest == lastDigest {
			return true
		}
		lastDigest = digest

		payload, _ := json.Marshal(gin.H{"commands": items})
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, payload)
		flusher.Flush()
		return true
	}

	// Initial snapshot before any signal arrives.
	send("initial")

	keepAlive := time.NewTicker(15 * time.Second)
	defer keepAlive.Stop()

	poll := time.NewTicker(5 * time.Second)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			// Client disconnected
			return

		case <-keepAlive.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case _, open := <-evCh:
			if !open {
				return
			}
			send("update")

		case <-poll.C:
			send("update")
		}
	}
}

// historyDigest is a cheap change detector over ids and statuses so
// unchanged snapshots are not re-sent on poll ticks.
func historyDigest(items []domain.Command) string {
	var b strings.Builder
	for _, c := range items {
		b.WriteString(c.ID)
		b.WriteByte(':')
		b.WriteString(string(c.Status))
		b.WriteByte(';')
	}
	return b.String()
}
