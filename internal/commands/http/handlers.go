package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emergent-shell/shell-backend/internal/auth"
	"github.com/emergent-shell/shell-backend/internal/commands/domain"
)

type submitReq struct {
	Command   string `json:"command"`
	ProjectID string `json:"project_id"`
}

func (h *Handler) submit(c *gin.Context) {
	var req submitReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Command) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	userID := auth.UserID(c)
	id, err := h.dispatcher.Submit(c.Request.Context(), req.Command, userID, req.ProjectID)
	if err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "not authenticated"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "command_id": id})
}

func (h *Handler) list(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		// Read path fails closed: no identity, no history.
		c.JSON(http.StatusOK, gin.H{"ok": true, "commands": []domain.Command{}})
		return
	}

	items, err := h.store.ListByOwner(c.Request.Context(), userID, c.Query("project_id"), domain.HistoryLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "commands": items})
}
