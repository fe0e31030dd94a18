package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emergent-shell/shell-backend/internal/auth"
	"github.com/emergent-shell/shell-backend/internal/commands/dispatcher"
	"github.com/emergent-shell/shell-backend/internal/commands/domain"
	"github.com/emergent-shell/shell-backend/internal/commands/executor"
	"github.com/emergent-shell/shell-backend/internal/events"
	"github.com/emergent-shell/shell-backend/internal/storage/memory"
)

func newTestRouter(t *testing.T) (*gin.Engine, *memory.CommandStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := memory.NewCommandStore()
	exec := executor.New(memory.NewProjectStore(), log)
	d := dispatcher.New(store, exec, events.Noop{}, log, dispatcher.Options{Workers: 1, QueueSize: 4, Timeout: time.Second})
	d.Start()
	t.Cleanup(d.Stop)

	h := New(d, store, events.Noop{}, log)

	r := gin.New()
	group := r.Group("/api/v1/commands")
	group.Use(auth.HeaderIdentity())
	h.Register(group)
	return r, store
}

func doJSON(r *gin.Engine, method, path, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmit_RequiresIdentity(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/commands", "", `{"command":"help"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmit_RejectsEmptyCommand(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/commands", "user-1", `{"command":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/commands", "user-1", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmit_ReturnsPendingCommandID(t *testing.T) {
	r, store := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/commands", "user-1", `{"command":"help"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		OK        bool   `json:"ok"`
		CommandID string `json:"command_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	require.NotEmpty(t, resp.CommandID)

	// The record exists immediately, before the worker finishes.
	c, err := store.Get(context.Background(), resp.CommandID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "help", c.Command)
}

func TestList_FailsClosedWithoutIdentity(t *testing.T) {
	r, store := newTestRouter(t)

	require.NoError(t, store.InsertPending(context.Background(), domain.Command{
		ID:        "cmd-1",
		Command:   "help",
		OwnerID:   "user-1",
		Status:    domain.StatusPending,
		Output:    domain.OutputPending,
		Timestamp: time.Now().UTC(),
	}))

	w := doJSON(r, http.MethodGet, "/api/v1/commands", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OK       bool             `json:"ok"`
		Commands []domain.Command `json:"commands"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Commands)
}

func TestList_ScopedToOwnerAndProject(t *testing.T) {
	r, store := newTestRouter(t)
	now := time.Now().UTC()

	seed := func(id, owner, project string, ts time.Time) {
		require.NoError(t, store.InsertPending(context.Background(), domain.Command{
			ID: id, Command: "help", ProjectID: project, OwnerID: owner,
			Status: domain.StatusPending, Output: domain.OutputPending, Timestamp: ts,
		}))
	}
	seed("a", "user-1", "proj-1", now)
	seed("b", "user-1", "", now.Add(time.Second))
	seed("c", "user-2", "proj-1", now.Add(2*time.Second))

	w := doJSON(r, http.MethodGet, "/api/v1/commands?project_id=proj-1", "user-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Commands []domain.Command `json:"commands"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Commands, 1)
	assert.Equal(t, "a", resp.Commands[0].ID)
}
