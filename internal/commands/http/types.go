package http

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/emergent-shell/shell-backend/internal/commands/dispatcher"
	"github.com/emergent-shell/shell-backend/internal/commands/domain"
	"github.com/emergent-shell/shell-backend/internal/events"
)

// Store is the read side of the command history used by the list and stream
// endpoints.
type Store interface {
	ListByOwner(ctx context.Context, ownerID, projectID string, limit int) ([]domain.Command, error)
}

// Handler bundles the dependencies for command HTTP endpoints.
type Handler struct {
	dispatcher *dispatcher.Dispatcher
	store      Store
	bus        events.Bus
	log        *logrus.Logger
}

func New(d *dispatcher.Dispatcher, store Store, bus events.Bus, log *logrus.Logger) *Handler {
	return &Handler{dispatcher: d, store: store, bus: bus, log: log}
}
