// Package events carries insert/patch signals from the command pipeline to
// live history subscribers.
package events

import "context"

// Kind of change to a command record.
const (
	KindInsert = "insert"
	KindPatch  = "patch"
)

// Event signals that a command affecting a (user) or (user, project) scope
// was inserted or patched. Subscribers re-query the store for the snapshot;
// the event itself is only a wakeup.
type Event struct {
	Kind      string `json:"kind"`
	CommandID string `json:"command_id"`
	OwnerID   string `json:"owner_id"`
	ProjectID string `json:"project_id,omitempty"`
}

// Bus publishes command events and lets observers subscribe to a scope.
type Bus interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe returns a channel of events for (ownerID) or
	// (ownerID, projectID) and a cancel func that releases the subscription.
	Subscribe(ctx context.Context, ownerID, projectID string) (<-chan Event, func(), error)
}

// Noop is used when no Redis is configured; streams then rely on their
// polling fallback only.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

func (Noop) Subscribe(context.Context, string, string) (<-chan Event, func(), error) {
	ch := make(chan Event)
	return ch, func() { close(ch) }, nil
}
