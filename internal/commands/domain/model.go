package domain

import (
	"errors"
	"time"
)

// OutputPending is the placeholder the UI shows while a command executes.
// The wire contract with the terminal frontend depends on this exact literal.
const OutputPending = "Processing..."

// HistoryLimit caps how many commands a scoped listing returns.
const HistoryLimit = 50

var ErrNotFound = errors.New("command not found")

// Status tracks the single pending→completed transition of a command.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Command is one submitted terminal line and its (eventual) output.
// ProjectID is a weak reference: it may dangle and carries no ownership.
type Command struct {
	ID          string     `json:"id"`
	Command     string     `json:"command"`
	ProjectID   string     `json:"project_id,omitempty"`
	OwnerID     string     `json:"-"`
	Status      Status     `json:"status"`
	Output      string     `json:"output"`
	Timestamp   time.Time  `json:"timestamp"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
