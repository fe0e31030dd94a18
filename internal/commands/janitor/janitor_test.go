package janitor

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emergent-shell/shell-backend/internal/commands/domain"
	"github.com/emergent-shell/shell-backend/internal/events"
	"github.com/emergent-shell/shell-backend/internal/storage/memory"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestSweep_ReapsOnlyStalePending(t *testing.T) {
	store := memory.NewCommandStore()
	ctx := context.Background()

	stale := domain.Command{
		ID:        "stale",
		Command:   "generate something slow",
		OwnerID:   "user-1",
		Status:    domain.StatusPending,
		Output:    domain.OutputPending,
		Timestamp: time.Now().UTC().Add(-10 * time.Minute),
	}
	fresh := domain.Command{
		ID:        "fresh",
		Command:   "help",
		OwnerID:   "user-1",
		Status:    domain.StatusPending,
		Output:    domain.OutputPending,
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, store.InsertPending(ctx, stale))
	require.NoError(t, store.InsertPending(ctx, fresh))

	j := New(store, events.Noop{}, testLogger(), 2*time.Minute)
	j.Sweep()

	c, err := store.Get(ctx, "stale", "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, c.Status)
	assert.Equal(t, "Error: command timed out", c.Output)

	c, err = store.Get(ctx, "fresh", "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, c.Status)
	assert.Equal(t, domain.OutputPending, c.Output)
}

func TestSweep_DoesNotTouchCompleted(t *testing.T) {
	store := memory.NewCommandStore()
	ctx := context.Background()

	old := domain.Command{
		ID:        "old",
		Command:   "help",
		OwnerID:   "user-1",
		Status:    domain.StatusPending,
		Output:    domain.OutputPending,
		Timestamp: time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, store.InsertPending(ctx, old))

	patched, err := store.Complete(ctx, "old", "real output")
	require.NoError(t, err)
	require.True(t, patched)

	j := New(store, events.Noop{}, testLogger(), 2*time.Minute)
	j.Sweep()

	c, err := store.Get(ctx, "old", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "real output", c.Output)
}
