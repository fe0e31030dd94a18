package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmddomain "github.com/emergent-shell/shell-backend/internal/commands/domain"
	projdomain "github.com/emergent-shell/shell-backend/internal/projects/domain"
)

func pendingCommand(id, owner, project string, ts time.Time) cmddomain.Command {
	return cmddomain.Command{
		ID:        id,
		Command:   "help",
		ProjectID: project,
		OwnerID:   owner,
		Status:    cmddomain.StatusPending,
		Output:    cmddomain.OutputPending,
		Timestamp: ts,
	}
}

func TestCommandStore_ListCapAndOrder(t *testing.T) {
	store := NewCommandStore()
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < cmddomain.HistoryLimit+10; i++ {
		c := pendingCommand(fmt.Sprintf("cmd-%d", i), "user-1", "", base.Add(time.Duration(i)*time.Second))
		require.NoError(t, store.InsertPending(ctx, c))
	}

	items, err := store.ListByOwner(ctx, "user-1", "", cmddomain.HistoryLimit)
	require.NoError(t, err)
	require.Len(t, items, cmddomain.HistoryLimit)

	// Strictly non-increasing timestamps, newest first.
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].Timestamp.After(items[i-1].Timestamp))
	}
	assert.Equal(t, fmt.Sprintf("cmd-%d", cmddomain.HistoryLimit+9), items[0].ID)
}

func TestCommandStore_ScopedListing(t *testing.T) {
	store := NewCommandStore()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.InsertPending(ctx, pendingCommand("a", "user-1", "proj-1", now)))
	require.NoError(t, store.InsertPending(ctx, pendingCommand("b", "user-1", "proj-2", now.Add(time.Second))))
	require.NoError(t, store.InsertPending(ctx, pendingCommand("c", "user-2", "proj-1", now.Add(2*time.Second))))

	items, err := store.ListByOwner(ctx, "user-1", "proj-1", cmddomain.HistoryLimit)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].ID)

	// Project scope never crosses owners.
	items, err = store.ListByOwner(ctx, "user-2", "proj-1", cmddomain.HistoryLimit)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "c", items[0].ID)
}

func TestCommandStore_CompleteIsSingleShot(t *testing.T) {
	store := NewCommandStore()
	ctx := context.Background()

	require.NoError(t, store.InsertPending(ctx, pendingCommand("a", "user-1", "", time.Now().UTC())))

	patched, err := store.Complete(ctx, "a", "done")
	require.NoError(t, err)
	assert.True(t, patched)

	patched, err = store.Complete(ctx, "a", "done again")
	require.NoError(t, err)
	assert.False(t, patched)

	c, err := store.Get(ctx, "a", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "done", c.Output)
	assert.Equal(t, cmddomain.StatusCompleted, c.Status)
}

func TestCommandStore_OwnershipScopesGet(t *testing.T) {
	store := NewCommandStore()
	ctx := context.Background()

	require.NoError(t, store.InsertPending(ctx, pendingCommand("a", "user-1", "", time.Now().UTC())))

	_, err := store.Get(ctx, "a", "user-2")
	assert.ErrorIs(t, err, cmddomain.ErrNotFound)
}

func TestProjectStore_OwnershipIndistinguishableFromMissing(t *testing.T) {
	store := NewProjectStore()
	ctx := context.Background()

	id, err := store.Create(ctx, projdomain.Project{Name: "mine", Type: projdomain.TypeApp, Language: "javascript", OwnerID: "user-1"})
	require.NoError(t, err)

	_, errMissing := store.Get(ctx, "proj-00000-0000", "user-2")
	_, errForeign := store.Get(ctx, id, "user-2")
	assert.Equal(t, errMissing, errForeign)

	err = store.UpdateCode(ctx, id, "user-2", "stolen")
	assert.ErrorIs(t, err, projdomain.ErrNotFound)

	p, err := store.Get(ctx, id, "user-1")
	require.NoError(t, err)
	assert.Empty(t, p.Code)
}
