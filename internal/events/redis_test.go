package events

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) *RedisBus {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewRedisBus(client, log)
}

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestRedisBus_UserScope(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()

	ch, cancel, err := bus.Subscribe(ctx, "user-1", "")
	require.NoError(t, err)
	defer cancel()

	ev := Event{Kind: KindInsert, CommandID: "cmd-1", OwnerID: "user-1"}
	require.NoError(t, bus.Publish(ctx, ev))

	got := waitEvent(t, ch)
	assert.Equal(t, ev, got)
}

func TestRedisBus_ProjectScope(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()

	ch, cancel, err := bus.Subscribe(ctx, "user-1", "proj-1")
	require.NoError(t, err)
	defer cancel()

	// Event on another project does not reach this subscriber.
	require.NoError(t, bus.Publish(ctx, Event{Kind: KindPatch, CommandID: "other", OwnerID: "user-1", ProjectID: "proj-2"}))
	require.NoError(t, bus.Publish(ctx, Event{Kind: KindPatch, CommandID: "cmd-1", OwnerID: "user-1", ProjectID: "proj-1"}))

	got := waitEvent(t, ch)
	assert.Equal(t, "cmd-1", got.CommandID)
}

func TestRedisBus_CancelClosesChannel(t *testing.T) {
	bus := newTestBus(t)

	ch, cancel, err := bus.Subscribe(context.Background(), "user-1", "")
	require.NoError(t, err)

	cancel()

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
