package sse

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/GameDevClicker_Go/internal/event"
	"github.com/osse101/GameDevClicker_Go/internal/testing/leaktest"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	// Registered before Stop so the leak check runs after the hub halts.
	t.Cleanup(leaktest.Check(t))
	hub := NewHub()
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", want, hub.ClientCount())
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func receive(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case evt, ok := <-client.EventChannel:
		require.True(t, ok, "event channel closed unexpectedly")
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for SSE event")
		return Event{}
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := newTestHub(t)

	first := hub.Register("", nil)
	second := hub.Register("", nil)
	waitForClients(t, hub, 2)

	hub.Broadcast("milestone.unlocked", "alice", map[string]string{"milestone_id": "money"})

	for _, client := range []*Client{first, second} {
		evt := receive(t, client)
		assert.Equal(t, "milestone.unlocked", evt.Type)
		assert.Equal(t, "alice", evt.ProfileID)
		assert.NotEmpty(t, evt.ID)
	}
}

func TestHub_TypeFilterDropsOtherEvents(t *testing.T) {
	hub := newTestHub(t)

	client := hub.Register("", []string{"milestone.unlocked"})
	waitForClients(t, hub, 1)

	// The money event must be filtered out, so the first delivery is the
	// milestone event published after it.
	hub.Broadcast("player.money_changed", "alice", nil)
	hub.Broadcast("milestone.unlocked", "alice", nil)

	evt := receive(t, client)
	assert.Equal(t, "milestone.unlocked", evt.Type)
}

func TestHub_ProfileFilter(t *testing.T) {
	hub := newTestHub(t)

	client := hub.Register("alice", nil)
	waitForClients(t, hub, 1)

	hub.Broadcast("player.level_up", "bob", nil)
	hub.Broadcast("player.level_up", "alice", nil)

	evt := receive(t, client)
	assert.Equal(t, "alice", evt.ProfileID)
}

func TestHub_ProfileLessEventsReachEveryone(t *testing.T) {
	hub := newTestHub(t)

	client := hub.Register("alice", nil)
	waitForClients(t, hub, 1)

	hub.Broadcast("balance.reloaded", "", map[string]int{"upgrades": 4})

	evt := receive(t, client)
	assert.Equal(t, "balance.reloaded", evt.Type)
	assert.Empty(t, evt.ProfileID)
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	hub := newTestHub(t)

	client := hub.Register("", nil)
	waitForClients(t, hub, 1)

	hub.Unregister(client.ID)
	waitForClients(t, hub, 0)

	select {
	case _, ok := <-client.EventChannel:
		assert.False(t, ok, "channel should be closed after unregister")
	case <-time.After(time.Second):
		t.Fatal("channel not closed after unregister")
	}
}

func TestSubscriber_ForwardsTypedPayloadsWithProfile(t *testing.T) {
	hub := newTestHub(t)
	bus := event.NewMemoryBus()

	NewSubscriber(hub, bus).Subscribe()

	client := hub.Register("alice", nil)
	waitForClients(t, hub, 1)

	require.NoError(t, bus.Publish(context.Background(),
		event.NewMilestoneUnlockedEvent("alice", "money", "Money System", "Money is flowing.")))

	evt := receive(t, client)
	assert.Equal(t, "milestone.unlocked", evt.Type)
	assert.Equal(t, "alice", evt.ProfileID)

	payload, ok := evt.Payload.(event.MilestoneUnlockedPayloadV1)
	require.True(t, ok, "payload should pass through typed")
	assert.Equal(t, "money", payload.MilestoneID)
}

func TestFormatSSEMessage(t *testing.T) {
	msg, err := FormatSSEMessage(Event{
		ID:        "42",
		Type:      "player.level_up",
		ProfileID: "alice",
		Timestamp: 1700000000,
		Payload:   map[string]int{"new_level": 3},
	})
	require.NoError(t, err)

	text := string(msg)
	assert.True(t, strings.HasPrefix(text, "id: 42\n"))
	assert.Contains(t, text, "event: player.level_up\n")
	assert.Contains(t, text, `"new_level":3`)
	assert.True(t, strings.HasSuffix(text, "\n\n"))
}
