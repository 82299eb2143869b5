package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(id string) *ClientConnection {
	return &ClientConnection{
		ID:    id,
		Send:  make(chan WebSocketMessage, 8),
		Close: make(chan bool),
	}
}

func receive(t *testing.T, client *ClientConnection) WebSocketMessage {
	t.Helper()
	select {
	case msg, ok := <-client.Send:
		require.True(t, ok, "send channel closed")
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("client %s received nothing", client.ID)
		return WebSocketMessage{}
	}
}

func TestWebSocketHubBroadcastsCycles(t *testing.T) {
	logger, _ := newBufferedLogger()
	hub := NewWebSocketHub(logger)
	defer hub.Stop()

	a, b := newTestClient("a"), newTestClient("b")
	hub.Register(a)
	hub.Register(b)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	sample := sampleOf(95, 10, 10)
	hub.OnCycle(sample, Evaluate(sample, thresholdsForTest()))

	for _, c := range []*ClientConnection{a, b} {
		msg := receive(t, c)
		assert.Equal(t, "cycle", msg.Type)
		payload, ok := msg.Data.(CyclePayload)
		require.True(t, ok)
		assert.Equal(t, 95.0, payload.Sample.CPUPercent)
		assert.Len(t, payload.Alerts, 1)
	}

	hub.OnCycleError(errors.New("sensor offline"))
	msg := receive(t, a)
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, "sensor offline", msg.Error)
}

func TestWebSocketHubUnregisterAndDirectSend(t *testing.T) {
	logger, _ := newBufferedLogger()
	hub := NewWebSocketHub(logger)
	defer hub.Stop()

	a := newTestClient("a")
	hub.Register(a)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.SendMessage("a", WebSocketMessage{Type: "pong"})
	assert.Equal(t, "pong", receive(t, a).Type)

	// unknown clients are ignored
	hub.SendMessage("nobody", WebSocketMessage{Type: "pong"})

	hub.Unregister("a")
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-a.Send
	assert.False(t, ok)
}

func TestWebSocketHubStopClosesClients(t *testing.T) {
	logger, _ := newBufferedLogger()
	hub := NewWebSocketHub(logger)

	a := newTestClient("a")
	hub.Register(a)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Stop()
	hub.Stop()

	select {
	case _, ok := <-a.Send:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("client channel not closed on Stop")
	}

	// calls after Stop return immediately
	hub.Register(newTestClient("late"))
	hub.Unregister("a")
	hub.Broadcast(WebSocketMessage{Type: "cycle"})
}
