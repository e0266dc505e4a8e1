package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleTimeUnixMillis(t *testing.T) {
	var ft FlexibleTime
	require.NoError(t, json.Unmarshal([]byte("1700000000000"), &ft))
	assert.Equal(t, int64(1700000000000), ft.UnixMilli())
}

func TestFlexibleTimeRFC3339(t *testing.T) {
	var ft FlexibleTime
	require.NoError(t, json.Unmarshal([]byte(`"2026-01-15T12:00:00Z"`), &ft))
	assert.Equal(t, 2026, ft.Year())
}

func TestFlexibleTimeInvalid(t *testing.T) {
	var ft FlexibleTime
	assert.Error(t, json.Unmarshal([]byte(`"not-a-time"`), &ft))
	assert.Error(t, json.Unmarshal([]byte(`{"bad":"shape"}`), &ft))
}

func TestNewMessageSetsTimestamp(t *testing.T) {
	msg := NewMessage(MessageTypeNotification, map[string]string{"hello": "world"})
	assert.Equal(t, MessageTypeNotification, msg.Type)
	assert.WithinDuration(t, time.Now(), msg.Timestamp.Time, time.Second)
}

func TestParsePayload(t *testing.T) {
	msg := NewMessage(MessageTypePong, PongPayload{ClientTime: 100, ServerTime: 150, Latency: 50})

	var pong PongPayload
	require.NoError(t, msg.ParsePayload(&pong))
	assert.Equal(t, int64(100), pong.ClientTime)
	assert.Equal(t, int64(50), pong.Latency)
}

func TestHubRegisterAndOnline(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{
		hub:    hub,
		UserID: "user-1",
		send:   make(chan []byte, 8),
	}

	hub.Register(client)

	// Registration is asynchronous
	assert.Eventually(t, func() bool {
		return hub.IsUserOnline("user-1")
	}, time.Second, 10*time.Millisecond)

	assert.False(t, hub.IsUserOnline("user-2"))

	hub.SendToUser("user-1", NewMessage(MessageTypeNotification, map[string]string{"kind": "post"}))

	select {
	case data := <-client.send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, MessageTypeNotification, msg.Type)
	case <-time.After(time.Second):
		t.Fatal("expected unicast message")
	}

	hub.Unregister(client)
	assert.Eventually(t, func() bool {
		return !hub.IsUserOnline("user-1")
	}, time.Second, 10*time.Millisecond)
}

func TestHubMetrics(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{
		hub:    hub,
		UserID: "user-1",
		send:   make(chan []byte, 8),
	}
	hub.Register(client)

	assert.Eventually(t, func() bool {
		return hub.GetMetrics().ActiveConnections == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(1), hub.GetMetrics().TotalConnections)
}
