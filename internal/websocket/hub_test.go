package websocket

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func newTestHub() *Hub {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run()
	return hub
}

func register(t *testing.T, hub *Hub, userID string) *Client {
	t.Helper()
	client := &Client{
		UserID:       userID,
		LastActivity: time.Now(),
		hub:          hub,
		Send:         make(chan []byte, 8),
	}
	hub.Register <- client

	deadline := time.After(time.Second)
	for !hub.IsUserOnline(userID) {
		select {
		case <-deadline:
			t.Fatalf("client %s never registered", userID)
		case <-time.After(time.Millisecond):
		}
	}
	return client
}

func TestHubTracksOnlineUsers(t *testing.T) {
	hub := newTestHub()

	if hub.IsUserOnline("u1") {
		t.Fatalf("u1 should be offline before registering")
	}

	client := register(t, hub, "u1")

	online := hub.GetOnlineUsers()
	if !online["u1"] {
		t.Fatalf("u1 should be online, got %v", online)
	}

	hub.Unregister <- client
	deadline := time.After(time.Second)
	for hub.IsUserOnline("u1") {
		select {
		case <-deadline:
			t.Fatalf("u1 still online after unregister")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestSendToUser(t *testing.T) {
	hub := newTestHub()

	if hub.SendToUser("nobody", Message{Type: "group-message"}) {
		t.Fatalf("send to offline user should report false")
	}

	client := register(t, hub, "u1")

	if !hub.SendToUser("u1", Message{Type: "group-message", GroupID: "g1"}) {
		t.Fatalf("send to online user should report true")
	}

	select {
	case data := <-client.Send:
		if len(data) == 0 {
			t.Fatalf("empty payload delivered")
		}
	case <-time.After(time.Second):
		t.Fatalf("no payload delivered")
	}
}

func TestPresenceBroadcast(t *testing.T) {
	hub := newTestHub()

	watcher := register(t, hub, "watcher")
	register(t, hub, "newcomer")

	select {
	case data := <-watcher.Send:
		if string(data) == "" {
			t.Fatalf("empty presence payload")
		}
	case <-time.After(time.Second):
		t.Fatalf("watcher never notified about newcomer")
	}
}
