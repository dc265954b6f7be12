package ws

import (
	"encoding/json"
	"testing"
	"time"
)

func receiveMessage(t *testing.T, conn *Connection) *Message {
	t.Helper()
	select {
	case data := <-conn.Send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal message: %v", err)
		}
		return &msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func registerAndWait(t *testing.T, hub *Hub, conn *Connection) {
	t.Helper()
	hub.Register(conn)
	// Register is processed by the run loop; a second send through the same
	// channel guarantees the first was consumed.
	probe := &Connection{SessionID: "probe", Send: make(chan []byte, 1)}
	hub.Register(probe)
	hub.Unregister(probe)
}

func TestBroadcastLobby(t *testing.T) {
	hub := NewHub()
	lobby := &Connection{UserID: "u1", Send: make(chan []byte, 4)}
	watcher := &Connection{SessionID: "s1", UserID: "u2", Send: make(chan []byte, 4)}
	registerAndWait(t, hub, lobby)
	registerAndWait(t, hub, watcher)

	hub.BroadcastLobby("session_created", map[string]string{"sessionId": "s1"})

	msg := receiveMessage(t, lobby)
	if msg.Type != "session_created" {
		t.Errorf("Type = %q; want session_created", msg.Type)
	}

	select {
	case <-watcher.Send:
		t.Error("session watcher should not receive lobby events")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastSession(t *testing.T) {
	hub := NewHub()
	watcher := &Connection{SessionID: "s1", UserID: "u2", Send: make(chan []byte, 4)}
	otherWatcher := &Connection{SessionID: "s2", UserID: "u3", Send: make(chan []byte, 4)}
	registerAndWait(t, hub, watcher)
	registerAndWait(t, hub, otherWatcher)

	hub.BroadcastSession("s1", "session_joined", map[string]string{"userId": "u9"})

	msg := receiveMessage(t, watcher)
	if msg.Type != "session_joined" {
		t.Errorf("Type = %q; want session_joined", msg.Type)
	}

	var payload map[string]string
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload["userId"] != "u9" {
		t.Errorf("payload = %v; want userId u9", payload)
	}

	select {
	case <-otherWatcher.Send:
		t.Error("watcher of another session should not receive the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	lobby := &Connection{UserID: "u1", Send: make(chan []byte, 1)}
	registerAndWait(t, hub, lobby)

	hub.Unregister(lobby)

	select {
	case _, ok := <-lobby.Send:
		if ok {
			t.Error("Send should be closed, not carrying data")
		}
	case <-time.After(time.Second):
		t.Fatal("Send was not closed after unregister")
	}
}
