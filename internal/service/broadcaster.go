package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastLobby(msgType string, payload interface{})
	BroadcastSession(sessionID string, msgType string, payload interface{})
}
