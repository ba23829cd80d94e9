package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
	DisconnectSession(sessionID string)
}

// noopBroadcaster is used until the hub is wired, and by tests.
type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToSession(string, string, interface{}) {}
func (noopBroadcaster) DisconnectSession(string)                       {}

// NopBroadcaster returns a broadcaster that drops everything.
func NopBroadcaster() Broadcaster { return noopBroadcaster{} }
