// Package transport defines the real-time channel contract the chat session
// depends on, plus the websocket implementation speaking the server's
// socket event protocol.
package transport

import (
	"context"

	"github.com/rakshverma/sociochat/internal/model"
)

// Transport opens channel connections. One connection is scoped to one user:
// the server delivers every message addressed to or from that user on it, so
// no per-peer connections exist.
type Transport interface {
	Connect(ctx context.Context, userID string) (Conn, error)
}

// Conn is one established channel connection.
type Conn interface {
	// Subscribe registers the inbound handlers and starts delivery.
	// Messages are delivered one at a time, in the order received from the
	// server. Must be called at most once per connection.
	Subscribe(onMessage func(model.Message), onError func(error))

	// Emit sends a message request. Fire-and-forget from the session's point
	// of view: a returned error means the write failed, and no retry happens.
	Emit(ctx context.Context, req model.SendRequest) error

	// Close tears the connection down. Safe to call more than once.
	Close() error
}
