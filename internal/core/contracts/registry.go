package contracts

import (
	"context"

	"linkup/internal/core/domain"
)

// Registry is the connection fan-out layer. It owns the mapping from topic to
// live connections and is the only way other components reach a socket.
//
// Delivery is at-most-once per subscribed connection per publish: a slow or
// closed connection drops its copy without blocking delivery to the rest, and
// no error surfaces to the caller.
type Registry interface {
	// Subscribe adds the connection to a topic's set. Idempotent; the first
	// subscription also registers the connection for direct sends.
	Subscribe(c Client, topic string)
	// Publish fans a payload out to every connection subscribed to topic.
	// excludeID, when non-empty, names one connection to skip so an actor can
	// be acknowledged through Send instead of echoed through the broadcast.
	Publish(ctx context.Context, topic string, payload any, excludeID string)
	// Send delivers directly to one connection, independent of topics.
	Send(ctx context.Context, connID string, payload any)
	// UnsubscribeAll removes the connection from every topic it holds. Called
	// on socket close; cost is proportional to the topics the connection held.
	UnsubscribeAll(c Client)
}

// Client is the minimal surface the registry needs from one WebSocket
// connection.
type Client interface {
	ID() string
	Identity() domain.Identity
	Send(data []byte) error
	Close()
}
