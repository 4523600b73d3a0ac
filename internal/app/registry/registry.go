package registry

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"linkup/internal/core/contracts"
)

// Registry maps topics to live connections and connections back to the
// topics they hold. All mutation happens under one mutex; payload delivery
// goes through each client's buffered writer so a dead or slow connection
// never blocks the fan-out.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]contracts.Client            // conn_id → client
	topics map[string]map[string]contracts.Client // topic → conn_id → client
	held   map[string]map[string]struct{}         // conn_id → topic set
	log    *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		conns:  make(map[string]contracts.Client),
		topics: make(map[string]map[string]contracts.Client),
		held:   make(map[string]map[string]struct{}),
		log:    log,
	}
}

func (r *Registry) Subscribe(c contracts.Client, topic string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := c.ID()
	r.conns[id] = c
	if r.topics[topic] == nil {
		r.topics[topic] = make(map[string]contracts.Client)
	}
	r.topics[topic][id] = c
	if r.held[id] == nil {
		r.held[id] = make(map[string]struct{})
	}
	r.held[id][topic] = struct{}{}
}

func (r *Registry) Publish(ctx context.Context, topic string, payload any, excludeID string) {
	data, err := json.Marshal(payload)
	if err != nil {
		r.log.ErrorContext(ctx, "registry - publish - marshal failed", "topic", topic, "err", err)
		return
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, c := range r.topics[topic] {
		if id == excludeID {
			continue
		}
		// Best effort: a closed client returns an error, a full buffer drops
		// the frame. Neither stops delivery to the rest.
		_ = c.Send(data)
	}
}

func (r *Registry) Send(ctx context.Context, connID string, payload any) {
	r.mu.RLock()
	c := r.conns[connID]
	r.mu.RUnlock()
	if c == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		r.log.ErrorContext(ctx, "registry - send - marshal failed", "conn_id", connID, "err", err)
		return
	}
	_ = c.Send(data)
}

func (r *Registry) UnsubscribeAll(c contracts.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := c.ID()
	for topic := range r.held[id] {
		delete(r.topics[topic], id)
		if len(r.topics[topic]) == 0 {
			delete(r.topics, topic)
		}
	}
	delete(r.held, id)
	delete(r.conns, id)
}
