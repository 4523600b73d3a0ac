package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"linkup/internal/core/domain"
)

var (
	ErrClientClosed = errors.New("client closed")
	ErrBufferFull   = errors.New("send buffer full")
)

// RuntimeClient is one authenticated socket. Send never blocks the caller: a
// consumer that cannot drain its buffer loses frames instead of stalling a
// broadcast holding the registry lock.
type RuntimeClient struct {
	ctx      context.Context
	cancel   context.CancelFunc
	ws       *WebSocket
	id       string
	identity domain.Identity
	out      chan []byte
	once     sync.Once
}

func NewClient(parent context.Context, ws *WebSocket, identity domain.Identity) *RuntimeClient {
	ctx, cancel := context.WithCancel(parent)
	c := &RuntimeClient{
		ctx:      ctx,
		cancel:   cancel,
		ws:       ws,
		id:       uuid.NewString(),
		identity: identity,
		out:      make(chan []byte, 256),
	}
	go c.writeLoop()
	return c
}

func (c *RuntimeClient) ID() string                { return c.id }
func (c *RuntimeClient) Identity() domain.Identity { return c.identity }

func (c *RuntimeClient) Send(data []byte) error {
	if c.ctx.Err() != nil {
		return ErrClientClosed
	}
	select {
	case c.out <- data:
		return nil
	default:
		return ErrBufferFull
	}
}

// Close is idempotent. The buffer channel is never closed: a publish racing
// a disconnect must fail on the cancelled context, not panic on a send.
func (c *RuntimeClient) Close() {
	c.once.Do(func() {
		c.cancel()
		c.ws.Close()
	})
}

func (c *RuntimeClient) writeLoop() {
	defer c.Close()
	for {
		select {
		case <-c.ctx.Done():
			return
		case data := <-c.out:
			_ = c.ws.WriteMessage(data)
		}
	}
}
