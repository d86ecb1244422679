package realtime

import (
	"context"
	"fmt"
)

// Publisher sends a change event onto the shared feed.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Broker moves events between API instances. Run pumps the remote feed into the
// local hub until ctx is done.
type Broker interface {
	Publisher
	Run(ctx context.Context) error
	Close() error
}

// MemoryBroker short-circuits events into the local hub. Single-instance only.
type MemoryBroker struct {
	hub *Hub
}

func NewMemoryBroker(hub *Hub) (*MemoryBroker, error) {
	if hub == nil {
		return nil, fmt.Errorf("hub required")
	}
	return &MemoryBroker{hub: hub}, nil
}

func (t *MemoryBroker) Publish(ctx context.Context, evt Event) error {
	return t.hub.Publish(ctx, evt)
}

func (t *MemoryBroker) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (t *MemoryBroker) Close() error { return nil }
