package messaging

import (
	"context"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	// Subscribe delivers raw JSON payloads until ctx is cancelled, then
	// closes the returned channel.
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Message is the envelope pushed to realtime clients.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
