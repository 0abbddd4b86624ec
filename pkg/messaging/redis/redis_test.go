package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odonto/admin-api/pkg/messaging"
	"github.com/odonto/admin-api/pkg/metrics"
)

func TestInvalidURL(t *testing.T) {
	logger := zerolog.Nop()
	_, err := NewRedisBroker(Config{URL: "not-a-url"}, &logger, metrics.NewNop())
	assert.Error(t, err)
}

// Runs only against a real server: ODONTO_TEST_REDIS_URL=redis://localhost:6379/0
func TestPublishSubscribe(t *testing.T) {
	url := os.Getenv("ODONTO_TEST_REDIS_URL")
	if url == "" {
		t.Skip("ODONTO_TEST_REDIS_URL not set")
	}
	logger := zerolog.Nop()
	broker, err := NewRedisBroker(Config{URL: url}, &logger, metrics.NewNop())
	require.NoError(t, err)
	defer broker.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch, err := broker.Subscribe(ctx, "changes:test")
	require.NoError(t, err)
	require.NoError(t, broker.Publish(ctx, "changes:test", messaging.Message{Type: "change"}))

	select {
	case raw := <-ch:
		assert.JSONEq(t, `{"type":"change","payload":null}`, string(raw))
	case <-ctx.Done():
		t.Fatal("no message received")
	}
}
