package messaging

import (
	"context"

	"github.com/rs/zerolog"
)

// Listen subscribes to channel and calls handle for every payload until ctx is
// cancelled. Handler errors are logged and do not stop the loop.
func Listen(ctx context.Context, broker Broker, channel string, logger zerolog.Logger, handle func([]byte) error) error {
	msgChan, err := broker.Subscribe(ctx, channel)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgChan {
			if err := handle(msg); err != nil {
				logger.Error().Err(err).Str("channel", channel).Msg("message handler failed")
			}
		}
	}()

	return nil
}
