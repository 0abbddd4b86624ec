// Package event publishes collection change notifications after successful
// writes so that views can reload.
package event

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/pkg/messaging"
)

// publishTimeout bounds a single publish; a write has already succeeded by the
// time we get here and must not be held up by the broker.
const publishTimeout = 2 * time.Second

type EventService struct {
	broker messaging.Broker
	logger zerolog.Logger
	now    func() time.Time
}

func NewEventService(broker messaging.Broker, logger zerolog.Logger) *EventService {
	return &EventService{
		broker: broker,
		logger: logger,
		now:    time.Now,
	}
}

// Emit publishes a ChangeEvent on the collection's channel. Failures are
// logged, never returned. A nil service is a no-op.
func (s *EventService) Emit(ctx context.Context, collection string, action model.ChangeAction, id string) {
	if s == nil || s.broker == nil {
		return
	}
	evt := model.ChangeEvent{
		Collection: collection,
		Action:     action,
		ID:         id,
		At:         s.now(),
	}

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.broker.Publish(pctx, model.ChangeChannel(collection), evt); err != nil {
		s.logger.Error().
			Err(err).
			Str("collection", collection).
			Str("action", string(action)).
			Str("id", id).
			Msg("failed to publish change event")
	}
}

// Broadcast publishes an arbitrary message on channel, logging failures.
func (s *EventService) Broadcast(ctx context.Context, channel string, msg messaging.Message) {
	if s == nil || s.broker == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.broker.Publish(pctx, channel, msg); err != nil {
		s.logger.Error().Err(err).Str("channel", channel).Msg("failed to broadcast")
	}
}
