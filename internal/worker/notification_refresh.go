package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/odonto/admin-api/internal/model"
)

// Refresher recomputes and broadcasts the notification list.
type Refresher interface {
	Refresh(ctx context.Context) ([]model.Notification, error)
}

type NotificationRefreshWorker struct {
	service  Refresher
	interval time.Duration
	logger   zerolog.Logger
}

func NewNotificationRefreshWorker(service Refresher, interval time.Duration, logger zerolog.Logger) *NotificationRefreshWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &NotificationRefreshWorker{
		service:  service,
		interval: interval,
		logger:   logger,
	}
}

// Start refreshes once immediately and then on every tick until ctx is done.
func (w *NotificationRefreshWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("notification refresh worker stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *NotificationRefreshWorker) refresh(ctx context.Context) {
	list, err := w.service.Refresh(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("notification refresh failed")
		return
	}
	w.logger.Debug().Int("notifications", len(list)).Msg("notifications refreshed")
}
