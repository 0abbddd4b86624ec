package agenda

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/internal/repository"
	"github.com/odonto/admin-api/internal/service/event"
	"github.com/odonto/admin-api/pkg/errors"
	"github.com/odonto/admin-api/pkg/format"
	"github.com/odonto/admin-api/pkg/messaging"
	"github.com/odonto/admin-api/pkg/metrics"
)

type Navigation string

const (
	NavNone  Navigation = ""
	NavPrev  Navigation = "prev"
	NavNext  Navigation = "next"
	NavToday Navigation = "today"
)

type Service interface {
	// WeekView loads the week containing date (today when empty), shifted by nav.
	WeekView(ctx context.Context, date string, nav Navigation) (*Week, error)
	LoadWeek(ctx context.Context, start time.Time) (*Week, error)
	// Move reschedules an appointment by dropping it on (date, time).
	Move(ctx context.Context, req *model.MoveAppointmentRequest) (*DropResult, error)
	// Cell resolves a click on (date, time).
	Cell(ctx context.Context, date, time string) (*CellAction, error)
	// Month is the mini calendar for YYYY-MM (current month when empty).
	Month(ctx context.Context, month string) (*Month, error)
	Indicator(weekStart time.Time) (Indicator, bool)
	// Listen drops cached weeks whenever appointments change.
	Listen(ctx context.Context, broker messaging.Broker) error
}

type Config struct {
	Now      func() time.Time
	Location *time.Location
	CacheTTL time.Duration
}

type service struct {
	appointments repository.AppointmentRepository
	events       *event.EventService
	metrics      *metrics.Metrics
	logger       zerolog.Logger
	weeks        *cache.Cache
	now          func() time.Time
	loc          *time.Location
}

func NewService(
	store repository.Store,
	events *event.EventService,
	m *metrics.Metrics,
	logger zerolog.Logger,
	cfg Config,
) Service {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	return &service{
		appointments: store.Appointments(),
		events:       events,
		metrics:      m,
		logger:       logger,
		weeks:        cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		now:          cfg.Now,
		loc:          cfg.Location,
	}
}

func (s *service) clock() time.Time {
	return s.now().In(s.loc)
}

func (s *service) WeekView(ctx context.Context, date string, nav Navigation) (*Week, error) {
	start := GoToday(s.clock())
	if date != "" {
		var err error
		if start, err = JumpTo(date, s.loc); err != nil {
			return nil, errors.Validation("Data inválida.")
		}
	}
	switch nav {
	case NavPrev:
		start = PrevWeek(start)
	case NavNext:
		start = NextWeek(start)
	case NavToday:
		start = GoToday(s.clock())
	case NavNone:
	default:
		return nil, errors.Validation("Navegação inválida.")
	}
	return s.LoadWeek(ctx, start)
}

func (s *service) LoadWeek(ctx context.Context, start time.Time) (*Week, error) {
	start = NormalizeWeekStart(start.In(s.loc))
	key := start.Format(format.DateLayout)

	if cached, ok := s.weeks.Get(key); ok {
		if s.metrics != nil {
			s.metrics.WeekCacheHits.Inc()
		}
		return NewWeek(start, cloneAll(cached.([]*model.Appointment)), s.clock()), nil
	}
	if s.metrics != nil {
		s.metrics.WeekCacheMisses.Inc()
	}

	appts, err := s.fetch(ctx, start)
	if err != nil {
		return nil, err
	}
	s.weeks.SetDefault(key, appts)
	return NewWeek(start, cloneAll(appts), s.clock()), nil
}

func (s *service) fetch(ctx context.Context, start time.Time) ([]*model.Appointment, error) {
	from := start.Format(format.DateLayout)
	to := start.AddDate(0, 0, daysPerWeek-1).Format(format.DateLayout)
	appts, err := s.appointments.ListRange(ctx, from, to)
	if err != nil {
		return nil, errors.Persistence("Erro ao carregar agenda: ", err)
	}
	return appts, nil
}

func (s *service) Move(ctx context.Context, req *model.MoveAppointmentRequest) (*DropResult, error) {
	appt, err := s.appointments.Get(ctx, req.AppointmentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.NotFound("consulta", err)
		}
		return nil, errors.Persistence("Erro ao reagendar: ", err)
	}
	start, err := JumpTo(req.Date, s.loc)
	if err != nil {
		return nil, errors.Validation("Data inválida.")
	}

	// Conflict detection reads the store, not the cache.
	appts, err := s.fetch(ctx, start)
	if err != nil {
		return nil, err
	}
	week := NewWeek(start, appts, s.clock())

	drag := NewDrag(week, s.appointments.UpdateSlot)
	if a := week.find(appt.ID); a != nil {
		drag.Begin(a)
	} else {
		drag.Begin(appt)
	}
	from := appt.Date

	res, err := drag.Drop(ctx, req.Date, req.Time)
	switch {
	case err != nil && res.State == DropRejected && res.Outcome == "conflict":
		s.countReschedule("conflict")
		if s.metrics != nil {
			s.metrics.BookingConflicts.WithLabelValues("agenda").Inc()
		}
		s.logger.Info().
			Str("appointment_id", appt.ID).
			Str("date", req.Date).
			Str("time", req.Time).
			Msg("reschedule rejected: slot taken")
		return &res, err
	case err != nil:
		s.countReschedule("error")
		s.logger.Error().Err(err).Str("appointment_id", appt.ID).Msg("reschedule failed")
		return nil, err
	case res.State == DragIdle:
		return nil, errors.Validation("Horário fora da grade.")
	}

	s.countReschedule("moved")
	s.invalidate(from)
	s.invalidate(req.Date)
	s.logger.Info().
		Str("appointment_id", appt.ID).
		Str("from", from).
		Str("date", req.Date).
		Str("time", req.Time).
		Msg("appointment rescheduled")
	s.events.Emit(ctx, model.CollectionAppointments, model.ChangeUpdate, appt.ID)

	return &res, nil
}

func (s *service) Cell(ctx context.Context, date, slot string) (*CellAction, error) {
	if !model.ValidSlot(slot) {
		return nil, errors.Validation("Horário fora da grade.")
	}
	start, err := JumpTo(date, s.loc)
	if err != nil {
		return nil, errors.Validation("Data inválida.")
	}
	week, err := s.LoadWeek(ctx, start)
	if err != nil {
		return nil, err
	}
	action := week.ClickCell(date, slot)
	return &action, nil
}

func (s *service) Month(ctx context.Context, month string) (*Month, error) {
	now := s.clock()
	year, m := now.Year(), now.Month()
	if month != "" {
		var err error
		if year, m, err = ParseMonth(month, s.loc); err != nil {
			return nil, errors.Validation("Mês inválido.")
		}
	}
	dates, err := s.appointments.ActiveDates(ctx)
	if err != nil {
		return nil, errors.Persistence("Erro ao carregar calendário: ", err)
	}
	return NewMonth(year, m, now, dates), nil
}

func (s *service) Indicator(weekStart time.Time) (Indicator, bool) {
	return CurrentTimeIndicator(s.clock(), weekStart.In(s.loc))
}

func (s *service) Listen(ctx context.Context, broker messaging.Broker) error {
	return messaging.Listen(ctx, broker, model.ChangeChannel(model.CollectionAppointments), s.logger,
		func([]byte) error {
			s.weeks.Flush()
			return nil
		})
}

func (s *service) invalidate(date string) {
	start, err := JumpTo(date, s.loc)
	if err != nil {
		return
	}
	s.weeks.Delete(start.Format(format.DateLayout))
}

func (s *service) countReschedule(outcome string) {
	if s.metrics != nil {
		s.metrics.Reschedules.WithLabelValues(outcome).Inc()
	}
}

func cloneAll(in []*model.Appointment) []*model.Appointment {
	out := make([]*model.Appointment, len(in))
	for i, a := range in {
		cp := *a
		out[i] = &cp
	}
	return out
}
