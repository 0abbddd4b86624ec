package dashboard

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/internal/repository"
	"github.com/odonto/admin-api/pkg/errors"
	"github.com/odonto/admin-api/pkg/format"
)

type Service interface {
	Get(ctx context.Context) (*model.Dashboard, error)
}

type Config struct {
	Now      func() time.Time
	Location *time.Location
}

type service struct {
	store  repository.Store
	logger zerolog.Logger
	now    func() time.Time
	loc    *time.Location
}

func NewService(store repository.Store, logger zerolog.Logger, cfg Config) Service {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &service{store: store, logger: logger, now: cfg.Now, loc: cfg.Location}
}

func (s *service) Get(ctx context.Context) (*model.Dashboard, error) {
	now := s.now().In(s.loc)
	y, m, d := now.Date()
	today := now.Format(format.DateLayout)
	monthStart := time.Date(y, m, 1, 0, 0, 0, 0, s.loc).Format(format.DateLayout)
	weekStart := time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, s.loc)
	weekEnd := weekStart.AddDate(0, 0, 6)

	todayList, err := s.store.Appointments().ListByDate(ctx, today)
	if err != nil {
		return nil, s.fail("appointments", err)
	}
	patients, err := s.store.Patients().Count(ctx)
	if err != nil {
		return nil, s.fail("patients", err)
	}
	revenue, err := s.store.Transactions().SumByType(ctx, model.TransactionIncome, monthStart, today)
	if err != nil {
		return nil, s.fail("transactions", err)
	}
	week, err := s.store.Appointments().CountRange(ctx, weekStart.Format(format.DateLayout), weekEnd.Format(format.DateLayout))
	if err != nil {
		return nil, s.fail("appointments", err)
	}
	dates, err := s.store.Appointments().ActiveDates(ctx)
	if err != nil {
		return nil, s.fail("appointments", err)
	}

	if todayList == nil {
		todayList = []*model.Appointment{}
	}
	if dates == nil {
		dates = []string{}
	}
	return &model.Dashboard{
		Date:      today,
		DateLabel: format.DateLongWeekday(now),
		Stats: model.DashboardStats{
			TodayAppointments: len(todayList),
			TotalPatients:     patients,
			MonthRevenue:      revenue,
			WeekAppointments:  week,
		},
		MonthRevenueText:  format.Currency(revenue),
		TodayAppointments: todayList,
		AppointmentDates:  dates,
	}, nil
}

func (s *service) fail(collection string, err error) error {
	s.logger.Error().Err(err).Str("collection", collection).Msg("dashboard load failed")
	return errors.Persistence("Erro ao carregar painel: ", err)
}
