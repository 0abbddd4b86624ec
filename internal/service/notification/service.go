package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/internal/repository"
	"github.com/odonto/admin-api/internal/service/event"
	"github.com/odonto/admin-api/pkg/errors"
	"github.com/odonto/admin-api/pkg/format"
	"github.com/odonto/admin-api/pkg/messaging"
	"github.com/odonto/admin-api/pkg/metrics"
)

const (
	paymentCategory = "Consulta"
	paymentMethod   = "Cartão"
)

type Service interface {
	// List recomputes the panel for the current time.
	List(ctx context.Context) ([]model.Notification, error)
	// ConfirmPayment records a receita for the appointment and suppresses
	// its notifications for the rest of the session.
	ConfirmPayment(ctx context.Context, appointmentID string) (*ConfirmResult, error)
	// PendingCount is the bell badge.
	PendingCount(ctx context.Context) (int, error)
	// Refresh recomputes and broadcasts the list on the notifications channel.
	Refresh(ctx context.Context) ([]model.Notification, error)
}

type ConfirmResult struct {
	Transaction *model.Transaction `json:"transaction"`
	Message     string             `json:"message"`
}

type Config struct {
	Now      func() time.Time
	Location *time.Location
}

type service struct {
	appointments repository.AppointmentRepository
	transactions repository.TransactionRepository
	session      *Session
	events       *event.EventService
	metrics      *metrics.Metrics
	logger       zerolog.Logger
	now          func() time.Time
	loc          *time.Location
}

func NewService(
	store repository.Store,
	session *Session,
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
	return &service{
		appointments: store.Appointments(),
		transactions: store.Transactions(),
		session:      session,
		events:       events,
		metrics:      m,
		logger:       logger,
		now:          cfg.Now,
		loc:          cfg.Location,
	}
}

func (s *service) clock() time.Time {
	return s.now().In(s.loc)
}

func (s *service) today(ctx context.Context, now time.Time) ([]*model.Appointment, error) {
	appts, err := s.appointments.ListByDate(ctx, now.Format(format.DateLayout))
	if err != nil {
		return nil, errors.Persistence("Erro ao carregar consultas: ", err)
	}
	return appts, nil
}

func (s *service) List(ctx context.Context) ([]model.Notification, error) {
	now := s.clock()
	appts, err := s.today(ctx, now)
	if err != nil {
		return nil, err
	}
	alerts := Compute(now, appts, s.session.Confirmed())
	s.observe(alerts)
	return RenderAll(alerts), nil
}

func (s *service) PendingCount(ctx context.Context) (int, error) {
	now := s.clock()
	appts, err := s.today(ctx, now)
	if err != nil {
		return 0, err
	}
	return PendingPayments(now, appts, s.session.Confirmed()), nil
}

func (s *service) Refresh(ctx context.Context) ([]model.Notification, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.NotificationRefreshes.Inc()
	}
	s.events.Broadcast(ctx, model.NotificationsChannel, messaging.Message{Type: "notifications", Payload: list})
	return list, nil
}

func (s *service) ConfirmPayment(ctx context.Context, appointmentID string) (*ConfirmResult, error) {
	appt, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.NotFound("consulta", err)
		}
		return nil, errors.Persistence("Erro ao registrar pagamento: ", err)
	}
	if !appt.Active() {
		return nil, errors.Validation("Consulta cancelada não gera pagamento.")
	}
	// The reservation makes concurrent confirmations of one appointment
	// write a single transaction.
	if !s.session.Reserve(appt.ID) {
		return nil, errors.Conflict("Pagamento já confirmado.")
	}

	now := s.clock()
	if err := s.checkNotified(ctx, now, appt); err != nil {
		s.session.Release(appt.ID)
		return nil, err
	}

	tx := &model.Transaction{
		ID:          uuid.New().String(),
		Date:        now.Format(format.DateLayout),
		Description: fmt.Sprintf("%s — %s", appt.Procedure, appt.PatientName),
		Category:    paymentCategory,
		Method:      paymentMethod,
		Type:        model.TransactionIncome,
		Value:       appt.Value,
	}

	if err := s.transactions.Create(ctx, tx); err != nil {
		s.session.Release(appt.ID)
		if s.metrics != nil {
			s.metrics.PaymentsFailed.Inc()
		}
		s.logger.Error().Err(err).Str("appointment_id", appt.ID).Msg("failed to record payment")
		return nil, errors.Persistence("Erro ao registrar pagamento: ", err)
	}

	s.session.Confirm(appt.ID, tx)
	if s.metrics != nil {
		s.metrics.PaymentsConfirmed.Inc()
	}
	s.logger.Info().
		Str("appointment_id", appt.ID).
		Str("transaction_id", tx.ID).
		Float64("value", tx.Value).
		Msg("payment confirmed")

	s.events.Emit(ctx, model.CollectionTransactions, model.ChangeInsert, tx.ID)
	if _, err := s.Refresh(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("notification refresh after payment failed")
	}

	return &ConfirmResult{
		Transaction: tx,
		Message:     fmt.Sprintf("Pagamento de R$ %s confirmado — %s", format.Amount(appt.Value), appt.PatientName),
	}, nil
}

// checkNotified accepts only appointments that currently have an entry in
// the notification panel.
func (s *service) checkNotified(ctx context.Context, now time.Time, appt *model.Appointment) error {
	if appt.Date != now.Format(format.DateLayout) {
		return errors.Validation("Pagamento só pode ser confirmado para consultas de hoje.")
	}
	appts, err := s.today(ctx, now)
	if err != nil {
		return err
	}
	for _, a := range Compute(now, appts, s.session.Confirmed()) {
		if a.Appointment.ID == appt.ID {
			return nil
		}
	}
	return errors.Validation("Consulta sem notificação pendente.")
}

func (s *service) observe(alerts []Alert) {
	if s.metrics == nil {
		return
	}
	counts := map[model.NotificationType]int{
		model.NotificationUpcoming: 0,
		model.NotificationSoon:     0,
		model.NotificationInfo:     0,
		model.NotificationPayment:  0,
	}
	for _, a := range alerts {
		counts[a.Kind.Type()]++
	}
	for t, n := range counts {
		s.metrics.NotificationsActive.WithLabelValues(string(t)).Set(float64(n))
	}
}
