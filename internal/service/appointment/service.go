package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/internal/repository"
	"github.com/odonto/admin-api/internal/service/event"
	"github.com/odonto/admin-api/pkg/errors"
	"github.com/odonto/admin-api/pkg/format"
	"github.com/odonto/admin-api/pkg/metrics"
)

const (
	defaultTime = "08:00"

	CreatedMessage = "Consulta agendada com sucesso!"
)

type Service interface {
	Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	Get(ctx context.Context, id string) (*model.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) (*model.Appointment, error)
	Cancel(ctx context.Context, id string) (*model.Appointment, error)
	Today(ctx context.Context) ([]*model.Appointment, error)
	// Dentists lists the names offered by the booking form, default first.
	Dentists() []string
}

type Config struct {
	Now      func() time.Time
	Location *time.Location
	Dentists []string
}

type service struct {
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
	procedures   repository.ProcedureRepository
	events       *event.EventService
	metrics      *metrics.Metrics
	logger       zerolog.Logger
	dentists     []string
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
	if len(cfg.Dentists) == 0 {
		cfg.Dentists = []string{"Dra. Ana Letícia"}
	}
	return &service{
		appointments: store.Appointments(),
		patients:     store.Patients(),
		procedures:   store.Procedures(),
		events:       events,
		metrics:      m,
		logger:       logger,
		dentists:     cfg.Dentists,
		now:          cfg.Now,
		loc:          cfg.Location,
	}
}

// StatusMessage confirms a status change to the operator.
func StatusMessage(status model.AppointmentStatus) string {
	return fmt.Sprintf("Status atualizado para %q.", string(status))
}

func conflictMessage(dentist, slot string) string {
	return fmt.Sprintf("Conflito — %s já tem consulta às %s nessa data.", dentist, slot)
}

func (s *service) Dentists() []string {
	out := make([]string, len(s.dentists))
	copy(out, s.dentists)
	return out
}

func (s *service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if req.PatientID == "" {
		return nil, errors.Validation("Selecione um paciente.")
	}
	if req.Date == "" {
		return nil, errors.Validation("Selecione uma data.")
	}
	if _, err := time.ParseInLocation(format.DateLayout, req.Date, s.loc); err != nil {
		return nil, errors.Validation("Selecione uma data.")
	}

	a := &model.Appointment{
		PatientID: req.PatientID,
		Date:      req.Date,
		Time:      req.Time,
		Dentist:   req.Dentist,
		Status:    req.Status,
		Notes:     req.Notes,
		Value:     req.Value,
	}
	if a.Time == "" {
		a.Time = defaultTime
	}
	if !model.ValidSlot(a.Time) {
		return nil, errors.Validation("Selecione um horário válido.")
	}
	if a.Dentist == "" {
		a.Dentist = s.dentists[0]
	}
	if a.Status == "" {
		a.Status = model.AppointmentStatusScheduled
	}
	if !a.Status.Valid() {
		return nil, errors.Validation("Status inválido.")
	}

	patient, err := s.patients.Get(ctx, req.PatientID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.Validation("Selecione um paciente.")
		}
		return nil, errors.Persistence("Erro: ", err)
	}
	a.PatientName = patient.Name

	if err := s.resolveProcedure(ctx, req, a); err != nil {
		return nil, err
	}

	taken, err := s.appointments.FindActiveAt(ctx, a.Date, a.Time, a.Dentist)
	if err != nil {
		return nil, errors.Persistence("Erro: ", err)
	}
	if len(taken) > 0 {
		if s.metrics != nil {
			s.metrics.BookingConflicts.WithLabelValues("form").Inc()
		}
		return nil, errors.Conflict(conflictMessage(a.Dentist, a.Time))
	}

	if err := s.appointments.Create(ctx, a); err != nil {
		s.logger.Error().Err(err).Str("patient_id", a.PatientID).Msg("failed to create appointment")
		return nil, errors.Persistence("Erro: ", err)
	}

	s.logger.Info().
		Str("appointment_id", a.ID).
		Str("date", a.Date).
		Str("time", a.Time).
		Str("dentist", a.Dentist).
		Msg("appointment created")
	s.events.Emit(ctx, model.CollectionAppointments, model.ChangeInsert, a.ID)
	return a, nil
}

// resolveProcedure fills name and value from the catalogue. The stored
// procedure is the name, or the raw id when the catalogue has no match.
func (s *service) resolveProcedure(ctx context.Context, req *model.CreateAppointmentRequest, a *model.Appointment) error {
	a.Procedure = req.ProcedureName
	if req.ProcedureID == "" {
		return nil
	}
	p, err := s.procedures.Get(ctx, req.ProcedureID)
	switch {
	case err == nil:
		if a.Procedure == "" {
			a.Procedure = p.Name
		}
		if a.Value == 0 {
			a.Value = p.Value
		}
	case repository.IsNotFound(err):
	default:
		return errors.Persistence("Erro: ", err)
	}
	if a.Procedure == "" {
		a.Procedure = req.ProcedureID
	}
	return nil
}

func (s *service) Get(ctx context.Context, id string) (*model.Appointment, error) {
	a, err := s.appointments.Get(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.NotFound("consulta", err)
		}
		return nil, errors.Persistence("Erro: ", err)
	}
	return a, nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) (*model.Appointment, error) {
	if !status.Valid() {
		return nil, errors.Validation("Status inválido.")
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// Reactivating puts the appointment back on its slot, which may have
	// been booked while it was cancelled.
	if !current.Active() && status != model.AppointmentStatusCancelled {
		if err := s.checkSlotFree(ctx, current); err != nil {
			return nil, err
		}
	}
	if err := s.appointments.UpdateStatus(ctx, id, status); err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.NotFound("consulta", err)
		}
		s.logger.Error().Err(err).Str("appointment_id", id).Msg("failed to update appointment status")
		return nil, errors.Persistence("Erro: ", err)
	}
	s.logger.Info().Str("appointment_id", id).Str("status", string(status)).Msg("appointment status updated")
	s.events.Emit(ctx, model.CollectionAppointments, model.ChangeUpdate, id)
	return s.Get(ctx, id)
}

func (s *service) checkSlotFree(ctx context.Context, a *model.Appointment) error {
	taken, err := s.appointments.FindActiveAt(ctx, a.Date, a.Time, a.Dentist)
	if err != nil {
		return errors.Persistence("Erro: ", err)
	}
	for _, other := range taken {
		if other.ID == a.ID {
			continue
		}
		if s.metrics != nil {
			s.metrics.BookingConflicts.WithLabelValues("status").Inc()
		}
		return errors.Conflict(conflictMessage(a.Dentist, a.Time))
	}
	return nil
}

func (s *service) Cancel(ctx context.Context, id string) (*model.Appointment, error) {
	return s.UpdateStatus(ctx, id, model.AppointmentStatusCancelled)
}

func (s *service) Today(ctx context.Context) ([]*model.Appointment, error) {
	today := s.now().In(s.loc).Format(format.DateLayout)
	list, err := s.appointments.ListByDate(ctx, today)
	if err != nil {
		return nil, errors.Persistence("Erro ao carregar consultas: ", err)
	}
	return list, nil
}
