package patient

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/internal/repository"
	"github.com/odonto/admin-api/internal/service/event"
	"github.com/odonto/admin-api/pkg/errors"
)

type PatientService interface {
	CreatePatient(ctx context.Context, req *model.PatientRequest) (*model.Patient, error)
	GetPatient(ctx context.Context, id string) (*model.Patient, error)
	UpdatePatient(ctx context.Context, id string, req *model.PatientRequest) (*model.Patient, error)
	// DeletePatient returns the removed patient so callers can name it.
	DeletePatient(ctx context.Context, id string) (*model.Patient, error)
	ListPatients(ctx context.Context, search string) ([]*model.Patient, error)
	GetPatientDetail(ctx context.Context, id string) (*model.PatientDetail, error)
}

type Service struct {
	repo           repository.PatientRepository
	prontuarioRepo repository.ProntuarioRepository
	appointments   repository.AppointmentRepository
	events         *event.EventService
	logger         zerolog.Logger
}

func NewService(store repository.Store, events *event.EventService, logger zerolog.Logger) *Service {
	return &Service{
		repo:           store.Patients(),
		prontuarioRepo: store.Prontuario(),
		appointments:   store.Appointments(),
		events:         events,
		logger:         logger,
	}
}

func SavedMessage(created bool) string {
	if created {
		return "Paciente cadastrado!"
	}
	return "Paciente atualizado!"
}

func DeletedMessage(name string) string {
	return fmt.Sprintf("Paciente %s removido.", name)
}

func (s *Service) CreatePatient(ctx context.Context, req *model.PatientRequest) (*model.Patient, error) {
	patient := &model.Patient{}
	req.Apply(patient)
	if err := validatePatient(patient); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		s.logger.Error().Err(err).Msg("failed to create patient")
		return nil, errors.Persistence("Erro: ", err)
	}

	s.logger.Info().Str("patient_id", patient.ID).Msg("patient created")
	s.events.Emit(ctx, model.CollectionPatients, model.ChangeInsert, patient.ID)
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id string) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.NotFound("paciente", err)
		}
		return nil, errors.Persistence("Erro: ", err)
	}
	return patient, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id string, req *model.PatientRequest) (*model.Patient, error) {
	patient, err := s.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(patient)
	if err := validatePatient(patient); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		s.logger.Error().Err(err).Str("patient_id", id).Msg("failed to update patient")
		return nil, errors.Persistence("Erro: ", err)
	}

	s.events.Emit(ctx, model.CollectionPatients, model.ChangeUpdate, patient.ID)
	return patient, nil
}

func (s *Service) DeletePatient(ctx context.Context, id string) (*model.Patient, error) {
	patient, err := s.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("patient_id", id).Msg("failed to delete patient")
		return nil, errors.Persistence("Erro: ", err)
	}

	s.logger.Info().Str("patient_id", id).Msg("patient deleted")
	s.events.Emit(ctx, model.CollectionPatients, model.ChangeDelete, id)
	return patient, nil
}

func (s *Service) ListPatients(ctx context.Context, search string) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Persistence("Erro ao carregar pacientes: ", err)
	}
	if search == "" {
		return patients, nil
	}

	filtered := make([]*model.Patient, 0, len(patients))
	for _, p := range patients {
		if p.Matches(search) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (s *Service) GetPatientDetail(ctx context.Context, id string) (*model.PatientDetail, error) {
	patient, err := s.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}

	entries, err := s.prontuarioRepo.ListEntries(ctx, id)
	if err != nil {
		return nil, errors.Persistence("Erro ao carregar prontuário: ", err)
	}
	appts, err := s.appointments.ListByPatient(ctx, id)
	if err != nil {
		return nil, errors.Persistence("Erro ao carregar consultas: ", err)
	}

	if entries == nil {
		entries = []*model.ProntuarioEntry{}
	}
	if appts == nil {
		appts = []*model.Appointment{}
	}
	return &model.PatientDetail{
		Patient:    patient,
		Prontuario: entries,
		Consultas:  appts,
	}, nil
}

func validatePatient(p *model.Patient) error {
	if p.Name == "" {
		return errors.Validation("Nome é obrigatório.")
	}
	return nil
}
