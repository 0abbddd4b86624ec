package procedure

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/internal/repository"
	"github.com/odonto/admin-api/internal/service/event"
	"github.com/odonto/admin-api/pkg/errors"
)

const DeletedMessage = "Procedimento removido."

type Service interface {
	List(ctx context.Context, search string) ([]*model.Procedure, error)
	Get(ctx context.Context, id string) (*model.Procedure, error)
	Create(ctx context.Context, req *model.ProcedureRequest) (*model.Procedure, error)
	Update(ctx context.Context, id string, req *model.ProcedureRequest) (*model.Procedure, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   repository.ProcedureRepository
	events *event.EventService
	logger zerolog.Logger
}

func NewService(store repository.Store, events *event.EventService, logger zerolog.Logger) Service {
	return &service{
		repo:   store.Procedures(),
		events: events,
		logger: logger,
	}
}

func SavedMessage(created bool) string {
	if created {
		return "Procedimento cadastrado!"
	}
	return "Procedimento atualizado!"
}

// ParseValue reads a form value. Comma decimals are accepted; anything
// unparseable is zero.
func ParseValue(s string) float64 {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func (s *service) List(ctx context.Context, search string) ([]*model.Procedure, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Persistence("Erro ao carregar procedimentos: ", err)
	}
	if search == "" {
		return list, nil
	}
	out := make([]*model.Procedure, 0, len(list))
	for _, p := range list {
		if p.Matches(search) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id string) (*model.Procedure, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.NotFound("procedimento", err)
		}
		return nil, errors.Persistence("Erro: ", err)
	}
	return p, nil
}

func (s *service) Create(ctx context.Context, req *model.ProcedureRequest) (*model.Procedure, error) {
	p := &model.Procedure{
		Name:  strings.TrimSpace(req.Name),
		Value: ParseValue(req.Value),
	}
	if p.Name == "" {
		return nil, errors.Validation("Nome é obrigatório.")
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Msg("failed to create procedure")
		return nil, errors.Persistence("Erro: ", err)
	}
	s.events.Emit(ctx, model.CollectionProcedures, model.ChangeInsert, p.ID)
	return p, nil
}

func (s *service) Update(ctx context.Context, id string, req *model.ProcedureRequest) (*model.Procedure, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = strings.TrimSpace(req.Name)
	p.Value = ParseValue(req.Value)
	if p.Name == "" {
		return nil, errors.Validation("Nome é obrigatório.")
	}
	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("procedure_id", id).Msg("failed to update procedure")
		return nil, errors.Persistence("Erro: ", err)
	}
	s.events.Emit(ctx, model.CollectionProcedures, model.ChangeUpdate, p.ID)
	return p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return errors.NotFound("procedimento", err)
		}
		s.logger.Error().Err(err).Str("procedure_id", id).Msg("failed to delete procedure")
		return errors.Persistence("Erro: ", err)
	}
	s.events.Emit(ctx, model.CollectionProcedures, model.ChangeDelete, id)
	return nil
}
