package prontuario

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/internal/repository"
	"github.com/odonto/admin-api/internal/service/event"
	"github.com/odonto/admin-api/pkg/blob"
	"github.com/odonto/admin-api/pkg/errors"
	"github.com/odonto/admin-api/pkg/format"
)

const CreatedMessage = "Registro adicionado ao prontuário!"

// Upload is one attachment submitted with an entry.
type Upload struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

type Service interface {
	List(ctx context.Context, patientID string) ([]*model.ProntuarioEntry, error)
	// AddEntry records the entry and then its files. A file whose upload
	// fails is skipped; the entry is kept.
	AddEntry(ctx context.Context, patientID string, req *model.ProntuarioRequest, files []Upload) (*model.ProntuarioEntry, error)
}

type Config struct {
	Now            func() time.Time
	Location       *time.Location
	DefaultDentist string
}

type service struct {
	repo     repository.ProntuarioRepository
	patients repository.PatientRepository
	blobs    blob.Store
	events   *event.EventService
	logger   zerolog.Logger
	dentist  string
	now      func() time.Time
	loc      *time.Location
}

func NewService(store repository.Store, blobs blob.Store, events *event.EventService, logger zerolog.Logger, cfg Config) Service {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.DefaultDentist == "" {
		cfg.DefaultDentist = "Dra. Ana Letícia"
	}
	return &service{
		repo:     store.Prontuario(),
		patients: store.Patients(),
		blobs:    blobs,
		events:   events,
		logger:   logger,
		dentist:  cfg.DefaultDentist,
		now:      cfg.Now,
		loc:      cfg.Location,
	}
}

// StoragePath is where an entry's file lives in the blob store.
func StoragePath(patientID, entryID, fileName string) string {
	return patientID + "/" + entryID + "/" + fileName
}

func (s *service) List(ctx context.Context, patientID string) ([]*model.ProntuarioEntry, error) {
	entries, err := s.repo.ListEntries(ctx, patientID)
	if err != nil {
		return nil, errors.Persistence("Erro ao carregar prontuário: ", err)
	}
	if entries == nil {
		entries = []*model.ProntuarioEntry{}
	}
	return entries, nil
}

func (s *service) AddEntry(ctx context.Context, patientID string, req *model.ProntuarioRequest, files []Upload) (*model.ProntuarioEntry, error) {
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.NotFound("paciente", err)
		}
		return nil, errors.Persistence("Erro: ", err)
	}

	entry := &model.ProntuarioEntry{
		PatientID: patientID,
		Date:      req.Date,
		Dentist:   req.Dentist,
		Procedure: req.ProcedureName,
		Notes:     req.Notes,
	}
	if entry.Date == "" {
		entry.Date = s.now().In(s.loc).Format(format.DateLayout)
	}
	if entry.Dentist == "" {
		entry.Dentist = s.dentist
	}
	if entry.Procedure == "" {
		entry.Procedure = req.ProcedureID
	}

	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("patient_id", patientID).Msg("failed to create prontuario entry")
		return nil, errors.Persistence("Erro: ", err)
	}
	s.events.Emit(ctx, model.CollectionProntuarioEntries, model.ChangeInsert, entry.ID)

	entry.Files = []*model.ProntuarioFile{}
	for _, up := range files {
		f, ok := s.attach(ctx, patientID, entry.ID, up)
		if ok {
			entry.Files = append(entry.Files, f)
		}
	}

	s.logger.Info().
		Str("patient_id", patientID).
		Str("entry_id", entry.ID).
		Int("files", len(entry.Files)).
		Int("submitted", len(files)).
		Msg("prontuario entry added")
	return entry, nil
}

func (s *service) attach(ctx context.Context, patientID, entryID string, up Upload) (*model.ProntuarioFile, bool) {
	name := path.Base(strings.ReplaceAll(up.FileName, "\\", "/"))
	log := s.logger.With().Str("entry_id", entryID).Str("file", up.FileName).Logger()

	storagePath := StoragePath(patientID, entryID, name)
	if err := s.blobs.Upload(ctx, storagePath, up.ContentType, up.Body); err != nil {
		log.Warn().Err(err).Msg("file upload failed, skipping")
		return nil, false
	}

	f := &model.ProntuarioFile{
		EntryID:     entryID,
		FileName:    name,
		StoragePath: storagePath,
		FileType:    up.ContentType,
	}
	if err := s.repo.AddFile(ctx, f); err != nil {
		log.Warn().Err(err).Msg("file uploaded but not recorded, skipping")
		return nil, false
	}
	s.events.Emit(ctx, model.CollectionProntuarioFiles, model.ChangeInsert, f.ID)
	return f, true
}
