package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/odonto/admin-api/internal/model"
)

type prontuarioRepository struct {
	BaseRepository
}

// ListEntries loads the entries, then all their files in one query.
func (r *prontuarioRepository) ListEntries(ctx context.Context, patientID string) (entries []*model.ProntuarioEntry, err error) {
	defer r.observe("prontuario.list_entries", time.Now(), &err)
	if _, perr := uuid.Parse(patientID); perr != nil {
		return nil, nil
	}
	query := `
		SELECT id, patient_id, to_char(date, 'YYYY-MM-DD') AS date,
			dentist, procedure, notes, created_at
		FROM prontuario_entries
		WHERE patient_id = $1
		ORDER BY date DESC, created_at DESC`
	if err = r.db.SelectContext(ctx, &entries, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list prontuario entries: %w", err)
	}
	if len(entries) == 0 {
		return entries, nil
	}

	ids := make([]string, len(entries))
	byID := make(map[string]*model.ProntuarioEntry, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
		e.Files = []*model.ProntuarioFile{}
		byID[e.ID] = e
	}

	fq, args, err := sqlx.In(`
		SELECT id, entry_id, file_name, storage_path, file_type, created_at
		FROM prontuario_files
		WHERE entry_id IN (?)
		ORDER BY created_at`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build file query: %w", err)
	}
	var files []*model.ProntuarioFile
	if err = r.db.SelectContext(ctx, &files, r.db.Rebind(fq), args...); err != nil {
		return nil, fmt.Errorf("failed to list prontuario files: %w", err)
	}
	for _, f := range files {
		if e, ok := byID[f.EntryID]; ok {
			e.Files = append(e.Files, f)
		}
	}
	return entries, nil
}

func (r *prontuarioRepository) CreateEntry(ctx context.Context, entry *model.ProntuarioEntry) (err error) {
	defer r.observe("prontuario.create_entry", time.Now(), &err)
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now()

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO prontuario_entries (id, patient_id, date, dentist, procedure, notes, created_at)
		VALUES (:id, :patient_id, :date, :dentist, :procedure, :notes, :created_at)
	`, entry)
	if err != nil {
		return fmt.Errorf("failed to create prontuario entry: %w", err)
	}
	return nil
}

func (r *prontuarioRepository) AddFile(ctx context.Context, file *model.ProntuarioFile) (err error) {
	defer r.observe("prontuario.add_file", time.Now(), &err)
	if file.ID == "" {
		file.ID = uuid.New().String()
	}
	file.CreatedAt = time.Now()

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO prontuario_files (id, entry_id, file_name, storage_path, file_type, created_at)
		VALUES (:id, :entry_id, :file_name, :storage_path, :file_type, :created_at)
	`, file)
	if err != nil {
		return fmt.Errorf("failed to add prontuario file: %w", err)
	}
	return nil
}
