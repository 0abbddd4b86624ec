package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/odonto/admin-api/internal/model"
)

type procedureRepository struct {
	BaseRepository
}

func (r *procedureRepository) List(ctx context.Context) (list []*model.Procedure, err error) {
	defer r.observe("procedures.list", time.Now(), &err)
	query := `SELECT id, name, value, created_at FROM procedures ORDER BY name`
	if err = r.db.SelectContext(ctx, &list, query); err != nil {
		return nil, fmt.Errorf("failed to list procedures: %w", err)
	}
	return list, nil
}

func (r *procedureRepository) Get(ctx context.Context, id string) (p *model.Procedure, err error) {
	defer r.observe("procedures.get", time.Now(), &err)
	if err = checkID(id, "procedure"); err != nil {
		return nil, err
	}
	var proc model.Procedure
	query := `SELECT id, name, value, created_at FROM procedures WHERE id = $1`
	if err = r.db.GetContext(ctx, &proc, query, id); err != nil {
		return nil, notFound(err, "procedure")
	}
	return &proc, nil
}

func (r *procedureRepository) Create(ctx context.Context, procedure *model.Procedure) (err error) {
	defer r.observe("procedures.create", time.Now(), &err)
	if procedure.ID == "" {
		procedure.ID = uuid.New().String()
	}
	procedure.CreatedAt = time.Now()

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO procedures (id, name, value, created_at)
		VALUES (:id, :name, :value, :created_at)
	`, procedure)
	if err != nil {
		return fmt.Errorf("failed to create procedure: %w", err)
	}
	return nil
}

func (r *procedureRepository) Update(ctx context.Context, procedure *model.Procedure) (err error) {
	defer r.observe("procedures.update", time.Now(), &err)
	if err = checkID(procedure.ID, "procedure"); err != nil {
		return err
	}
	res, err := r.db.NamedExecContext(ctx,
		`UPDATE procedures SET name = :name, value = :value WHERE id = :id`, procedure)
	if err != nil {
		return fmt.Errorf("failed to update procedure: %w", err)
	}
	return affected(res, "procedure")
}

func (r *procedureRepository) Delete(ctx context.Context, id string) (err error) {
	defer r.observe("procedures.delete", time.Now(), &err)
	if err = checkID(id, "procedure"); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM procedures WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete procedure: %w", err)
	}
	return affected(res, "procedure")
}
