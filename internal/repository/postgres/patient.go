package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/odonto/admin-api/internal/model"
)

type patientRepository struct {
	BaseRepository
}

const patientColumns = `
	id, name, cpf, phone, email,
	COALESCE(to_char(birthdate, 'YYYY-MM-DD'), '') AS birthdate,
	blood_type, allergies, notes, created_at`

func (r *patientRepository) List(ctx context.Context) (list []*model.Patient, err error) {
	defer r.observe("patients.list", time.Now(), &err)
	query := `SELECT ` + patientColumns + ` FROM patients ORDER BY name`
	if err = r.db.SelectContext(ctx, &list, query); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return list, nil
}

func (r *patientRepository) Get(ctx context.Context, id string) (p *model.Patient, err error) {
	defer r.observe("patients.get", time.Now(), &err)
	if err = checkID(id, "patient"); err != nil {
		return nil, err
	}
	var patient model.Patient
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	if err = r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, notFound(err, "patient")
	}
	return &patient, nil
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) (err error) {
	defer r.observe("patients.create", time.Now(), &err)
	query := `
		INSERT INTO patients (
			id, name, cpf, phone, email, birthdate,
			blood_type, allergies, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::date, $7, $8, $9, $10)
	`
	if patient.ID == "" {
		patient.ID = uuid.New().String()
	}
	patient.CreatedAt = time.Now()

	_, err = r.db.ExecContext(ctx, query,
		patient.ID,
		patient.Name,
		patient.CPF,
		patient.Phone,
		patient.Email,
		patient.Birthdate,
		patient.BloodType,
		patient.Allergies,
		patient.Notes,
		patient.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) (err error) {
	defer r.observe("patients.update", time.Now(), &err)
	if err = checkID(patient.ID, "patient"); err != nil {
		return err
	}
	query := `
		UPDATE patients
		SET name = $1, cpf = $2, phone = $3, email = $4, birthdate = NULLIF($5, '')::date,
			blood_type = $6, allergies = $7, notes = $8
		WHERE id = $9
	`
	res, err := r.db.ExecContext(ctx, query,
		patient.Name,
		patient.CPF,
		patient.Phone,
		patient.Email,
		patient.Birthdate,
		patient.BloodType,
		patient.Allergies,
		patient.Notes,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return affected(res, "patient")
}

// Delete removes the patient and, through the foreign keys, their prontuario.
// Appointments keep their denormalized patient name.
func (r *patientRepository) Delete(ctx context.Context, id string) (err error) {
	defer r.observe("patients.delete", time.Now(), &err)
	if err = checkID(id, "patient"); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return affected(res, "patient")
}

func (r *patientRepository) Count(ctx context.Context) (n int, err error) {
	defer r.observe("patients.count", time.Now(), &err)
	if err = r.db.GetContext(ctx, &n, `SELECT count(*) FROM patients`); err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return n, nil
}
