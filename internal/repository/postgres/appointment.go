package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/odonto/admin-api/internal/model"
)

type appointmentRepository struct {
	BaseRepository
}

const appointmentColumns = `
	id, COALESCE(patient_id::text, '') AS patient_id, patient_name,
	to_char(date, 'YYYY-MM-DD') AS date, time, procedure, dentist,
	value, status, notes, created_at`

func (r *appointmentRepository) ListRange(ctx context.Context, from, to string) (list []*model.Appointment, err error) {
	defer r.observe("appointments.list_range", time.Now(), &err)
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE date BETWEEN $1 AND $2
		ORDER BY date ASC, time ASC`
	if err = r.db.SelectContext(ctx, &list, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return list, nil
}

func (r *appointmentRepository) ListByDate(ctx context.Context, date string) ([]*model.Appointment, error) {
	return r.ListRange(ctx, date, date)
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID string) (list []*model.Appointment, err error) {
	defer r.observe("appointments.list_by_patient", time.Now(), &err)
	if _, perr := uuid.Parse(patientID); perr != nil {
		return nil, nil
	}
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE patient_id = $1
		ORDER BY date DESC, time DESC`
	if err = r.db.SelectContext(ctx, &list, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}
	return list, nil
}

func (r *appointmentRepository) Get(ctx context.Context, id string) (a *model.Appointment, err error) {
	defer r.observe("appointments.get", time.Now(), &err)
	if err = checkID(id, "appointment"); err != nil {
		return nil, err
	}
	var appt model.Appointment
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	if err = r.db.GetContext(ctx, &appt, query, id); err != nil {
		return nil, notFound(err, "appointment")
	}
	return &appt, nil
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) (err error) {
	defer r.observe("appointments.create", time.Now(), &err)
	query := `
		INSERT INTO appointments (
			id, patient_id, patient_name, date, time,
			procedure, dentist, value, status, notes, created_at
		) VALUES (
			$1, NULLIF($2, '')::uuid,
			COALESCE(NULLIF($3, ''), (SELECT name FROM patients WHERE id = NULLIF($2, '')::uuid), ''),
			$4, $5, $6, $7, $8, $9, $10, $11
		)
		RETURNING patient_name
	`
	if appointment.ID == "" {
		appointment.ID = uuid.New().String()
	}
	appointment.CreatedAt = time.Now()

	err = r.db.QueryRowxContext(ctx, query,
		appointment.ID,
		appointment.PatientID,
		appointment.PatientName,
		appointment.Date,
		appointment.Time,
		appointment.Procedure,
		appointment.Dentist,
		appointment.Value,
		appointment.Status,
		appointment.Notes,
		appointment.CreatedAt,
	).Scan(&appointment.PatientName)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) UpdateSlot(ctx context.Context, id, date, slot string) (err error) {
	defer r.observe("appointments.update_slot", time.Now(), &err)
	if err = checkID(id, "appointment"); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET date = $1, time = $2 WHERE id = $3`, date, slot, id)
	if err != nil {
		return fmt.Errorf("failed to update appointment slot: %w", err)
	}
	return affected(res, "appointment")
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) (err error) {
	defer r.observe("appointments.update_status", time.Now(), &err)
	if err = checkID(id, "appointment"); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	return affected(res, "appointment")
}

func (r *appointmentRepository) FindActiveAt(ctx context.Context, date, slot, dentist string) (list []*model.Appointment, err error) {
	defer r.observe("appointments.find_active_at", time.Now(), &err)
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE date = $1 AND time = $2 AND dentist = $3 AND status <> 'cancelado'`
	if err = r.db.SelectContext(ctx, &list, query, date, slot, dentist); err != nil {
		return nil, fmt.Errorf("failed to check slot: %w", err)
	}
	return list, nil
}

func (r *appointmentRepository) CountRange(ctx context.Context, from, to string) (n int, err error) {
	defer r.observe("appointments.count_range", time.Now(), &err)
	err = r.db.GetContext(ctx, &n,
		`SELECT count(*) FROM appointments WHERE date BETWEEN $1 AND $2`, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return n, nil
}

func (r *appointmentRepository) ActiveDates(ctx context.Context) (dates []string, err error) {
	defer r.observe("appointments.active_dates", time.Now(), &err)
	query := `
		SELECT DISTINCT to_char(date, 'YYYY-MM-DD')
		FROM appointments
		WHERE status <> 'cancelado'
		ORDER BY 1`
	if err = r.db.SelectContext(ctx, &dates, query); err != nil {
		return nil, fmt.Errorf("failed to list appointment dates: %w", err)
	}
	return dates, nil
}
