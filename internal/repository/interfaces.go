package repository

import (
	"context"
	"errors"

	"github.com/odonto/admin-api/internal/model"
)

// ErrNotFound is returned by Get-style lookups when no row matches.
var ErrNotFound = errors.New("record not found")

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// All repository interfaces in one file
type (
	// AppointmentRepository never hard-deletes; cancellation is a status.
	AppointmentRepository interface {
		// ListRange returns appointments with from <= date <= to, ordered by time.
		ListRange(ctx context.Context, from, to string) ([]*model.Appointment, error)
		ListByDate(ctx context.Context, date string) ([]*model.Appointment, error)
		// ListByPatient is ordered by date descending.
		ListByPatient(ctx context.Context, patientID string) ([]*model.Appointment, error)
		Get(ctx context.Context, id string) (*model.Appointment, error)
		Create(ctx context.Context, appointment *model.Appointment) error
		UpdateSlot(ctx context.Context, id, date, time string) error
		UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error
		// FindActiveAt returns non-cancelled appointments booked on the triple.
		FindActiveAt(ctx context.Context, date, time, dentist string) ([]*model.Appointment, error)
		CountRange(ctx context.Context, from, to string) (int, error)
		// ActiveDates returns the distinct dates holding a non-cancelled appointment.
		ActiveDates(ctx context.Context) ([]string, error)
	}

	PatientRepository interface {
		// List is ordered by name.
		List(ctx context.Context) ([]*model.Patient, error)
		Get(ctx context.Context, id string) (*model.Patient, error)
		Create(ctx context.Context, patient *model.Patient) error
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id string) error
		Count(ctx context.Context) (int, error)
	}

	ProcedureRepository interface {
		List(ctx context.Context) ([]*model.Procedure, error)
		Get(ctx context.Context, id string) (*model.Procedure, error)
		Create(ctx context.Context, procedure *model.Procedure) error
		Update(ctx context.Context, procedure *model.Procedure) error
		Delete(ctx context.Context, id string) error
	}

	TransactionRepository interface {
		// ListRange is ordered by date descending.
		ListRange(ctx context.Context, from, to string) ([]*model.Transaction, error)
		Create(ctx context.Context, tx *model.Transaction) error
		Delete(ctx context.Context, id string) error
		SumByType(ctx context.Context, txType model.TransactionType, from, to string) (float64, error)
	}

	ProntuarioRepository interface {
		// ListEntries is ordered by date descending with files attached.
		ListEntries(ctx context.Context, patientID string) ([]*model.ProntuarioEntry, error)
		CreateEntry(ctx context.Context, entry *model.ProntuarioEntry) error
		AddFile(ctx context.Context, file *model.ProntuarioFile) error
	}

	// Store is the single storage capability selected at startup: the
	// in-memory demo fixtures or the Postgres-backed record store.
	Store interface {
		Appointments() AppointmentRepository
		Patients() PatientRepository
		Procedures() ProcedureRepository
		Transactions() TransactionRepository
		Prontuario() ProntuarioRepository
		Ping(ctx context.Context) error
		// Demo reports whether the store fabricates its data.
		Demo() bool
		Close() error
	}
)
