// Package postgres is the connected-mode record store on sqlx and lib/pq.
package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/odonto/admin-api/internal/repository"
	"github.com/odonto/admin-api/pkg/metrics"
)

//go:embed schema.sql
var schema string

type Store struct {
	BaseRepository
}

func NewStore(db *sqlx.DB, m *metrics.Metrics) *Store {
	return &Store{BaseRepository{db: db, metrics: m}}
}

func (s *Store) Appointments() repository.AppointmentRepository {
	return &appointmentRepository{s.BaseRepository}
}
func (s *Store) Patients() repository.PatientRepository { return &patientRepository{s.BaseRepository} }
func (s *Store) Procedures() repository.ProcedureRepository {
	return &procedureRepository{s.BaseRepository}
}
func (s *Store) Transactions() repository.TransactionRepository {
	return &transactionRepository{s.BaseRepository}
}
func (s *Store) Prontuario() repository.ProntuarioRepository {
	return &prontuarioRepository{s.BaseRepository}
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *Store) Demo() bool                     { return false }
func (s *Store) Close() error                   { return s.db.Close() }

// Migrate applies the embedded schema. Statements are idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	return s.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
		return nil
	})
}
