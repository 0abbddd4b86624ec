// Package memory is the demo-mode record store. It starts from fixture data,
// fabricates a working week of appointments the first time a week is read and
// remembers every write for the life of the process. Writes never fail.
package memory

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/internal/repository"
	"github.com/odonto/admin-api/pkg/format"
)

// maxGeneratedWeeks bounds how many weeks a single range read may fabricate.
const maxGeneratedWeeks = 60

type Options struct {
	Now      func() time.Time
	Rand     *rand.Rand
	Location *time.Location
}

type Store struct {
	mu  sync.Mutex
	now func() time.Time
	loc *time.Location
	gen *Generator

	weeks        map[string]bool
	appointments []*model.Appointment
	patients     []*model.Patient
	procedures   []*model.Procedure
	transactions []*model.Transaction
	entries      []*model.ProntuarioEntry
	files        []*model.ProntuarioFile
}

func New(opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed))
	}

	today := opts.Now().In(opts.Location)
	s := &Store{
		now:          opts.Now,
		loc:          opts.Location,
		weeks:        make(map[string]bool),
		patients:     fixturePatients(),
		procedures:   fixtureProcedures(),
		appointments: fixtureToday(today),
		transactions: fixtureTransactions(today),
	}
	s.entries, s.files = fixtureProntuario(today)
	s.gen = NewGenerator(opts.Rand, s.patients)
	return s
}

func (s *Store) Appointments() repository.AppointmentRepository { return &appointmentRepository{s} }
func (s *Store) Patients() repository.PatientRepository         { return &patientRepository{s} }
func (s *Store) Procedures() repository.ProcedureRepository     { return &procedureRepository{s} }
func (s *Store) Transactions() repository.TransactionRepository { return &transactionRepository{s} }
func (s *Store) Prontuario() repository.ProntuarioRepository    { return &prontuarioRepository{s} }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }
func (s *Store) Demo() bool                     { return true }
func (s *Store) Close() error                   { return nil }

func (s *Store) weekStart(date string) (time.Time, error) {
	d, err := time.ParseInLocation(format.DateLayout, date, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return d.AddDate(0, 0, -int(d.Weekday())), nil
}

// ensureWeeks fabricates every not-yet-seen week overlapping [from, to].
// Callers hold s.mu.
func (s *Store) ensureWeeks(from, to string) error {
	start, err := s.weekStart(from)
	if err != nil {
		return err
	}
	end, err := s.weekStart(to)
	if err != nil {
		return err
	}
	for w, n := start, 0; !w.After(end) && n < maxGeneratedWeeks; w, n = w.AddDate(0, 0, 7), n+1 {
		key := w.Format(format.DateLayout)
		if s.weeks[key] {
			continue
		}
		s.weeks[key] = true
		s.appointments = append(s.appointments, s.gen.Week(w, s.slotTaken)...)
	}
	return nil
}

func (s *Store) slotTaken(date, slot string) bool {
	for _, a := range s.appointments {
		if a.Date == date && a.Time == slot {
			return true
		}
	}
	return false
}

func (s *Store) findAppointment(id string) *model.Appointment {
	for _, a := range s.appointments {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (s *Store) patientName(id string) string {
	for _, p := range s.patients {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}

func cloneAppointment(a *model.Appointment) *model.Appointment {
	cp := *a
	return &cp
}

func cloneAppointments(in []*model.Appointment) []*model.Appointment {
	out := make([]*model.Appointment, len(in))
	for i, a := range in {
		out[i] = cloneAppointment(a)
	}
	return out
}

func newID() string {
	return uuid.New().String()
}

type appointmentRepository struct{ s *Store }

func (r *appointmentRepository) ListRange(ctx context.Context, from, to string) ([]*model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.ensureWeeks(from, to); err != nil {
		return nil, err
	}
	var out []*model.Appointment
	for _, a := range r.s.appointments {
		if a.Date >= from && a.Date <= to {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return cloneAppointments(out), nil
}

func (r *appointmentRepository) ListByDate(ctx context.Context, date string) ([]*model.Appointment, error) {
	return r.ListRange(ctx, date, date)
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID string) ([]*model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*model.Appointment
	for _, a := range r.s.appointments {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return cloneAppointments(out), nil
}

func (r *appointmentRepository) Get(ctx context.Context, id string) (*model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a := r.s.findAppointment(id)
	if a == nil {
		return nil, fmt.Errorf("appointment %s: %w", id, repository.ErrNotFound)
	}
	return cloneAppointment(a), nil
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if appointment.ID == "" {
		appointment.ID = newID()
	}
	appointment.CreatedAt = r.s.now()
	if appointment.PatientName == "" {
		appointment.PatientName = r.s.patientName(appointment.PatientID)
	}
	r.s.appointments = append(r.s.appointments, cloneAppointment(appointment))
	return nil
}

func (r *appointmentRepository) UpdateSlot(ctx context.Context, id, date, time string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// The target week must exist before the move so that later fabrication
	// sees the slot as taken.
	if err := r.s.ensureWeeks(date, date); err != nil {
		return err
	}
	a := r.s.findAppointment(id)
	if a == nil {
		return fmt.Errorf("appointment %s: %w", id, repository.ErrNotFound)
	}
	a.Date, a.Time = date, time
	return nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a := r.s.findAppointment(id)
	if a == nil {
		return fmt.Errorf("appointment %s: %w", id, repository.ErrNotFound)
	}
	a.Status = status
	return nil
}

func (r *appointmentRepository) FindActiveAt(ctx context.Context, date, time, dentist string) ([]*model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.ensureWeeks(date, date); err != nil {
		return nil, err
	}
	var out []*model.Appointment
	for _, a := range r.s.appointments {
		if a.Date == date && a.Time == time && a.Dentist == dentist && a.Active() {
			out = append(out, cloneAppointment(a))
		}
	}
	return out, nil
}

func (r *appointmentRepository) CountRange(ctx context.Context, from, to string) (int, error) {
	list, err := r.ListRange(ctx, from, to)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

func (r *appointmentRepository) ActiveDates(ctx context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seen := make(map[string]bool)
	var out []string
	for _, a := range r.s.appointments {
		if a.Active() && !seen[a.Date] {
			seen[a.Date] = true
			out = append(out, a.Date)
		}
	}
	sort.Strings(out)
	return out, nil
}

type patientRepository struct{ s *Store }

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*model.Patient, 0, len(r.s.patients))
	for _, p := range r.s.patients {
		cp := *p
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *patientRepository) Get(ctx context.Context, id string) (*model.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.patients {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("patient %s: %w", id, repository.ErrNotFound)
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if patient.ID == "" {
		patient.ID = newID()
	}
	patient.CreatedAt = r.s.now()
	cp := *patient
	r.s.patients = append(r.s.patients, &cp)
	return nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, p := range r.s.patients {
		if p.ID == patient.ID {
			cp := *patient
			cp.CreatedAt = p.CreatedAt
			r.s.patients[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("patient %s: %w", patient.ID, repository.ErrNotFound)
}

func (r *patientRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, p := range r.s.patients {
		if p.ID == id {
			r.s.patients = append(r.s.patients[:i], r.s.patients[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("patient %s: %w", id, repository.ErrNotFound)
}

func (r *patientRepository) Count(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.patients), nil
}

type procedureRepository struct{ s *Store }

func (r *procedureRepository) List(ctx context.Context) ([]*model.Procedure, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*model.Procedure, 0, len(r.s.procedures))
	for _, p := range r.s.procedures {
		cp := *p
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *procedureRepository) Get(ctx context.Context, id string) (*model.Procedure, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.procedures {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("procedure %s: %w", id, repository.ErrNotFound)
}

func (r *procedureRepository) Create(ctx context.Context, procedure *model.Procedure) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if procedure.ID == "" {
		procedure.ID = newID()
	}
	procedure.CreatedAt = r.s.now()
	cp := *procedure
	r.s.procedures = append(r.s.procedures, &cp)
	return nil
}

func (r *procedureRepository) Update(ctx context.Context, procedure *model.Procedure) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.procedures {
		if p.ID == procedure.ID {
			p.Name = procedure.Name
			p.Value = procedure.Value
			return nil
		}
	}
	return fmt.Errorf("procedure %s: %w", procedure.ID, repository.ErrNotFound)
}

func (r *procedureRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, p := range r.s.procedures {
		if p.ID == id {
			r.s.procedures = append(r.s.procedures[:i], r.s.procedures[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("procedure %s: %w", id, repository.ErrNotFound)
}

type transactionRepository struct{ s *Store }

func (r *transactionRepository) ListRange(ctx context.Context, from, to string) ([]*model.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*model.Transaction
	for _, t := range r.s.transactions {
		if t.Date >= from && t.Date <= to {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (r *transactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if tx.ID == "" {
		tx.ID = newID()
	}
	tx.CreatedAt = r.s.now()
	cp := *tx
	r.s.transactions = append(r.s.transactions, &cp)
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, t := range r.s.transactions {
		if t.ID == id {
			r.s.transactions = append(r.s.transactions[:i], r.s.transactions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("transaction %s: %w", id, repository.ErrNotFound)
}

func (r *transactionRepository) SumByType(ctx context.Context, txType model.TransactionType, from, to string) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var sum float64
	for _, t := range r.s.transactions {
		if t.Type == txType && t.Date >= from && t.Date <= to {
			sum += t.Value
		}
	}
	return sum, nil
}

type prontuarioRepository struct{ s *Store }

func (r *prontuarioRepository) ListEntries(ctx context.Context, patientID string) ([]*model.ProntuarioEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*model.ProntuarioEntry
	for _, e := range r.s.entries {
		if e.PatientID != patientID {
			continue
		}
		cp := *e
		cp.Files = []*model.ProntuarioFile{}
		for _, f := range r.s.files {
			if f.EntryID == e.ID {
				fc := *f
				cp.Files = append(cp.Files, &fc)
			}
		}
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (r *prontuarioRepository) CreateEntry(ctx context.Context, entry *model.ProntuarioEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = newID()
	}
	entry.CreatedAt = r.s.now()
	cp := *entry
	cp.Files = nil
	r.s.entries = append(r.s.entries, &cp)
	return nil
}

func (r *prontuarioRepository) AddFile(ctx context.Context, file *model.ProntuarioFile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if file.ID == "" {
		file.ID = newID()
	}
	file.CreatedAt = r.s.now()
	cp := *file
	r.s.files = append(r.s.files, &cp)
	return nil
}
