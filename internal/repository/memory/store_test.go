package memory

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/internal/repository"
)

// Wednesday, 12:00.
var fixedNow = time.Date(2026, time.October, 21, 12, 0, 0, 0, time.UTC)

func newTestStore(seed uint64) *Store {
	return New(Options{
		Now:      func() time.Time { return fixedNow },
		Rand:     rand.New(rand.NewPCG(seed, seed)),
		Location: time.UTC,
	})
}

func TestGeneratorWeekShape(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewPCG(1, 2)), fixturePatients())
	weekStart := time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)

	appts := gen.Week(weekStart, nil)

	perDay := map[string]map[string]bool{}
	for _, a := range appts {
		d, err := time.Parse("2006-01-02", a.Date)
		require.NoError(t, err)
		assert.NotEqual(t, time.Sunday, d.Weekday())
		assert.NotEqual(t, time.Saturday, d.Weekday())
		assert.True(t, model.ValidSlot(a.Time))
		assert.NotEqual(t, model.AppointmentStatusCancelled, a.Status)
		assert.Contains(t, demoDentists, a.Dentist)

		if perDay[a.Date] == nil {
			perDay[a.Date] = map[string]bool{}
		}
		assert.False(t, perDay[a.Date][a.Time], "slot %s %s used twice", a.Date, a.Time)
		perDay[a.Date][a.Time] = true
	}

	require.Len(t, perDay, 5)
	for date, slots := range perDay {
		assert.GreaterOrEqual(t, len(slots), 2, date)
		assert.LessOrEqual(t, len(slots), 4, date)
	}
}

func TestGeneratorAvoidsTakenSlots(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewPCG(3, 4)), nil)
	weekStart := time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)

	// leave only 08:00 free every day
	taken := func(date, slot string) bool { return slot != "08:00" }
	appts := gen.Week(weekStart, taken)

	require.Len(t, appts, 5)
	for _, a := range appts {
		assert.Equal(t, "08:00", a.Time)
	}
}

func TestStoreTodayFixtures(t *testing.T) {
	s := newTestStore(7)
	ctx := context.Background()

	today, err := s.Appointments().ListByDate(ctx, "2026-10-21")
	require.NoError(t, err)

	ids := map[string]*model.Appointment{}
	for _, a := range today {
		ids[a.ID] = a
	}
	require.Contains(t, ids, "n1")
	assert.Equal(t, "Ana Paula Ferreira", ids["n1"].PatientName)
	assert.Equal(t, DemoDentist, ids["n1"].Dentist)
	assert.Equal(t, 180.0, ids["n1"].Value)

	for i := 1; i < len(today); i++ {
		assert.LessOrEqual(t, today[i-1].Time, today[i].Time)
	}
}

func TestStoreWeekIsRemembered(t *testing.T) {
	s := newTestStore(11)
	ctx := context.Background()
	repo := s.Appointments()

	first, err := repo.ListRange(ctx, "2026-11-01", "2026-11-07")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := repo.ListRange(ctx, "2026-11-01", "2026-11-07")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	moved := first[0]
	require.NoError(t, repo.UpdateSlot(ctx, moved.ID, "2026-11-01", "18:00"))

	got, err := repo.Get(ctx, moved.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-11-01", got.Date)
	assert.Equal(t, "18:00", got.Time)
}

func TestStoreReturnsCopies(t *testing.T) {
	s := newTestStore(5)
	ctx := context.Background()

	a, err := s.Appointments().Get(ctx, "n1")
	require.NoError(t, err)
	a.Time = "17:00"

	again, err := s.Appointments().Get(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "08:00", again.Time)
}

func TestStoreFindActiveAt(t *testing.T) {
	s := newTestStore(5)
	ctx := context.Background()
	repo := s.Appointments()

	found, err := repo.FindActiveAt(ctx, "2026-10-21", "08:00", DemoDentist)
	require.NoError(t, err)
	require.Len(t, found, 1)

	require.NoError(t, repo.UpdateStatus(ctx, "n1", model.AppointmentStatusCancelled))
	found, err = repo.FindActiveAt(ctx, "2026-10-21", "08:00", DemoDentist)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestStoreNotFound(t *testing.T) {
	s := newTestStore(5)
	ctx := context.Background()

	_, err := s.Appointments().Get(ctx, "missing")
	assert.True(t, errors.Is(err, repository.ErrNotFound))

	err = s.Patients().Delete(ctx, "missing")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestStoreTransactions(t *testing.T) {
	s := newTestStore(5)
	ctx := context.Background()
	repo := s.Transactions()

	list, err := repo.ListRange(ctx, "2026-10-01", "2026-10-21")
	require.NoError(t, err)
	require.Len(t, list, 8)
	for i := 1; i < len(list); i++ {
		assert.GreaterOrEqual(t, list[i-1].Date, list[i].Date)
	}

	income, err := repo.SumByType(ctx, model.TransactionIncome, "2026-10-01", "2026-10-21")
	require.NoError(t, err)
	assert.Equal(t, 250.0+480+180+850+600, income)

	require.NoError(t, repo.Delete(ctx, "t8"))
	expense, err := repo.SumByType(ctx, model.TransactionExpense, "2026-10-01", "2026-10-21")
	require.NoError(t, err)
	assert.Equal(t, 320.0+450, expense)
}

func TestStoreProntuario(t *testing.T) {
	s := newTestStore(5)
	ctx := context.Background()
	repo := s.Prontuario()

	entries, err := repo.ListEntries(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "e1", entries[0].ID)
	assert.Empty(t, entries[0].Files)
	require.Len(t, entries[1].Files, 1)
	assert.Equal(t, "raio-x-36.jpg", entries[1].Files[0].FileName)

	entry := &model.ProntuarioEntry{PatientID: "p2", Date: "2026-10-21", Dentist: DemoDentist}
	require.NoError(t, repo.CreateEntry(ctx, entry))
	require.NotEmpty(t, entry.ID)
	require.NoError(t, repo.AddFile(ctx, &model.ProntuarioFile{EntryID: entry.ID, FileName: "a.pdf"}))

	entries, err = repo.ListEntries(ctx, "p2")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Len(t, entries[0].Files, 1)
}

func TestStorePatientsSortedByName(t *testing.T) {
	s := newTestStore(5)
	ctx := context.Background()

	require.NoError(t, s.Patients().Create(ctx, &model.Patient{Name: "Beatriz Nunes"}))
	list, err := s.Patients().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 6)
	for i := 1; i < len(list); i++ {
		assert.LessOrEqual(t, list[i-1].Name, list[i].Name)
	}

	n, err := s.Patients().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}
