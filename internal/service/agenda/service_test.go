package agenda

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/internal/repository/memory"
	"github.com/odonto/admin-api/internal/service/event"
	"github.com/odonto/admin-api/pkg/errors"
	"github.com/odonto/admin-api/pkg/messaging"
	"github.com/odonto/admin-api/pkg/metrics"
)

var sundayNoon = time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (Service, *memory.Store, messaging.Broker) {
	t.Helper()
	clock := func() time.Time { return sundayNoon }
	store := memory.New(memory.Options{Now: clock, Rand: rand.New(rand.NewPCG(7, 7)), Location: time.UTC})
	broker := messaging.NewLocalBroker(16)
	svc := NewService(store, event.NewEventService(broker, zerolog.Nop()), metrics.NewNop(), zerolog.Nop(), Config{
		Now:      clock,
		Location: time.UTC,
	})
	return svc, store, broker
}

func TestServiceWeekView(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	w, err := svc.WeekView(ctx, "", NavNone)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-18", w.StartDate)
	assert.True(t, w.IsCurrent)
	require.NotNil(t, w.Lookup("2026-10-18", "08:00"))
	assert.Equal(t, "n1", w.Lookup("2026-10-18", "08:00").ID)

	prev, err := svc.WeekView(ctx, "2026-10-18", NavPrev)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-11", prev.StartDate)
	assert.False(t, prev.IsCurrent)

	next, err := svc.WeekView(ctx, "2026-10-18", NavNext)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-25", next.StartDate)

	back, err := svc.WeekView(ctx, "2026-12-01", NavToday)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-18", back.StartDate)

	_, err = svc.WeekView(ctx, "amanhã", NavNone)
	assert.True(t, errors.Is(err, errors.ErrBadRequest))
}

func TestServiceWeekIsACopy(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	w, err := svc.WeekView(ctx, "", NavNone)
	require.NoError(t, err)
	w.Lookup("2026-10-18", "08:00").Time = "17:00"

	again, err := svc.WeekView(ctx, "", NavNone)
	require.NoError(t, err)
	require.NotNil(t, again.Lookup("2026-10-18", "08:00"))
}

func TestServiceMove(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	// Warm the cache so the move has to invalidate it.
	_, err := svc.WeekView(ctx, "", NavNone)
	require.NoError(t, err)

	res, err := svc.Move(ctx, &model.MoveAppointmentRequest{AppointmentID: "n1", Date: "2026-10-18", Time: "14:00"})
	require.NoError(t, err)
	assert.Equal(t, "Consulta reagendada para 14:00 em 18/10/2026", res.Message)

	stored, err := store.Appointments().Get(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "14:00", stored.Time)

	w, err := svc.WeekView(ctx, "", NavNone)
	require.NoError(t, err)
	assert.Nil(t, w.Lookup("2026-10-18", "08:00"))
	assert.Equal(t, "n1", w.Lookup("2026-10-18", "14:00").ID)
}

func TestServiceMoveConflict(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Move(ctx, &model.MoveAppointmentRequest{AppointmentID: "n1", Date: "2026-10-18", Time: "09:00"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConflict))
	require.NotNil(t, res)
	assert.Equal(t, "Conflito — já existe consulta nesse horário.", res.Message)

	stored, err := store.Appointments().Get(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "08:00", stored.Time)
}

func TestServiceMoveErrors(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Move(ctx, &model.MoveAppointmentRequest{AppointmentID: "missing", Date: "2026-10-18", Time: "14:00"})
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = svc.Move(ctx, &model.MoveAppointmentRequest{AppointmentID: "n1", Date: "2026-10-18", Time: "07:00"})
	assert.True(t, errors.Is(err, errors.ErrBadRequest))
}

func TestServiceListenFlushesCache(t *testing.T) {
	svc, store, broker := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Listen(ctx, broker))

	_, err := svc.WeekView(ctx, "", NavNone)
	require.NoError(t, err)

	// A write that bypasses the service, announced on the change feed.
	require.NoError(t, store.Appointments().UpdateSlot(ctx, "n2", "2026-10-18", "15:00"))
	events := event.NewEventService(broker, zerolog.Nop())
	events.Emit(ctx, model.CollectionAppointments, model.ChangeUpdate, "n2")

	assert.Eventually(t, func() bool {
		w, err := svc.WeekView(ctx, "", NavNone)
		return err == nil && w.Lookup("2026-10-18", "15:00") != nil
	}, time.Second, 10*time.Millisecond)
}

func TestServiceMonth(t *testing.T) {
	svc, _, _ := newTestService(t)

	m, err := svc.Month(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Outubro 2026", m.Title)
	assert.True(t, m.Days[21].HasAppointments)

	_, err = svc.Month(context.Background(), "outubro")
	assert.True(t, errors.Is(err, errors.ErrBadRequest))
}

func TestServiceIndicator(t *testing.T) {
	svc, _, _ := newTestService(t)
	ind, ok := svc.Indicator(sundayNoon)
	require.True(t, ok)
	assert.Equal(t, 240.0, ind.Offset)
	assert.Equal(t, "12:00", ind.Label)
}

func TestServiceCell(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	action, err := svc.Cell(ctx, "2026-10-18", "09:00")
	require.NoError(t, err)
	assert.Equal(t, CellDetail, action.Kind)
	assert.Equal(t, "n2", action.Appointment.ID)

	action, err = svc.Cell(ctx, "2026-10-18", "16:00")
	require.NoError(t, err)
	assert.Equal(t, CellCreate, action.Kind)
	assert.Equal(t, "16:00", action.Prefill.Time)

	_, err = svc.Cell(ctx, "2026-10-18", "16:30")
	assert.True(t, errors.Is(err, errors.ErrBadRequest))
}
