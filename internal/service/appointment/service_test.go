package appointment

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

func newTestService(t *testing.T) (Service, *memory.Store) {
	t.Helper()
	clock := func() time.Time { return sundayNoon }
	store := memory.New(memory.Options{Now: clock, Rand: rand.New(rand.NewPCG(3, 3)), Location: time.UTC})
	svc := NewService(store, event.NewEventService(messaging.NewLocalBroker(8), zerolog.Nop()), metrics.NewNop(), zerolog.Nop(), Config{
		Now:      clock,
		Location: time.UTC,
		Dentists: []string{memory.DemoDentist, "Dr. Carlos Silva"},
	})
	return svc, store
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  model.CreateAppointmentRequest
		msg  string
	}{
		{"no patient", model.CreateAppointmentRequest{Date: "2026-10-18"}, "Selecione um paciente."},
		{"no date", model.CreateAppointmentRequest{PatientID: "p1"}, "Selecione uma data."},
		{"unknown patient", model.CreateAppointmentRequest{PatientID: "p99", Date: "2026-10-18"}, "Selecione um paciente."},
		{"off grid", model.CreateAppointmentRequest{PatientID: "p1", Date: "2026-10-18", Time: "07:30"}, "Selecione um horário válido."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, &tt.req)
			var appErr *errors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, errors.ErrBadRequest, appErr.Code)
			assert.Equal(t, tt.msg, appErr.Message)
		})
	}
}

func TestCreateDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Saturdays are never generated, so 08:00 is free.
	a, err := svc.Create(ctx, &model.CreateAppointmentRequest{
		PatientID:   "p4",
		Date:        "2026-10-17",
		ProcedureID: "demo6",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "Roberto Santos", a.PatientName)
	assert.Equal(t, memory.DemoDentist, a.Dentist)
	assert.Equal(t, "08:00", a.Time)
	assert.Equal(t, model.AppointmentStatusScheduled, a.Status)
	assert.Equal(t, "Clareamento dental", a.Procedure)
	assert.Equal(t, 800.0, a.Value)
}

func TestCreateConflict(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.CreateAppointmentRequest{
		PatientID: "p4",
		Date:      "2026-10-18",
		Time:      "09:00",
		Dentist:   memory.DemoDentist,
	})
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, errors.ErrConflict, appErr.Code)
	assert.Equal(t, "Conflito — Dra. Ana Letícia já tem consulta às 09:00 nessa data.", appErr.Message)

	// Another dentist may take the same slot.
	a, err := svc.Create(ctx, &model.CreateAppointmentRequest{
		PatientID: "p4",
		Date:      "2026-10-18",
		Time:      "09:00",
		Dentist:   "Dr. Carlos Silva",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Carlos Silva", a.Dentist)
}

func TestCreateIgnoresCancelledInConflictCheck(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Cancel(ctx, "n3")
	require.NoError(t, err)

	a, err := svc.Create(ctx, &model.CreateAppointmentRequest{PatientID: "p5", Date: "2026-10-18", Time: "10:00"})
	require.NoError(t, err)
	assert.Equal(t, "Mariana Oliveira", a.PatientName)
}

func TestCreateProcedureFallback(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, &model.CreateAppointmentRequest{
		PatientID:   "p2",
		Date:        "2026-10-18",
		Time:        "15:00",
		ProcedureID: "sem-cadastro",
		Value:       120,
	})
	require.NoError(t, err)
	assert.Equal(t, "sem-cadastro", a.Procedure)
	assert.Equal(t, 120.0, a.Value)

	a, err = svc.Create(ctx, &model.CreateAppointmentRequest{
		PatientID:     "p2",
		Date:          "2026-10-18",
		Time:          "16:00",
		ProcedureID:   "demo1",
		ProcedureName: "Avaliação de retorno",
	})
	require.NoError(t, err)
	assert.Equal(t, "Avaliação de retorno", a.Procedure)
	assert.Equal(t, 180.0, a.Value)
}

func TestUpdateStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.UpdateStatus(ctx, "n1", model.AppointmentStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, a.Status)
	assert.Equal(t, `Status atualizado para "confirmado".`, StatusMessage(a.Status))

	_, err = svc.UpdateStatus(ctx, "n1", "remarcado")
	assert.True(t, errors.Is(err, errors.ErrBadRequest))

	_, err = svc.UpdateStatus(ctx, "missing", model.AppointmentStatusCompleted)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	a, err = svc.Cancel(ctx, "n2")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, a.Status)
}

func TestReactivateChecksSlot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Sundays are never generated, so the slot starts empty.
	req := model.CreateAppointmentRequest{
		PatientID: "p1",
		Date:      "2026-10-25",
		Time:      "15:00",
		Dentist:   "Dr. Carlos Silva",
	}
	first, err := svc.Create(ctx, &req)
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, first.ID)
	require.NoError(t, err)

	req.PatientID = "p2"
	second, err := svc.Create(ctx, &req)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, first.ID, model.AppointmentStatusScheduled)
	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, errors.ErrConflict, appErr.Code)
	assert.Equal(t, "Conflito — Dr. Carlos Silva já tem consulta às 15:00 nessa data.", appErr.Message)

	still, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, still.Status)

	_, err = svc.Cancel(ctx, second.ID)
	require.NoError(t, err)
	back, err := svc.UpdateStatus(ctx, first.ID, model.AppointmentStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, back.Status)

	// Active to active never conflicts with itself.
	_, err = svc.UpdateStatus(ctx, first.ID, model.AppointmentStatusCompleted)
	require.NoError(t, err)
}

func TestToday(t *testing.T) {
	svc, _ := newTestService(t)

	list, err := svc.Today(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"08:00", "09:00", "10:00"}, []string{list[0].Time, list[1].Time, list[2].Time})
	assert.Equal(t, []string{memory.DemoDentist, "Dr. Carlos Silva"}, svc.Dentists())
}
