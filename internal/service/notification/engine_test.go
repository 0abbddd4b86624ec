package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odonto/admin-api/internal/model"
)

var noon = time.Date(2026, time.October, 21, 12, 0, 0, 0, time.UTC)

func appt(id, at string) *model.Appointment {
	return &model.Appointment{
		ID:          id,
		Date:        "2026-10-21",
		Time:        at,
		PatientName: "Paciente " + id,
		Procedure:   "Avaliação",
		Dentist:     "Dra. Ana Letícia",
		Value:       200,
		Status:      model.AppointmentStatusScheduled,
	}
}

func TestComputeWindows(t *testing.T) {
	appts := []*model.Appointment{
		appt("a", "12:05"),
		appt("b", "12:20"),
		appt("c", "12:45"),
		appt("d", "11:50"),
	}

	got := RenderAll(Compute(noon, appts, nil))
	require.Len(t, got, 4)

	assert.Equal(t, model.NotificationUpcoming, got[0].Type)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "Consulta em 5 min", got[0].Title)
	assert.True(t, got[0].Urgent)

	assert.Equal(t, model.NotificationUpcoming, got[1].Type)
	assert.Equal(t, "Consulta em 20 min", got[1].Title)
	assert.False(t, got[1].Urgent)

	assert.Equal(t, model.NotificationSoon, got[2].Type)
	assert.Equal(t, "Próxima consulta às 12:45", got[2].Title)
	assert.False(t, got[2].Urgent)

	assert.Equal(t, model.NotificationPayment, got[3].Type)
	assert.Equal(t, "d", got[3].ID)
	assert.Equal(t, "Pagamento pendente — 11:50", got[3].Title)
	assert.Equal(t, "Paciente d — Avaliação", got[3].Message)

	for _, n := range got {
		assert.NotEqual(t, model.NotificationInfo, n.Type)
	}
}

func TestComputeInfoWhenNothingUpcoming(t *testing.T) {
	a := appt("x", "14:30")
	a.PatientName = "Ana Paula Ferreira"
	a.Procedure = "Avaliação odontológica"

	got := RenderAll(Compute(noon, []*model.Appointment{a}, nil))
	require.Len(t, got, 1)
	assert.Equal(t, model.NotificationInfo, got[0].Type)
	assert.Equal(t, "Próxima consulta em 2h 30min", got[0].Title)
	assert.Equal(t, "Ana Paula Ferreira — Avaliação odontológica às 14:30", got[0].Message)
	assert.False(t, got[0].Urgent)
}

func TestComputeInfoPicksEarliestLabel(t *testing.T) {
	appts := []*model.Appointment{appt("late", "17:00"), appt("early", "13:10"), appt("past", "09:00")}

	alerts := Compute(noon, appts, nil)
	require.Len(t, alerts, 2)

	info, ok := alerts[0].Kind.(Info)
	require.True(t, ok)
	assert.Equal(t, "early", alerts[0].Appointment.ID)
	assert.Equal(t, 70, info.DiffMin)
	assert.Equal(t, "Próxima consulta em 1h 10min", Render(alerts[0]).Title)

	_, ok = alerts[1].Kind.(Payment)
	assert.True(t, ok)
}

func TestComputeInfoJustPastSoonWindow(t *testing.T) {
	// 61 minutes out is past the soon window.
	now := time.Date(2026, time.October, 21, 11, 59, 0, 0, time.UTC)
	got := RenderAll(Compute(now, []*model.Appointment{appt("x", "13:00")}, nil))
	require.Len(t, got, 1)
	assert.Equal(t, "Próxima consulta em 1h 1min", got[0].Title)

	got = RenderAll(Compute(noon, []*model.Appointment{appt("y", "12:00")}, nil))
	assert.Empty(t, got, "an appointment starting exactly now is neither future nor past")
}

func TestComputeSkipsConfirmedAndCancelled(t *testing.T) {
	cancelled := appt("c", "12:05")
	cancelled.Status = model.AppointmentStatusCancelled
	appts := []*model.Appointment{appt("a", "11:00"), appt("b", "12:10"), cancelled}

	got := Compute(noon, appts, ConfirmedSet{"a": {}})
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Appointment.ID)
	assert.Equal(t, model.NotificationUpcoming, got[0].Kind.Type())
}

func TestComputeUrgentBoundary(t *testing.T) {
	alerts := Compute(noon, []*model.Appointment{appt("ten", "12:10"), appt("eleven", "12:11")}, nil)
	require.Len(t, alerts, 2)
	assert.True(t, alerts[0].Kind.(Upcoming).Urgent())
	assert.False(t, alerts[1].Kind.(Upcoming).Urgent())
}

func TestComputeRoundsHalfUp(t *testing.T) {
	// 30.5 minutes rounds to 31, which is soon rather than upcoming.
	now := time.Date(2026, time.October, 21, 11, 29, 30, 0, time.UTC)
	alerts := Compute(now, []*model.Appointment{appt("a", "12:00")}, nil)
	require.Len(t, alerts, 1)
	assert.Equal(t, Soon{DiffMin: 31}, alerts[0].Kind)
}

func TestComputeIgnoresBadTimeLabels(t *testing.T) {
	assert.Empty(t, Compute(noon, []*model.Appointment{appt("bad", "noon")}, nil))
}

func TestPendingPayments(t *testing.T) {
	cancelled := appt("c", "09:00")
	cancelled.Status = model.AppointmentStatusCancelled
	appts := []*model.Appointment{appt("a", "08:00"), appt("b", "10:00"), appt("d", "15:00"), cancelled}

	assert.Equal(t, 2, PendingPayments(noon, appts, nil))
	assert.Equal(t, 1, PendingPayments(noon, appts, ConfirmedSet{"a": {}}))
}

func TestRenderValueText(t *testing.T) {
	a := appt("a", "11:00")
	a.Value = 180.5
	assert.Equal(t, "R$ 180,50", Render(Alert{Appointment: a, Kind: Payment{}}).ValueText)

	a.Value = 0
	assert.Empty(t, Render(Alert{Appointment: a, Kind: Payment{}}).ValueText)
}

func TestSessionConfirm(t *testing.T) {
	s := NewSession()
	tx := &model.Transaction{ID: "confirmed-a-1", Value: 10}

	assert.True(t, s.Confirm("a", tx))
	assert.False(t, s.Confirm("a", tx))
	assert.True(t, s.IsConfirmed("a"))

	snap := s.Confirmed()
	snap["z"] = struct{}{}
	assert.False(t, s.IsConfirmed("z"))

	pending := s.PendingTransactions()
	require.Len(t, pending, 1)
	assert.Equal(t, "confirmed-a-1", pending[0].ID)
}

func TestSessionReserve(t *testing.T) {
	s := NewSession()

	assert.True(t, s.Reserve("a"))
	assert.False(t, s.Reserve("a"))
	assert.False(t, s.IsConfirmed("a"))

	s.Release("a")
	assert.True(t, s.Reserve("a"))
	assert.True(t, s.Confirm("a", nil))
	assert.False(t, s.Reserve("a"))
	assert.Empty(t, s.PendingTransactions())
}
