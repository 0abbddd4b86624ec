package agenda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/pkg/errors"
)

func TestNormalizeWeekStart(t *testing.T) {
	sp, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"sunday", time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC), "2026-10-18"},
		{"wednesday", time.Date(2026, 10, 21, 9, 0, 0, 0, time.UTC), "2026-10-18"},
		{"saturday late", time.Date(2026, 10, 24, 23, 59, 0, 0, time.UTC), "2026-10-18"},
		{"across month", time.Date(2026, 11, 3, 8, 0, 0, 0, time.UTC), "2026-11-01"},
		{"across year", time.Date(2027, 1, 1, 8, 0, 0, 0, sp), "2026-12-27"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeWeekStart(tt.in)
			assert.Equal(t, time.Sunday, got.Weekday())
			assert.Equal(t, 0, got.Hour())
			assert.Equal(t, 0, got.Minute())
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}

func TestNavigation(t *testing.T) {
	start := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-10-11", PrevWeek(start).Format("2006-01-02"))
	assert.Equal(t, "2026-10-25", NextWeek(start).Format("2006-01-02"))

	for _, now := range []time.Time{
		time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 22, 18, 45, 0, 0, time.UTC),
		time.Date(2026, 10, 24, 23, 59, 59, 0, time.UTC),
	} {
		got := GoToday(now)
		assert.Equal(t, time.Sunday, got.Weekday())
		assert.Equal(t, 0, got.Hour())
		assert.Equal(t, "2026-10-18", got.Format("2006-01-02"))
	}

	jumped, err := JumpTo("2026-10-29", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-25", jumped.Format("2006-01-02"))

	_, err = JumpTo("29/10/2026", time.UTC)
	assert.Error(t, err)
}

func testWeek() *Week {
	start := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	return NewWeek(start, []*model.Appointment{
		{ID: "a", PatientName: "Ana", Date: "2026-10-19", Time: "09:00", Dentist: "Dra. Ana Letícia", Status: model.AppointmentStatusScheduled},
		{ID: "b", PatientName: "João", Date: "2026-10-19", Time: "10:00", Dentist: "Dra. Ana Letícia", Status: model.AppointmentStatusConfirmed},
		{ID: "c", PatientName: "Camila", Date: "2026-10-20", Time: "08:00", Dentist: "Dr. Carlos Silva", Status: model.AppointmentStatusCancelled},
	}, time.Date(2026, 10, 21, 12, 0, 0, 0, time.UTC))
}

func TestNewWeek(t *testing.T) {
	w := testWeek()

	assert.Equal(t, "2026-10-18", w.StartDate)
	assert.Equal(t, "2026-10-24", w.EndDate)
	assert.True(t, w.IsCurrent)
	require.Len(t, w.Days, 7)
	assert.Equal(t, "Dom", w.Days[0].Name)
	assert.Equal(t, "18", w.Days[0].Number)
	assert.Equal(t, "Sáb", w.Days[6].Name)
	assert.True(t, w.Days[3].IsToday)
	assert.False(t, w.Days[2].IsToday)

	assert.True(t, w.Contains("2026-10-18"))
	assert.True(t, w.Contains("2026-10-24"))
	assert.False(t, w.Contains("2026-10-25"))

	cells := w.Cells()
	require.Len(t, cells, len(model.TimeSlots))
	for _, row := range cells {
		assert.Len(t, row, 7)
	}
	// 09:00 row, Monday column.
	require.NotNil(t, cells[1][1].Appointment)
	assert.Equal(t, "a", cells[1][1].Appointment.ID)
	assert.Equal(t, "#2563EB", cells[1][1].Color)
	assert.Nil(t, cells[0][0].Appointment)
}

func TestWeekLookupIncludesCancelled(t *testing.T) {
	w := testWeek()
	got := w.Lookup("2026-10-20", "08:00")
	require.NotNil(t, got)
	assert.Equal(t, "c", got.ID)
	assert.Nil(t, w.Lookup("2026-10-20", "09:00"))
}

func TestClickCell(t *testing.T) {
	w := testWeek()

	action := w.ClickCell("2026-10-19", "09:00")
	assert.Equal(t, CellDetail, action.Kind)
	assert.Equal(t, "a", action.Appointment.ID)

	action = w.ClickCell("2026-10-22", "14:00")
	assert.Equal(t, CellCreate, action.Kind)
	assert.Equal(t, &Prefill{Date: "2026-10-22", Time: "14:00"}, action.Prefill)
}

func TestDragConflict(t *testing.T) {
	w := testWeek()
	var writes int
	d := NewDrag(w, func(ctx context.Context, id, date, time string) error {
		writes++
		return nil
	})

	d.Begin(w.Lookup("2026-10-19", "09:00"))
	d.Over("2026-10-19", "10:00")
	assert.Equal(t, "2026-10-19-10:00", d.Hover())

	res, err := d.Drop(context.Background(), "2026-10-19", "10:00")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConflict))
	assert.Equal(t, DropRejected, res.State)
	assert.Equal(t, "Conflito — já existe consulta nesse horário.", res.Message)
	assert.Zero(t, writes)

	a := w.Lookup("2026-10-19", "09:00")
	require.NotNil(t, a)
	assert.Equal(t, "a", a.ID)
	assert.Equal(t, DragIdle, d.State())
	assert.Nil(t, d.Item())
}

func TestDragSuccess(t *testing.T) {
	w := testWeek()
	var gotID, gotDate, gotTime string
	d := NewDrag(w, func(ctx context.Context, id, date, time string) error {
		gotID, gotDate, gotTime = id, date, time
		return nil
	})

	d.Begin(w.Lookup("2026-10-19", "09:00"))
	res, err := d.Drop(context.Background(), "2026-10-21", "14:00")
	require.NoError(t, err)

	assert.Equal(t, DropAccepted, res.State)
	assert.Equal(t, "Consulta reagendada para 14:00 em 21/10/2026", res.Message)
	assert.Equal(t, "a", gotID)
	assert.Equal(t, "2026-10-21", gotDate)
	assert.Equal(t, "14:00", gotTime)
	assert.Nil(t, w.Lookup("2026-10-19", "09:00"))
	assert.Equal(t, "a", w.Lookup("2026-10-21", "14:00").ID)
	assert.Equal(t, DragIdle, d.State())
}

func TestDragOntoOwnCell(t *testing.T) {
	w := testWeek()
	d := NewDrag(w, func(context.Context, string, string, string) error { return nil })

	d.Begin(w.Lookup("2026-10-19", "09:00"))
	res, err := d.Drop(context.Background(), "2026-10-19", "09:00")
	require.NoError(t, err)
	assert.Equal(t, DropAccepted, res.State)
	assert.Equal(t, "a", w.Lookup("2026-10-19", "09:00").ID)
}

func TestDragWithoutItemIsNoop(t *testing.T) {
	w := testWeek()
	d := NewDrag(w, func(context.Context, string, string, string) error {
		t.Fatal("unexpected write")
		return nil
	})

	res, err := d.Drop(context.Background(), "2026-10-21", "14:00")
	require.NoError(t, err)
	assert.Equal(t, DragIdle, res.State)

	d.Begin(w.Lookup("2026-10-19", "09:00"))
	d.Leave()
	assert.Empty(t, d.Hover())
	res, err = d.Drop(context.Background(), "2026-10-21", "19:00")
	require.NoError(t, err)
	assert.Equal(t, DragIdle, res.State)
	assert.Equal(t, "a", w.Lookup("2026-10-19", "09:00").ID)
}

func TestDragPersistenceFailureLeavesGrid(t *testing.T) {
	w := testWeek()
	d := NewDrag(w, func(context.Context, string, string, string) error {
		return stderrors.New("timeout")
	})

	d.Begin(w.Lookup("2026-10-19", "09:00"))
	_, err := d.Drop(context.Background(), "2026-10-21", "14:00")
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Erro ao reagendar: timeout", appErr.Message)
	assert.Equal(t, "a", w.Lookup("2026-10-19", "09:00").ID)
	assert.Nil(t, w.Lookup("2026-10-21", "14:00"))
	assert.Equal(t, DragIdle, d.State())
}

func TestCurrentTimeIndicator(t *testing.T) {
	weekStart := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return time.Date(2026, 10, 21, h, m, 0, 0, time.UTC) }

	_, ok := CurrentTimeIndicator(at(7, 59), weekStart)
	assert.False(t, ok)

	ind, ok := CurrentTimeIndicator(at(8, 0), weekStart)
	require.True(t, ok)
	assert.Equal(t, 0.0, ind.Offset)
	assert.Equal(t, "08:00", ind.Label)

	ind, ok = CurrentTimeIndicator(at(14, 30), weekStart)
	require.True(t, ok)
	assert.Equal(t, 390.0, ind.Offset)

	ind, ok = CurrentTimeIndicator(at(18, 59), weekStart)
	require.True(t, ok)
	assert.Equal(t, 659.0, ind.Offset)

	_, ok = CurrentTimeIndicator(at(19, 0), weekStart)
	assert.False(t, ok)

	_, ok = CurrentTimeIndicator(at(10, 0), weekStart.AddDate(0, 0, 7))
	assert.False(t, ok)
}

func TestDentistColor(t *testing.T) {
	assert.Equal(t, "#2563EB", DentistColor("Dra. Ana Letícia"))
	assert.Equal(t, "#7C3AED", DentistColor("Dr. Carlos Silva"))
	assert.Equal(t, "#EF4444", DentistColor("Dra. Fernanda Lima"))
	assert.Equal(t, "#10B981", DentistColor("A"))
	assert.Equal(t, DentistColor("Dra. Ana Letícia"), DentistColor("Dra. Ana Letícia"))
}

func TestNewMonth(t *testing.T) {
	today := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	m := NewMonth(2026, time.October, today, []string{"2026-10-20", "2026-11-02"})

	assert.Equal(t, "Outubro 2026", m.Title)
	require.Len(t, m.Days, 42)

	// October 2026 starts on a Thursday: four leading September days.
	assert.Equal(t, 27, m.Days[0].Day)
	assert.False(t, m.Days[0].Current)
	assert.Empty(t, m.Days[0].Date)
	assert.Equal(t, 1, m.Days[4].Day)
	assert.True(t, m.Days[4].Current)
	assert.Equal(t, "2026-10-01", m.Days[4].Date)

	assert.True(t, m.Days[21].IsToday)
	assert.Equal(t, 18, m.Days[21].Day)
	assert.True(t, m.Days[23].HasAppointments)
	assert.False(t, m.Days[22].HasAppointments)

	// 4 leading + 31 days leaves 7 trailing November days.
	assert.Equal(t, 1, m.Days[35].Day)
	assert.False(t, m.Days[35].Current)
	assert.False(t, m.Days[36].HasAppointments)
	assert.Equal(t, 7, m.Days[41].Day)
}

func TestParseMonth(t *testing.T) {
	y, m, err := ParseMonth("2026-02", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 2026, y)
	assert.Equal(t, time.February, m)

	_, _, err = ParseMonth("2026-13", time.UTC)
	assert.Error(t, err)
}
