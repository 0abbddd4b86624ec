package agenda

import (
	"fmt"
	"time"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/pkg/format"
)

const daysPerWeek = 7

// NormalizeWeekStart returns the Sunday at or before t, at midnight in t's location.
func NormalizeWeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, t.Location())
}

func PrevWeek(start time.Time) time.Time { return NormalizeWeekStart(start).AddDate(0, 0, -daysPerWeek) }
func NextWeek(start time.Time) time.Time { return NormalizeWeekStart(start).AddDate(0, 0, daysPerWeek) }

// GoToday returns the week start containing now.
func GoToday(now time.Time) time.Time { return NormalizeWeekStart(now) }

// JumpTo returns the week start containing a YYYY-MM-DD date picked on the
// mini calendar. The date is read at noon so DST shifts cannot move it.
func JumpTo(date string, loc *time.Location) (time.Time, error) {
	d, err := format.ParseDate(date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return NormalizeWeekStart(d), nil
}

type Day struct {
	Date    string `json:"date"`
	Name    string `json:"name"`
	Number  string `json:"number"`
	IsToday bool   `json:"is_today"`
}

type Cell struct {
	Date        string             `json:"date"`
	Time        string             `json:"time"`
	Appointment *model.Appointment `json:"appointment,omitempty"`
	Color       string             `json:"color,omitempty"`
}

// Week is one 7-day view of the agenda.
type Week struct {
	Start        time.Time            `json:"-"`
	StartDate    string               `json:"start"`
	EndDate      string               `json:"end"`
	Label        string               `json:"label"`
	Days         []Day                `json:"days"`
	Slots        []string             `json:"slots"`
	Appointments []*model.Appointment `json:"appointments"`
	IsCurrent    bool                 `json:"is_current"`
}

// NewWeek builds the view for the week starting at start (normalised to
// Sunday). today marks the highlighted column.
func NewWeek(start time.Time, appointments []*model.Appointment, today time.Time) *Week {
	start = NormalizeWeekStart(start)
	todayDate := today.In(start.Location()).Format(format.DateLayout)

	w := &Week{
		Start:        start,
		StartDate:    start.Format(format.DateLayout),
		EndDate:      start.AddDate(0, 0, daysPerWeek-1).Format(format.DateLayout),
		Label:        format.WeekLabel(start),
		Slots:        model.TimeSlots,
		Appointments: appointments,
	}
	for i := 0; i < daysPerWeek; i++ {
		d := start.AddDate(0, 0, i)
		date := d.Format(format.DateLayout)
		w.Days = append(w.Days, Day{
			Date:    date,
			Name:    format.DayNames[d.Weekday()],
			Number:  fmt.Sprintf("%02d", d.Day()),
			IsToday: date == todayDate,
		})
		if date == todayDate {
			w.IsCurrent = true
		}
	}
	if w.Appointments == nil {
		w.Appointments = []*model.Appointment{}
	}
	return w
}

// Contains reports whether date falls inside the week.
func (w *Week) Contains(date string) bool {
	return date >= w.StartDate && date <= w.EndDate
}

// Lookup returns the appointment occupying (date, time): the first match in
// load order, cancelled bookings included.
func (w *Week) Lookup(date, time string) *model.Appointment {
	for _, a := range w.Appointments {
		if a.Date == date && a.Time == time {
			return a
		}
	}
	return nil
}

func (w *Week) find(id string) *model.Appointment {
	for _, a := range w.Appointments {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Cells returns the grid row by row: one row per slot, one column per day.
func (w *Week) Cells() [][]Cell {
	rows := make([][]Cell, 0, len(w.Slots))
	for _, slot := range w.Slots {
		row := make([]Cell, 0, daysPerWeek)
		for _, d := range w.Days {
			c := Cell{Date: d.Date, Time: slot}
			if a := w.Lookup(d.Date, slot); a != nil {
				c.Appointment = a
				c.Color = DentistColor(a.Dentist)
			}
			row = append(row, c)
		}
		rows = append(rows, row)
	}
	return rows
}

type CellActionKind string

const (
	CellCreate CellActionKind = "create"
	CellDetail CellActionKind = "detail"
)

type Prefill struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// CellAction is what clicking a cell opens.
type CellAction struct {
	Kind        CellActionKind     `json:"kind"`
	Prefill     *Prefill           `json:"prefill,omitempty"`
	Appointment *model.Appointment `json:"appointment,omitempty"`
}

// ClickCell opens the detail view for an occupied cell or the creation form
// prefilled with the cell's date and time.
func (w *Week) ClickCell(date, time string) CellAction {
	if a := w.Lookup(date, time); a != nil {
		return CellAction{Kind: CellDetail, Appointment: a}
	}
	return CellAction{Kind: CellCreate, Prefill: &Prefill{Date: date, Time: time}}
}
