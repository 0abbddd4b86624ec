package agenda

import (
	"fmt"
	"time"

	"github.com/odonto/admin-api/pkg/format"
)

const calendarCells = 42

type CalendarDay struct {
	Day             int    `json:"day"`
	Current         bool   `json:"current"`
	Date            string `json:"date,omitempty"`
	IsToday         bool   `json:"is_today"`
	HasAppointments bool   `json:"has_appointments"`
}

// Month is the mini calendar: a fixed 6x7 grid padded with the neighbouring
// months' days, which are not selectable and carry no date.
type Month struct {
	Title    string        `json:"title"`
	Year     int           `json:"year"`
	Month    int           `json:"month"`
	DayNames []string      `json:"day_names"`
	Days     []CalendarDay `json:"days"`
}

func NewMonth(year int, month time.Month, today time.Time, appointmentDates []string) *Month {
	loc := today.Location()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	daysInPrev := time.Date(year, month, 0, 0, 0, 0, 0, loc).Day()
	todayDate := today.Format(format.DateLayout)

	has := make(map[string]bool, len(appointmentDates))
	for _, d := range appointmentDates {
		has[d] = true
	}

	m := &Month{
		Title:    fmt.Sprintf("%s %d", format.MonthTitles[month-1], year),
		Year:     year,
		Month:    int(month),
		DayNames: format.DayNames[:],
	}
	for i := int(first.Weekday()) - 1; i >= 0; i-- {
		m.Days = append(m.Days, CalendarDay{Day: daysInPrev - i})
	}
	for d := 1; d <= daysInMonth; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, loc).Format(format.DateLayout)
		m.Days = append(m.Days, CalendarDay{
			Day:             d,
			Current:         true,
			Date:            date,
			IsToday:         date == todayDate,
			HasAppointments: has[date],
		})
	}
	for d := 1; len(m.Days) < calendarCells; d++ {
		m.Days = append(m.Days, CalendarDay{Day: d})
	}
	return m
}

// ParseMonth reads YYYY-MM.
func ParseMonth(s string, loc *time.Location) (int, time.Month, error) {
	t, err := time.ParseInLocation("2006-01", s, loc)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return t.Year(), t.Month(), nil
}
