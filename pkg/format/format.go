// Package format renders values the way the clinic operators read them
// (Brazilian Portuguese dates and currency).
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// DateLayout is the wire format for calendar dates.
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format for slot labels.
	TimeLayout = "15:04"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

var months = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

var monthsShort = [...]string{
	"jan.", "fev.", "mar.", "abr.", "mai.", "jun.",
	"jul.", "ago.", "set.", "out.", "nov.", "dez.",
}

var weekdays = [...]string{
	"domingo", "segunda-feira", "terça-feira", "quarta-feira",
	"quinta-feira", "sexta-feira", "sábado",
}

// DayNames are the short column headers of the week grid, Sunday first.
var DayNames = [...]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

// MonthTitles are the capitalised month names used by the mini calendar header.
var MonthTitles = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// Currency formats v as "R$ 1.234,50".
func Currency(v float64) string {
	return "R$ " + printer.Sprintf("%.2f", v)
}

// Amount formats v with a comma decimal separator and no grouping ("180,50").
func Amount(v float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}

// DateShort formats t as dd/mm/yyyy.
func DateShort(t time.Time) string {
	return t.Format("02/01/2006")
}

// DateLong formats t as "18 de outubro de 2026".
func DateLong(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), months[t.Month()-1], t.Year())
}

// DateLongWeekday formats t as "domingo, 18 de outubro de 2026".
func DateLongWeekday(t time.Time) string {
	return weekdays[t.Weekday()] + ", " + DateLong(t)
}

// WeekLabel renders the heading of a 7-day view starting at start.
func WeekLabel(start time.Time) string {
	end := start.AddDate(0, 0, 6)
	return fmt.Sprintf("%d de %s — %d de %s de %d",
		start.Day(), monthsShort[start.Month()-1],
		end.Day(), monthsShort[end.Month()-1], end.Year())
}

// ParseDate parses a YYYY-MM-DD date at local noon, which keeps the calendar
// day stable across DST transitions.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(12 * time.Hour), nil
}

// ShortFromISO converts a YYYY-MM-DD string to dd/mm/yyyy, "—" when empty.
func ShortFromISO(s string) string {
	if s == "" {
		return "—"
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return s
	}
	return DateShort(d)
}

// Clock renders hour and minute as HH:MM.
func Clock(h, m int) string {
	return fmt.Sprintf("%02d:%02d", h, m)
}

// Round rounds half up, matching how the dashboard rounds minute differences
// (-0.5 rounds to 0, not -1).
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}
