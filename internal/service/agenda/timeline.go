package agenda

import (
	"time"
	"unicode/utf16"

	"github.com/odonto/admin-api/pkg/format"
)

const (
	firstSlotHour = 8
	// lastSlotHour is exclusive: the 18:00 slot runs until 19:00.
	lastSlotHour    = 19
	slotPixelHeight = 60
)

// Indicator is the "now" line drawn across the current week.
type Indicator struct {
	Offset float64 `json:"offset_px"`
	Label  string  `json:"label"`
}

// CurrentTimeIndicator places the now line for the week starting at
// weekStart. ok is false when the week does not contain today or now is
// outside 08:00-19:00.
func CurrentTimeIndicator(now, weekStart time.Time) (Indicator, bool) {
	start := NormalizeWeekStart(weekStart)
	now = now.In(start.Location())
	today := NormalizeDay(now)
	if today.Before(start) || !today.Before(start.AddDate(0, 0, daysPerWeek)) {
		return Indicator{}, false
	}

	h, m := now.Hour(), now.Minute()
	if h < firstSlotHour || h >= lastSlotHour {
		return Indicator{}, false
	}
	minutes := (h-firstSlotHour)*60 + m
	return Indicator{
		Offset: float64(minutes) / 60 * slotPixelHeight,
		Label:  format.Clock(h, m),
	}, true
}

// NormalizeDay truncates t to local midnight.
func NormalizeDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

var dentistPalette = []string{"#7C3AED", "#F59E0B", "#10B981", "#EAB308", "#EC4899", "#2563EB", "#EF4444"}

// DentistColor returns a stable palette colour for a dentist name. The hash
// is the classic h = c + (h<<5) - h over UTF-16 code units with 32-bit shift
// semantics, so colours match those already shown to operators.
func DentistColor(name string) string {
	if name == "" {
		return dentistPalette[0]
	}
	var h int64
	for _, c := range utf16.Encode([]rune(name)) {
		shifted := int64(int32(h) << 5)
		h = int64(c) + (shifted - h)
	}
	if h < 0 {
		h = -h
	}
	return dentistPalette[h%int64(len(dentistPalette))]
}
