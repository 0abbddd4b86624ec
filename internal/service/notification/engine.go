package notification

import (
	"fmt"
	"sort"
	"time"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/pkg/format"
)

const (
	upcomingWindowMin = 30
	soonWindowMin     = 60
	urgentWithinMin   = 10
)

// Kind is the closed set of notification variants. The unexported method
// keeps other packages from adding cases, so a switch over the four types
// below is exhaustive.
type Kind interface {
	Type() model.NotificationType
	isKind()
}

// Upcoming is an appointment starting within the next 30 minutes.
type Upcoming struct{ DiffMin int }

// Soon is an appointment starting in 31 to 60 minutes.
type Soon struct{ DiffMin int }

// Info summarises the next appointment when nothing is upcoming or soon.
type Info struct{ DiffMin int }

// Payment is a past appointment whose payment has not been confirmed.
type Payment struct{}

func (Upcoming) Type() model.NotificationType { return model.NotificationUpcoming }
func (Soon) Type() model.NotificationType     { return model.NotificationSoon }
func (Info) Type() model.NotificationType     { return model.NotificationInfo }
func (Payment) Type() model.NotificationType  { return model.NotificationPayment }

func (Upcoming) isKind() {}
func (Soon) isKind()     {}
func (Info) isKind()     {}
func (Payment) isKind()  {}

// Urgent reports whether the appointment starts within 10 minutes.
func (u Upcoming) Urgent() bool { return u.DiffMin <= urgentWithinMin }

// Alert pairs a source appointment with the kind it was classified as.
type Alert struct {
	Appointment *model.Appointment
	Kind        Kind
}

// ConfirmedSet holds appointment ids whose payment was confirmed this session.
type ConfirmedSet map[string]struct{}

func (s ConfirmedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

type candidate struct {
	appt    *model.Appointment
	slot    time.Time
	diffMin int
}

// Compute derives the alert list for today's appointments at now. It is pure:
// the result depends only on its arguments.
//
// Order: upcoming and soon in input order, then at most one info, then
// payment reminders in input order.
func Compute(now time.Time, appointments []*model.Appointment, confirmed ConfirmedSet) []Alert {
	eligible := make([]candidate, 0, len(appointments))
	for _, a := range appointments {
		if confirmed.Has(a.ID) || !a.Active() {
			continue
		}
		slot, err := a.SlotTime(now)
		if err != nil {
			continue
		}
		eligible = append(eligible, candidate{
			appt:    a,
			slot:    slot,
			diffMin: minutesUntil(now, slot),
		})
	}

	var alerts []Alert
	for _, c := range eligible {
		switch {
		case c.diffMin > 0 && c.diffMin <= upcomingWindowMin:
			alerts = append(alerts, Alert{Appointment: c.appt, Kind: Upcoming{DiffMin: c.diffMin}})
		case c.diffMin > upcomingWindowMin && c.diffMin <= soonWindowMin:
			alerts = append(alerts, Alert{Appointment: c.appt, Kind: Soon{DiffMin: c.diffMin}})
		}
	}

	if len(alerts) == 0 {
		if next, ok := nextFuture(now, eligible); ok {
			alerts = append(alerts, Alert{Appointment: next.appt, Kind: Info{DiffMin: next.diffMin}})
		}
	}

	for _, c := range eligible {
		if c.slot.Before(now) {
			alerts = append(alerts, Alert{Appointment: c.appt, Kind: Payment{}})
		}
	}
	return alerts
}

// nextFuture picks the earliest strictly-future candidate by slot label.
func nextFuture(now time.Time, eligible []candidate) (candidate, bool) {
	var future []candidate
	for _, c := range eligible {
		if c.slot.After(now) {
			future = append(future, c)
		}
	}
	if len(future) == 0 {
		return candidate{}, false
	}
	sort.SliceStable(future, func(i, j int) bool {
		return future[i].appt.Time < future[j].appt.Time
	})
	return future[0], true
}

func minutesUntil(now, slot time.Time) int {
	return format.Round(float64(slot.Sub(now).Milliseconds()) / 60000)
}

// PendingPayments counts today's past, unconfirmed, non-cancelled
// appointments. It drives the bell badge.
func PendingPayments(now time.Time, appointments []*model.Appointment, confirmed ConfirmedSet) int {
	n := 0
	for _, a := range appointments {
		if confirmed.Has(a.ID) || !a.Active() {
			continue
		}
		slot, err := a.SlotTime(now)
		if err != nil {
			continue
		}
		if slot.Before(now) {
			n++
		}
	}
	return n
}

// Render turns an alert into the panel item.
func Render(a Alert) model.Notification {
	appt := a.Appointment
	n := model.Notification{
		ID:        appt.ID,
		Type:      a.Kind.Type(),
		Time:      appt.Time,
		Patient:   appt.PatientName,
		Procedure: appt.Procedure,
		Value:     appt.Value,
		Message:   fmt.Sprintf("%s — %s", appt.PatientName, appt.Procedure),
	}
	if appt.Value != 0 {
		n.ValueText = "R$ " + format.Amount(appt.Value)
	}

	switch k := a.Kind.(type) {
	case Upcoming:
		n.Title = fmt.Sprintf("Consulta em %d min", k.DiffMin)
		n.Urgent = k.Urgent()
	case Soon:
		n.Title = "Próxima consulta às " + appt.Time
	case Info:
		n.Title = "Próxima consulta em " + untilLabel(k.DiffMin)
		n.Message += " às " + appt.Time
	case Payment:
		n.Title = "Pagamento pendente — " + appt.Time
	}
	return n
}

// RenderAll renders alerts in order.
func RenderAll(alerts []Alert) []model.Notification {
	out := make([]model.Notification, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, Render(a))
	}
	return out
}

// untilLabel renders "2h 30min" or "45min".
func untilLabel(diffMin int) string {
	hours := diffMin / 60
	mins := diffMin % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dmin", hours, mins)
	}
	return fmt.Sprintf("%dmin", mins)
}
