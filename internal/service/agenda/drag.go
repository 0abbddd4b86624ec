package agenda

import (
	"context"
	"fmt"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/pkg/errors"
	"github.com/odonto/admin-api/pkg/format"
)

const conflictMessage = "Conflito — já existe consulta nesse horário."

type DragState int

const (
	DragIdle DragState = iota
	DragDragging
	DropAccepted
	DropRejected
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragDragging:
		return "dragging"
	case DropAccepted:
		return "accepted"
	case DropRejected:
		return "rejected"
	default:
		return fmt.Sprintf("DragState(%d)", int(s))
	}
}

// PersistFunc writes a new slot for an appointment.
type PersistFunc func(ctx context.Context, id, date, time string) error

// DropResult reports how a drop ended. State is DragIdle for a no-op.
type DropResult struct {
	State       DragState          `json:"-"`
	Outcome     string             `json:"outcome"`
	Message     string             `json:"message,omitempty"`
	Appointment *model.Appointment `json:"appointment,omitempty"`
}

// Drag is the rescheduling state machine for one week view:
// Idle -> Dragging(item) -> Accepted | Rejected -> Idle. The only guard on
// acceptance is that the target cell is empty or holds the dragged item.
type Drag struct {
	week    *Week
	persist PersistFunc
	state   DragState
	item    *model.Appointment
	over    string
}

func NewDrag(week *Week, persist PersistFunc) *Drag {
	return &Drag{week: week, persist: persist}
}

func (d *Drag) State() DragState { return d.state }

// Item is the appointment being dragged, nil when idle.
func (d *Drag) Item() *model.Appointment { return d.item }

// Hover is the highlighted target as "date-time", empty when none.
func (d *Drag) Hover() string { return d.over }

func (d *Drag) Begin(a *model.Appointment) {
	if a == nil {
		return
	}
	d.state = DragDragging
	d.item = a
	d.over = ""
}

func (d *Drag) Over(date, time string) {
	if d.state != DragDragging {
		return
	}
	d.over = date + "-" + time
}

func (d *Drag) Leave() {
	d.over = ""
}

func (d *Drag) reset() {
	d.state = DragIdle
	d.item = nil
	d.over = ""
}

// Drop attempts to move the dragged appointment to (date, time). Dropping
// with nothing dragged, or outside the week's slots, does nothing. A
// persistence failure leaves the grid untouched and is returned as an error.
func (d *Drag) Drop(ctx context.Context, date, time string) (DropResult, error) {
	d.over = ""
	if d.state != DragDragging || d.item == nil {
		return DropResult{State: DragIdle, Outcome: "noop"}, nil
	}
	item := d.item
	defer d.reset()

	if !d.week.Contains(date) || !model.ValidSlot(time) {
		return DropResult{State: DragIdle, Outcome: "noop"}, nil
	}

	if existing := d.week.Lookup(date, time); existing != nil && existing.ID != item.ID {
		return DropResult{
			State:       DropRejected,
			Outcome:     "conflict",
			Message:     conflictMessage,
			Appointment: item,
		}, errors.Conflict(conflictMessage)
	}

	if d.persist != nil {
		if err := d.persist(ctx, item.ID, date, time); err != nil {
			return DropResult{State: DropRejected, Outcome: "error"}, errors.Persistence("Erro ao reagendar: ", err)
		}
	}

	if a := d.week.find(item.ID); a != nil {
		a.Date, a.Time = date, time
	}
	item.Date, item.Time = date, time

	return DropResult{
		State:       DropAccepted,
		Outcome:     "moved",
		Message:     RescheduledMessage(date, time),
		Appointment: item,
	}, nil
}

// RescheduledMessage is the operator confirmation after a move.
func RescheduledMessage(date, time string) string {
	return fmt.Sprintf("Consulta reagendada para %s em %s", time, format.ShortFromISO(date))
}
