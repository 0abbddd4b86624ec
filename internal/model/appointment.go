package model

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "agendado"
	AppointmentStatusConfirmed AppointmentStatus = "confirmado"
	AppointmentStatusCompleted AppointmentStatus = "realizado"
	AppointmentStatusCancelled AppointmentStatus = "cancelado"
)

// AppointmentStatuses lists the statuses in the order the detail view offers them.
var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusScheduled,
	AppointmentStatusConfirmed,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
}

func (s AppointmentStatus) Valid() bool {
	for _, v := range AppointmentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// TimeSlots is the fixed hourly axis of the agenda.
var TimeSlots = []string{
	"08:00", "09:00", "10:00", "11:00", "12:00", "13:00",
	"14:00", "15:00", "16:00", "17:00", "18:00",
}

// ValidSlot reports whether t is one of TimeSlots.
func ValidSlot(t string) bool {
	for _, s := range TimeSlots {
		if s == t {
			return true
		}
	}
	return false
}

// Appointment is one booking. Date is YYYY-MM-DD and Time is a slot label,
// both zero-padded so lexical order is chronological.
type Appointment struct {
	ID          string            `db:"id" json:"id"`
	PatientID   string            `db:"patient_id" json:"patient_id"`
	PatientName string            `db:"patient_name" json:"patient_name"`
	Date        string            `db:"date" json:"date"`
	Time        string            `db:"time" json:"time"`
	Procedure   string            `db:"procedure" json:"procedure"`
	Dentist     string            `db:"dentist" json:"dentist"`
	Value       float64           `db:"value" json:"value"`
	Status      AppointmentStatus `db:"status" json:"status"`
	Notes       string            `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
}

// Active reports whether the appointment still occupies its slot for booking purposes.
func (a *Appointment) Active() bool {
	return a.Status != AppointmentStatusCancelled
}

// SlotTime returns the appointment's hour:minute on the calendar day of ref.
func (a *Appointment) SlotTime(ref time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", a.Time)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := ref.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, ref.Location()), nil
}

type CreateAppointmentRequest struct {
	PatientID     string            `json:"patient_id"`
	Dentist       string            `json:"dentist"`
	Date          string            `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Time          string            `json:"time" binding:"omitempty,datetime=15:04"`
	ProcedureID   string            `json:"procedure_id"`
	ProcedureName string            `json:"procedure_name"`
	Status        AppointmentStatus `json:"status" binding:"omitempty,oneof=agendado confirmado realizado cancelado"`
	Notes         string            `json:"notes" binding:"max=1000"`
	Value         float64           `json:"value" binding:"gte=0"`
}

type UpdateStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,oneof=agendado confirmado realizado cancelado"`
}

type MoveAppointmentRequest struct {
	AppointmentID string `json:"appointment_id" binding:"required"`
	Date          string `json:"date" binding:"required,datetime=2006-01-02"`
	Time          string `json:"time" binding:"required,datetime=15:04"`
}
