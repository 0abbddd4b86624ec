package model

import (
	"strings"
	"time"
)

type Patient struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CPF       string    `db:"cpf" json:"cpf"`
	Phone     string    `db:"phone" json:"phone"`
	Email     string    `db:"email" json:"email"`
	Birthdate string    `db:"birthdate" json:"birthdate"`
	BloodType string    `db:"blood_type" json:"blood_type"`
	Allergies string    `db:"allergies" json:"allergies"`
	Notes     string    `db:"notes" json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Matches is the patient list search: name case-insensitive, cpf and phone verbatim.
func (p *Patient) Matches(term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(term)) ||
		strings.Contains(p.CPF, term) ||
		strings.Contains(p.Phone, term)
}

type PatientRequest struct {
	Name      string `json:"name"`
	CPF       string `json:"cpf"`
	Phone     string `json:"phone"`
	Email     string `json:"email" binding:"omitempty,email"`
	Birthdate string `json:"birthdate" binding:"omitempty,datetime=2006-01-02"`
	BloodType string `json:"blood_type" binding:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Allergies string `json:"allergies"`
	Notes     string `json:"notes"`
}

// Apply copies the request onto p.
func (r *PatientRequest) Apply(p *Patient) {
	p.Name = strings.TrimSpace(r.Name)
	p.CPF = r.CPF
	p.Phone = r.Phone
	p.Email = r.Email
	p.Birthdate = r.Birthdate
	p.BloodType = r.BloodType
	p.Allergies = r.Allergies
	p.Notes = r.Notes
}

// PatientDetail backs the patient side panel: info plus the prontuario and consultas tabs.
type PatientDetail struct {
	Patient    *Patient           `json:"patient"`
	Prontuario []*ProntuarioEntry `json:"prontuario"`
	Consultas  []*Appointment     `json:"consultas"`
}
