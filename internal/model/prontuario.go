package model

import (
	"time"
)

// ProntuarioEntry is one clinical record visit for a patient.
type ProntuarioEntry struct {
	ID        string            `db:"id" json:"id"`
	PatientID string            `db:"patient_id" json:"patient_id"`
	Date      string            `db:"date" json:"date"`
	Dentist   string            `db:"dentist" json:"dentist"`
	Procedure string            `db:"procedure" json:"procedure"`
	Notes     string            `db:"notes" json:"notes"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	Files     []*ProntuarioFile `db:"-" json:"prontuario_files"`
}

// ProntuarioFile is an attachment stored under patientId/entryId/fileName.
type ProntuarioFile struct {
	ID          string    `db:"id" json:"id"`
	EntryID     string    `db:"entry_id" json:"entry_id"`
	FileName    string    `db:"file_name" json:"file_name"`
	StoragePath string    `db:"storage_path" json:"storage_path"`
	FileType    string    `db:"file_type" json:"file_type"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type ProntuarioRequest struct {
	Date          string `form:"date" json:"date" binding:"omitempty,datetime=2006-01-02"`
	Dentist       string `form:"dentist" json:"dentist"`
	ProcedureID   string `form:"procedure_id" json:"procedure_id"`
	ProcedureName string `form:"procedure_name" json:"procedure_name"`
	Notes         string `form:"notes" json:"notes"`
}
