package model

import (
	"strings"
	"time"
)

type Procedure struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Value     float64   `db:"value" json:"value"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (p *Procedure) Matches(term string) bool {
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(term))
}

// ProcedureRequest carries value as text, as typed into the form; anything
// unparseable is stored as zero.
type ProcedureRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
