package memory

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/pkg/format"
)

var (
	demoNames = []string{
		"Ana Paula", "João Mendes", "Camila Rocha", "Roberto Santos",
		"Mariana Oliveira", "Pedro Lima", "Fernanda Costa", "Lucas Silva",
	}
	demoProcedures = []string{
		"Limpeza e profilaxia", "Restauração", "Consulta inicial", "Canal",
		"Clareamento", "Avaliação", "Extração", "Ajuste ortodôntico",
	}
	demoPrices = map[string]float64{
		"Limpeza e profilaxia": 250,
		"Restauração":          300,
		"Consulta inicial":     180,
		"Canal":                850,
		"Clareamento":          800,
		"Avaliação":            180,
		"Extração":             500,
		"Ajuste ortodôntico":   200,
	}
	demoDentists = []string{"Dr. Carlos Silva", "Dra. Fernanda Lima", "Dr. Pedro Alves"}
	// agendado and confirmado are listed twice so they come up more often.
	demoStatuses = []model.AppointmentStatus{
		model.AppointmentStatusScheduled,
		model.AppointmentStatusConfirmed,
		model.AppointmentStatusCompleted,
		model.AppointmentStatusScheduled,
		model.AppointmentStatusConfirmed,
	}
)

// Generator fabricates a plausible working week of appointments.
type Generator struct {
	rng      *rand.Rand
	patients []*model.Patient
}

func NewGenerator(rng *rand.Rand, patients []*model.Patient) *Generator {
	return &Generator{rng: rng, patients: patients}
}

// Week returns appointments for Monday through Friday of the week starting at
// weekStart (a Sunday): 2 to 4 per day, each on a distinct slot. taken reports
// slots already occupied on a date, which the generator avoids.
func (g *Generator) Week(weekStart time.Time, taken func(date, slot string) bool) []*model.Appointment {
	var out []*model.Appointment
	for day := 1; day <= 5; day++ {
		date := weekStart.AddDate(0, 0, day).Format(format.DateLayout)

		free := make([]string, 0, len(model.TimeSlots))
		for _, s := range model.TimeSlots {
			if taken == nil || !taken(date, s) {
				free = append(free, s)
			}
		}

		n := 2 + g.rng.IntN(3)
		if n > len(free) {
			n = len(free)
		}
		g.rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

		for i := 0; i < n; i++ {
			proc := demoProcedures[g.rng.IntN(len(demoProcedures))]
			name := demoNames[g.rng.IntN(len(demoNames))]
			a := &model.Appointment{
				ID:          fmt.Sprintf("demo-%s-%d", date, i),
				Date:        date,
				Time:        free[i],
				Procedure:   proc,
				Dentist:     demoDentists[g.rng.IntN(len(demoDentists))],
				Status:      demoStatuses[g.rng.IntN(len(demoStatuses))],
				Value:       demoPrices[proc],
				PatientName: name,
			}
			if p := g.patientFor(name); p != nil {
				a.PatientID = p.ID
				a.PatientName = p.Name
			}
			out = append(out, a)
		}
	}
	return out
}

// patientFor links a generated short name to a fixture patient when one
// carries that name as a prefix.
func (g *Generator) patientFor(name string) *model.Patient {
	for _, p := range g.patients {
		if strings.HasPrefix(p.Name, name) {
			return p
		}
	}
	return nil
}
