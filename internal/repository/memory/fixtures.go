package memory

import (
	"time"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/pkg/format"
)

// DemoDentist books the fixed appointments of the current day.
const DemoDentist = "Dra. Ana Letícia"

func fixturePatients() []*model.Patient {
	created := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	return []*model.Patient{
		{ID: "p1", Name: "Ana Paula Ferreira", CPF: "123.456.789-00", Phone: "(31) 99876-5432", Email: "ana@email.com", Birthdate: "1990-05-15", BloodType: "A+", Allergies: "Penicilina", Notes: "Paciente pontual", CreatedAt: created("2025-01-10T10:00:00Z")},
		{ID: "p2", Name: "João Mendes", CPF: "987.654.321-00", Phone: "(31) 98765-4321", Email: "joao@email.com", Birthdate: "1985-08-22", BloodType: "O+", CreatedAt: created("2025-02-14T10:00:00Z")},
		{ID: "p3", Name: "Camila Rocha", CPF: "456.789.123-00", Phone: "(31) 91234-5678", Email: "camila@email.com", Birthdate: "1995-11-03", BloodType: "B-", Allergies: "Latex", Notes: "Ansiosa com procedimentos", CreatedAt: created("2025-03-01T10:00:00Z")},
		{ID: "p4", Name: "Roberto Santos", CPF: "321.654.987-00", Phone: "(31) 99999-1111", Email: "roberto@email.com", Birthdate: "1978-02-28", BloodType: "AB+", CreatedAt: created("2025-04-20T10:00:00Z")},
		{ID: "p5", Name: "Mariana Oliveira", CPF: "654.321.987-00", Phone: "(31) 98888-2222", Email: "mariana@email.com", Birthdate: "2000-07-12", BloodType: "O-", Allergies: "Dipirona", Notes: "Clareamento em andamento", CreatedAt: created("2025-06-15T10:00:00Z")},
	}
}

func fixtureProcedures() []*model.Procedure {
	return []*model.Procedure{
		{ID: "demo1", Name: "Avaliação odontológica", Value: 180},
		{ID: "demo2", Name: "Profilaxia (limpeza)", Value: 250},
		{ID: "demo3", Name: "Restaurações", Value: 300},
		{ID: "demo4", Name: "Atendimento infantil", Value: 200},
		{ID: "demo5", Name: "Cirurgias odontológicas", Value: 500},
		{ID: "demo6", Name: "Clareamento dental", Value: 800},
	}
}

// fixtureToday are the bookings shown for the current day.
func fixtureToday(today time.Time) []*model.Appointment {
	d := today.Format(format.DateLayout)
	return []*model.Appointment{
		{ID: "n1", PatientID: "p1", PatientName: "Ana Paula Ferreira", Date: d, Time: "08:00", Procedure: "Avaliação odontológica", Dentist: DemoDentist, Value: 180, Status: model.AppointmentStatusScheduled},
		{ID: "n2", PatientID: "p2", PatientName: "João Mendes", Date: d, Time: "09:00", Procedure: "Profilaxia (limpeza)", Dentist: DemoDentist, Value: 250, Status: model.AppointmentStatusScheduled},
		{ID: "n3", PatientID: "p3", PatientName: "Camila Rocha", Date: d, Time: "10:00", Procedure: "Restaurações", Dentist: DemoDentist, Value: 300, Status: model.AppointmentStatusScheduled},
	}
}

// fixtureTransactions are dated relative to today, newest first.
func fixtureTransactions(today time.Time) []*model.Transaction {
	ago := func(days int) string { return today.AddDate(0, 0, -days).Format(format.DateLayout) }
	return []*model.Transaction{
		{ID: "t1", Description: "Consulta Ana Paula", Type: model.TransactionIncome, Value: 250, Date: ago(0), Method: "Pix", Category: "Consulta"},
		{ID: "t2", Description: "Restauração João Mendes", Type: model.TransactionIncome, Value: 480, Date: ago(1), Method: "Cartão", Category: "Procedimento"},
		{ID: "t3", Description: "Material odontológico", Type: model.TransactionExpense, Value: 320, Date: ago(2), Method: "Boleto", Category: "Material"},
		{ID: "t4", Description: "Limpeza Camila Rocha", Type: model.TransactionIncome, Value: 180, Date: ago(3), Method: "Dinheiro", Category: "Consulta"},
		{ID: "t5", Description: "Canal Roberto Santos", Type: model.TransactionIncome, Value: 850, Date: ago(4), Method: "Pix", Category: "Procedimento"},
		{ID: "t6", Description: "Conta de luz", Type: model.TransactionExpense, Value: 450, Date: ago(5), Method: "Boleto", Category: "Aluguel"},
		{ID: "t7", Description: "Clareamento Mariana", Type: model.TransactionIncome, Value: 600, Date: ago(6), Method: "Cartão", Category: "Procedimento"},
		{ID: "t8", Description: "Assistente dental", Type: model.TransactionExpense, Value: 2800, Date: ago(9), Method: "TED", Category: "Funcionários"},
	}
}

func fixtureProntuario(today time.Time) ([]*model.ProntuarioEntry, []*model.ProntuarioFile) {
	entries := []*model.ProntuarioEntry{
		{ID: "e1", PatientID: "p1", Date: today.AddDate(0, 0, -4).Format(format.DateLayout), Dentist: "Dr. Carlos Silva", Procedure: "Limpeza e profilaxia", Notes: "Limpeza completa realizada. Gengivas saudáveis."},
		{ID: "e2", PatientID: "p1", Date: today.AddDate(0, 0, -40).Format(format.DateLayout), Dentist: "Dra. Fernanda Lima", Procedure: "Restauração", Notes: "Restauração no dente 36, resina composta."},
	}
	files := []*model.ProntuarioFile{
		{ID: "f1", EntryID: "e2", FileName: "raio-x-36.jpg", StoragePath: "p1/e2/raio-x-36.jpg", FileType: "image/jpeg"},
	}
	return entries, files
}
