package model

type DashboardStats struct {
	TodayAppointments int     `json:"today_appts"`
	TotalPatients     int     `json:"total_patients"`
	MonthRevenue      float64 `json:"month_revenue"`
	WeekAppointments  int     `json:"week_appts"`
}

type Dashboard struct {
	Date              string         `json:"date"`
	DateLabel         string         `json:"date_label"`
	Stats             DashboardStats `json:"stats"`
	MonthRevenueText  string         `json:"month_revenue_text"`
	TodayAppointments []*Appointment `json:"today_appointments"`
	AppointmentDates  []string       `json:"appointment_dates"`
}
