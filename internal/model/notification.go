package model

// NotificationType is the wire name of a notification kind.
type NotificationType string

const (
	NotificationUpcoming NotificationType = "upcoming"
	NotificationSoon     NotificationType = "soon"
	NotificationInfo     NotificationType = "info"
	NotificationPayment  NotificationType = "payment"
)

// Notification is the rendered panel item. It is derived from today's
// appointments on every recompute and never stored. ID is the source
// appointment id.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Time      string           `json:"time"`
	Urgent    bool             `json:"urgent"`
	Patient   string           `json:"patient"`
	Procedure string           `json:"procedure"`
	Value     float64          `json:"value"`
	ValueText string           `json:"value_text,omitempty"`
}
