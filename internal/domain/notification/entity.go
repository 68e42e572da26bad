package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypePunchIn         NotificationType = "attendance_punch_in"
	TypePunchOut        NotificationType = "attendance_punch_out"
	TypeOpenPunchDigest NotificationType = "attendance_open_punch_digest"
)

// Event is what a notifier receives. It is fully populated before dispatch so
// tasks never touch the request context or the tenant store.
type Event struct {
	Type       NotificationType
	TenantCode string
	TenantName string

	EmployeeID    int64
	EmployeeName  string
	EmployeeEmail *string

	Action    string
	Timestamp time.Time
	Latitude  *float64
	Longitude *float64
	Subject   *string
	Message   string

	// OpenPunches lists the rows of a digest event.
	OpenPunches []OpenPunchEntry

	// Recipients for admin channels; empty means the configured defaults.
	TelegramChatIDs []string
	AdminEmails     []string
}

type OpenPunchEntry struct {
	EmployeeName string
	Mobile       string
	InTime       string
}

// Title is a one-line heading shared by the channels.
func (e Event) Title() string {
	switch e.Type {
	case TypePunchIn:
		return "Punch IN: " + e.EmployeeName
	case TypePunchOut:
		return "Punch OUT: " + e.EmployeeName
	case TypeOpenPunchDigest:
		return "No OUT punch report"
	}
	return string(e.Type)
}

// SSEEvent is the payload pushed to live dashboards.
type SSEEvent struct {
	Type       NotificationType `json:"type"`
	TenantCode string           `json:"company_code,omitempty"`
	EmployeeID int64            `json:"employee_id,omitempty"`
	Name       string           `json:"employee_name,omitempty"`
	Action     string           `json:"action,omitempty"`
	Timestamp  string           `json:"timestamp"`
	Latitude   *float64         `json:"latitude,omitempty"`
	Longitude  *float64         `json:"longitude,omitempty"`
	Message    string           `json:"message"`
}
