package models

import "time"

// Severity classifies a user-visible notification
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// DefaultNotificationDuration is the display time when none is given.
const DefaultNotificationDuration = 3 * time.Second

// Notification is a transient, auto-dismissing message. Not persisted.
type Notification struct {
	Message  string        `json:"message"`
	Severity Severity      `json:"severity"`
	Duration time.Duration `json:"duration"`
	At       time.Time     `json:"at"`
}
