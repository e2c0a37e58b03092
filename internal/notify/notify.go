// Package notify delivers transient user-visible notifications.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bobmcallan/cryptodash/internal/common"
	"github.com/bobmcallan/cryptodash/internal/interfaces"
	"github.com/bobmcallan/cryptodash/internal/models"
)

// New builds a notification stamped now. A zero duration means the default.
func New(severity models.Severity, message string, duration time.Duration) models.Notification {
	if duration <= 0 {
		duration = models.DefaultNotificationDuration
	}
	return models.Notification{Message: message, Severity: severity, Duration: duration, At: time.Now()}
}

// Success sends a success notification with the default duration.
func Success(n interfaces.Notifier, message string) {
	n.Notify(New(models.SeveritySuccess, message, 0))
}

// Error sends an error notification with the default duration.
func Error(n interfaces.Notifier, message string) {
	n.Notify(New(models.SeverityError, message, 0))
}

// Warning sends a warning notification with the default duration.
func Warning(n interfaces.Notifier, message string) {
	n.Notify(New(models.SeverityWarning, message, 0))
}

// Info sends an info notification with the default duration.
func Info(n interfaces.Notifier, message string) {
	n.Notify(New(models.SeverityInfo, message, 0))
}

var icons = map[models.Severity]string{
	models.SeveritySuccess: "✓",
	models.SeverityError:   "✕",
	models.SeverityWarning: "⚠",
	models.SeverityInfo:    "ℹ",
}

// Console prints each notification as one line and logs it.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	logger *common.Logger
}

// NewConsole returns a Console writing to out.
func NewConsole(out io.Writer, logger *common.Logger) *Console {
	return &Console{out: out, logger: logger}
}

func (c *Console) Notify(n models.Notification) {
	icon, ok := icons[n.Severity]
	if !ok {
		icon = icons[models.SeverityInfo]
	}

	c.mu.Lock()
	fmt.Fprintf(c.out, "%s %s\n", icon, n.Message)
	c.mu.Unlock()

	c.logger.Debug().
		Str("severity", string(n.Severity)).
		Dur("duration", n.Duration).
		Msg(n.Message)
}

// Recorder keeps notifications in memory until drained.
type Recorder struct {
	mu    sync.Mutex
	items []models.Notification
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(n models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of every recorded notification.
func (r *Recorder) All() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Drain returns and clears the recorded notifications.
func (r *Recorder) Drain() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.items
	r.items = nil
	return out
}

// Multi fans out to several notifiers.
type Multi []interfaces.Notifier

func (m Multi) Notify(n models.Notification) {
	for _, target := range m {
		if target != nil {
			target.Notify(n)
		}
	}
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(models.Notification) {}
