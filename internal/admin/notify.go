package admin

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Severity classifies a notification.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// DefaultToastDuration is how long a notification stays visible unless the
// caller says otherwise.
const DefaultToastDuration = 3 * time.Second

// Notification is a short user-facing message.
type Notification struct {
	Title       string
	Description string
	Severity    Severity
	Duration    time.Duration
}

// Notifier receives notifications. Notify must not block.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to a logger. It stands in for the UI
// when none is attached.
type LogNotifier struct {
	Log logrus.FieldLogger
}

// Notify logs n at a level matching its severity.
func (l LogNotifier) Notify(n Notification) {
	if l.Log == nil {
		return
	}
	entry := l.Log.WithFields(logrus.Fields{
		"title":    n.Title,
		"severity": n.Severity.String(),
	})
	if n.Severity == SeverityError {
		entry.Warn(n.Description)
		return
	}
	entry.Info(n.Description)
}

// RefreshFailed returns a store error hook that reports failed list
// refreshes through n.
func RefreshFailed(n Notifier, d time.Duration) func(error) {
	if d <= 0 {
		d = DefaultToastDuration
	}
	return func(error) {
		n.Notify(Notification{
			Title:       "Something went wrong",
			Description: "Unable to fetch products",
			Severity:    SeverityError,
			Duration:    d,
		})
	}
}

// Confirmer asks the operator a yes/no question and waits for the answer.
// A cancelled context counts as no.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm calls f(ctx, prompt).
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }
