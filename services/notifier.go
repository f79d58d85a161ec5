package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Severity classifies a notification
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification reports the outcome of a mutation to the user
type Notification struct {
	ID        string    `json:"id"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	Resource  string    `json:"resource"`
	Operation string    `json:"operation"`
	Time      time.Time `json:"time"`
}

// NewNotification stamps a notification with an ID and the current time
func NewNotification(severity Severity, message, resource, operation string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Severity:  severity,
		Message:   message,
		Resource:  resource,
		Operation: operation,
		Time:      time.Now().UTC(),
	}
}

// Notifier delivers notifications to the user
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, n Notification) error

// Notify calls f
func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// Notifiers delivers to every sink in order and combines their errors
type Notifiers []Notifier

// Notify implements Notifier
func (ns Notifiers) Notify(ctx context.Context, n Notification) error {
	var err error
	for _, sink := range ns {
		if sink == nil {
			continue
		}
		err = multierr.Append(err, sink.Notify(ctx, n))
	}
	return err
}
