package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/gallery-go/internal"
	"github.com/anthdm/hollywood/actor"
)

// DefaultDeliveryTimeout bounds a single fan-out to the sinks
const DefaultDeliveryTimeout = 5 * time.Second

// deliverMsg asks the dispatcher actor to fan a notification out
type deliverMsg struct {
	notification Notification
}

// StatusRequestMsg is a message requesting the dispatcher statistics
type StatusRequestMsg struct{}

// StatusResponseMsg is the response to a status request. It is produced after
// every notification queued before the request has been delivered.
type StatusResponseMsg struct {
	Delivered  int
	Failed     int
	LastError  error
	LastActive time.Time
}

// dispatcherActor owns the sinks; notifications are delivered one at a time
// in the order they were queued.
type dispatcherActor struct {
	sinks   Notifiers
	logger  *internal.Logger
	timeout time.Duration

	delivered  int
	failed     int
	lastError  error
	lastActive time.Time
}

// Receive implements the actor.Receiver interface
func (a *dispatcherActor) Receive(ctx *actor.Context) {
	switch msg := ctx.Message().(type) {
	case actor.Started:
		a.logger.Debug(internal.ComponentNotify, "Notification dispatcher started with %d sinks", len(a.sinks))

	case actor.Stopped:
		a.logger.Debug(internal.ComponentNotify, "Notification dispatcher stopped (%d delivered, %d failed)", a.delivered, a.failed)

	case deliverMsg:
		deliverCtx, cancel := context.WithTimeout(context.Background(), a.timeout)
		err := a.sinks.Notify(deliverCtx, msg.notification)
		cancel()

		a.lastActive = time.Now()
		if err != nil {
			a.failed++
			a.lastError = err
			a.logger.Warn(internal.ComponentNotify, "Failed to deliver notification %s: %v", msg.notification.ID, err)
			return
		}
		a.delivered++

	case StatusRequestMsg:
		ctx.Respond(StatusResponseMsg{
			Delivered:  a.delivered,
			Failed:     a.failed,
			LastError:  a.lastError,
			LastActive: a.lastActive,
		})
	}
}

// DispatcherConfig holds the configuration for a NotificationDispatcher
type DispatcherConfig struct {
	Sinks   []Notifier
	Logger  *internal.Logger
	Timeout time.Duration
}

// NotificationDispatcher is a Notifier that queues notifications on an actor
// and delivers them to every sink without blocking the caller.
type NotificationDispatcher struct {
	engine  *actor.Engine
	pid     *actor.PID
	logger  *internal.Logger
	timeout time.Duration
}

// NewNotificationDispatcher spawns the dispatcher actor
func NewNotificationDispatcher(config DispatcherConfig) (*NotificationDispatcher, error) {
	logger := config.Logger
	if logger == nil {
		logger = internal.GetLogger()
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultDeliveryTimeout
	}

	engine, err := actor.NewEngine(actor.NewEngineConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create actor engine: %w", err)
	}

	sinks := append(Notifiers{}, config.Sinks...)
	pid := engine.Spawn(func() actor.Receiver {
		return &dispatcherActor{sinks: sinks, logger: logger, timeout: timeout}
	}, "notification_dispatcher")

	return &NotificationDispatcher{
		engine:  engine,
		pid:     pid,
		logger:  logger,
		timeout: timeout,
	}, nil
}

// Notify queues n for delivery and returns immediately
func (d *NotificationDispatcher) Notify(_ context.Context, n Notification) error {
	d.engine.Send(d.pid, deliverMsg{notification: n})
	return nil
}

// Status waits for queued notifications and reports delivery statistics
func (d *NotificationDispatcher) Status() (StatusResponseMsg, error) {
	res, err := d.engine.Request(d.pid, StatusRequestMsg{}, d.timeout*4).Result()
	if err != nil {
		return StatusResponseMsg{}, fmt.Errorf("dispatcher status request failed: %w", err)
	}
	status, ok := res.(StatusResponseMsg)
	if !ok {
		return StatusResponseMsg{}, errors.New("unexpected dispatcher status response")
	}
	return status, nil
}

// Close delivers everything queued so far and stops the actor
func (d *NotificationDispatcher) Close() error {
	status, err := d.Status()
	<-d.engine.Poison(d.pid).Done()
	if err != nil {
		return err
	}
	if status.Failed > 0 {
		d.logger.Debug(internal.ComponentNotify, "%d notifications could not be delivered", status.Failed)
	}
	return nil
}
