package notify

import (
	"context"

	"github.com/ZanzyTHEbar/gallery-go/internal"
	"github.com/ZanzyTHEbar/gallery-go/services"
)

// LogSink records notifications in the application log
type LogSink struct {
	logger *internal.Logger
}

// NewLogSink creates a log sink; a nil logger uses the global logger
func NewLogSink(logger *internal.Logger) *LogSink {
	if logger == nil {
		logger = internal.GetLogger()
	}
	return &LogSink{logger: logger}
}

// Notify implements services.Notifier
func (s *LogSink) Notify(_ context.Context, n services.Notification) error {
	if n.Severity == services.SeverityError {
		s.logger.Warn(internal.ComponentNotify, "[%s %s] %s (%s)", n.Resource, n.Operation, n.Message, n.ID)
		return nil
	}
	s.logger.Info(internal.ComponentNotify, "[%s %s] %s (%s)", n.Resource, n.Operation, n.Message, n.ID)
	return nil
}
