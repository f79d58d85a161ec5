package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/ZanzyTHEbar/gallery-go/services"
	"github.com/fatih/color"
)

// ConsoleSink prints notifications as coloured single lines
type ConsoleSink struct {
	mu      sync.Mutex
	w       io.Writer
	success *color.Color
	failure *color.Color
}

// NewConsoleSink creates a console sink writing to w
func NewConsoleSink(w io.Writer, noColor bool) *ConsoleSink {
	success := color.New(color.FgGreen, color.Bold)
	failure := color.New(color.FgRed, color.Bold)
	if noColor {
		success.DisableColor()
		failure.DisableColor()
	}
	return &ConsoleSink{w: w, success: success, failure: failure}
}

// Notify implements services.Notifier
func (s *ConsoleSink) Notify(_ context.Context, n services.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch n.Severity {
	case services.SeverityError:
		_, err = s.failure.Fprintf(s.w, "✖ %s\n", n.Message)
	default:
		_, err = s.success.Fprintf(s.w, "✔ %s\n", n.Message)
	}
	if err != nil {
		return fmt.Errorf("failed to write notification: %w", err)
	}
	return nil
}
