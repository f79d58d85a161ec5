package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/gallery-go/internal"
	"github.com/ZanzyTHEbar/gallery-go/services"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher is the part of *nats.Conn the sink depends on
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSSink publishes notifications as JSON on "{subject}.{resource}.{severity}"
type NATSSink struct {
	pub     Publisher
	subject string
	logger  *internal.Logger
}

// NewNATSSink creates a sink publishing below subject
func NewNATSSink(pub Publisher, subject string, logger *internal.Logger) *NATSSink {
	if logger == nil {
		logger = internal.GetLogger()
	}
	return &NATSSink{pub: pub, subject: subject, logger: logger}
}

// Subject returns the subject a notification is published on
func (s *NATSSink) Subject(n services.Notification) string {
	subject := s.subject
	if n.Resource != "" {
		subject += "." + n.Resource
	}
	return subject + "." + string(n.Severity)
}

// Notify implements services.Notifier
func (s *NATSSink) Notify(_ context.Context, n services.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	subject := s.Subject(n)
	if err := s.pub.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish notification on %s: %w", subject, err)
	}
	s.logger.Debug(internal.ComponentNotify, "Published notification %s on %s", n.ID, subject)
	return nil
}

// Close flushes and closes the underlying connection when it is a *nats.Conn
func (s *NATSSink) Close() error {
	conn, ok := s.pub.(*nats.Conn)
	if !ok || conn == nil {
		return nil
	}
	err := conn.FlushTimeout(2 * time.Second)
	conn.Close()
	if err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
		return fmt.Errorf("failed to flush NATS connection: %w", err)
	}
	return nil
}

// ConnectNATS opens a NATS connection for the notification sink
func ConnectNATS(cfg internal.NATSConfig, logger *internal.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = internal.GetLogger()
	}
	if cfg.URL == "" {
		return nil, errors.New("nats url is required")
	}

	opts := []nats.Option{
		nats.Name(internal.DefaultAppName + "-notifications"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			logger.Error(internal.ComponentNotify, "NATS error: %v", err)
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn(internal.ComponentNotify, "Disconnected from NATS server: %v", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info(internal.ComponentNotify, "Reconnected to NATS server")
		}),
	}
	opts = append(opts, ApplyNATSAuthOptions(cfg.Username, cfg.Password, cfg.Token, logger)...)

	logger.Debug(internal.ComponentNotify, "Connecting to NATS at %s", cfg.URL)
	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}

// ApplyNATSAuthOptions returns the authentication options for the given credentials.
// Username and password take precedence over a token.
func ApplyNATSAuthOptions(username, password, token string, logger *internal.Logger) []nats.Option {
	if logger == nil {
		logger = internal.GetLogger()
	}
	opts := []nats.Option{}
	if username != "" && password != "" {
		opts = append(opts, nats.UserInfo(username, password))
		logger.Debug(internal.ComponentNotify, "Using username/password authentication for NATS")
	} else if token != "" {
		opts = append(opts, nats.Token(token))
		logger.Debug(internal.ComponentNotify, "Using token authentication for NATS")
	} else {
		logger.Debug(internal.ComponentNotify, "No authentication provided for NATS connection")
	}
	return opts
}

// EnsureStream creates or updates a JetStream stream capturing every
// notification subject below subject, so notifications outlive the process.
func EnsureStream(ctx context.Context, conn *nats.Conn, name, subject string, logger *internal.Logger) error {
	if logger == nil {
		logger = internal.GetLogger()
	}
	js, err := jetstream.New(conn)
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      name,
		Subjects:  []string{subject + ".>"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", name, err)
	}
	logger.Info(internal.ComponentNotify, "Notifications are retained in stream %s", stream.CachedInfo().Config.Name)
	return nil
}
