// Package notify tells downstream consumers which artifacts changed, so they can
// rebuild only when graphql2js actually wrote something.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	ferrors "git.home.luguber.info/inful/graphql2js/internal/foundation/errors"
	"git.home.luguber.info/inful/graphql2js/internal/logfields"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "graphql2js.artifacts"

// Event describes one changed artifact.
type Event struct {
	Source    string    `json:"source"`
	Output    string    `json:"output"`
	State     string    `json:"state"`
	RunID     string    `json:"run_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier receives an event for every source whose artifacts changed.
type Notifier interface {
	ArtifactChanged(ctx context.Context, ev Event) error
	Close() error
}

// Noop discards events.
type Noop struct{}

func (Noop) ArtifactChanged(context.Context, Event) error { return nil }
func (Noop) Close() error                                 { return nil }

// publisher is the subset of *nats.Conn the notifier needs.
type publisher interface {
	Publish(subj string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSNotifier publishes events as JSON on a NATS subject.
type NATSNotifier struct {
	conn    publisher
	subject string
	logger  *slog.Logger
	now     func() time.Time
}

// NewNATSNotifier connects to url and publishes on subject.
func NewNATSNotifier(url, subject string) (*NATSNotifier, error) {
	conn, err := nats.Connect(url, nats.Name("graphql2js"), nats.Timeout(5*time.Second))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "connect to NATS").
			WithContext("url", url).Fatal().Build()
	}
	slog.Info("NATS notifier connected", "url", url, "subject", subjectOrDefault(subject))
	return newNATSNotifier(conn, subject), nil
}

func newNATSNotifier(conn publisher, subject string) *NATSNotifier {
	return &NATSNotifier{
		conn:    conn,
		subject: subjectOrDefault(subject),
		logger:  slog.Default(),
		now:     time.Now,
	}
}

// WithLogger sets the logger.
func (n *NATSNotifier) WithLogger(logger *slog.Logger) *NATSNotifier {
	if logger != nil {
		n.logger = logger
	}
	return n
}

func subjectOrDefault(subject string) string {
	if subject == "" {
		return DefaultSubject
	}
	return subject
}

// ArtifactChanged publishes ev and waits for the server to acknowledge the flush.
func (n *NATSNotifier) ArtifactChanged(ctx context.Context, ev Event) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = n.now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNotify, "marshal change event").Build()
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNotify, "publish change event").
			WithContext("subject", n.subject).Build()
	}

	flushCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := n.conn.FlushWithContext(flushCtx); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNotify, "flush change event").
			WithContext("subject", n.subject).Build()
	}
	n.logger.Debug("Published change event", logfields.Path(ev.Source), logfields.State(ev.State))
	return nil
}

// Close closes the connection.
func (n *NATSNotifier) Close() error {
	n.conn.Close()
	return nil
}
