// Package notify publishes build events to NATS so external consumers can
// react to watch-mode rebuilds.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// BuildEvent is the JSON payload published after every watch-mode build.
type BuildEvent struct {
	BuildID    string    `json:"build_id"`
	Timestamp  time.Time `json:"timestamp"`
	Success    bool      `json:"success"`
	FileCount  int       `json:"file_count,omitempty"`
	TotalSize  int64     `json:"total_size,omitempty"`
	TokenCount int       `json:"token_count,omitempty"`
	DurationMS int64     `json:"duration_ms,omitempty"`
	OutputPath string    `json:"output_path,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Publisher publishes build events to a NATS subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to the NATS server and returns a Publisher.
func NewPublisher(url, subject string) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("NATS publisher initialized",
		"url", url,
		"subject", subject)

	return &Publisher{conn: conn, subject: subject}, nil
}

// PublishBuild publishes one build event. Fire-and-forget: core NATS
// publishing has no acknowledgement.
func (p *Publisher) PublishBuild(event BuildEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal build event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish build event: %w", err)
	}

	slog.Debug("Published build event",
		"build_id", event.BuildID,
		"success", event.Success)
	return nil
}

// Close flushes and closes the NATS connection.
func (p *Publisher) Close() error {
	if p.conn != nil {
		_ = p.conn.Flush()
		p.conn.Close()
	}
	return nil
}
