// Package messaging mirrors user identities into the external chat/video
// provider. Upserts are best effort: they never fail the request that
// triggered them.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Identity is what the provider needs to know about a user.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// IdentitySyncer performs a single upsert against the provider.
type IdentitySyncer interface {
	UpsertUser(ctx context.Context, identity Identity) error
}

// IdentityPublisher accepts identities for asynchronous upsert. Submit never
// blocks on the provider and never reports failure to the caller.
type IdentityPublisher interface {
	Submit(identity Identity)
}

// ConnectNATS dials the NATS server at url.
func ConnectNATS(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Name("language-exchange-api"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logrus.WithField("url", url).Info("Connected to NATS")
	return nc, nil
}

// NATSSyncer publishes identities on a subject consumed by the provider bridge.
type NATSSyncer struct {
	conn    *nats.Conn
	subject string
}

func NewNATSSyncer(conn *nats.Conn, subject string) *NATSSyncer {
	return &NATSSyncer{conn: conn, subject: subject}
}

func (s *NATSSyncer) UpsertUser(ctx context.Context, identity Identity) error {
	if s.conn == nil || !s.conn.IsConnected() {
		return nats.ErrConnectionClosed
	}

	payload, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}
	if err := s.conn.Publish(s.subject, payload); err != nil {
		return fmt.Errorf("failed to publish identity to %s: %w", s.subject, err)
	}
	// Flush so a dead server surfaces as an error here rather than silently.
	if err := s.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush identity to %s: %w", s.subject, err)
	}

	logrus.WithFields(logrus.Fields{
		"userID":  identity.ID,
		"subject": s.subject,
	}).Debug("Identity published")
	return nil
}

// NoopSyncer is used when no provider transport is configured.
type NoopSyncer struct{}

func (NoopSyncer) UpsertUser(_ context.Context, identity Identity) error {
	logrus.WithField("userID", identity.ID).Debug("Provider disabled, skipping identity upsert")
	return nil
}

// Instrumented reports the result of every upsert ("ok" or "failed") to record.
type Instrumented struct {
	next   IdentitySyncer
	record func(result string)
}

func Instrument(next IdentitySyncer, record func(result string)) *Instrumented {
	return &Instrumented{next: next, record: record}
}

func (i *Instrumented) UpsertUser(ctx context.Context, identity Identity) error {
	err := i.next.UpsertUser(ctx, identity)
	if err != nil {
		i.record("failed")
	} else {
		i.record("ok")
	}
	return err
}
