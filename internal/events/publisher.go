// Package events publishes domain change notifications to NATS.
//
// Subject convention: <prefix>.<entity>.<action>, e.g. backoffice.matter.created.
// Publishing is best-effort: errors are logged and never returned, so a NATS
// outage cannot fail a request whose database writes already committed.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	natsclient "github.com/pesio-ai/be-lit-backoffice/internal/common/nats"
)

// Action is the kind of change an event reports.
type Action string

const (
	ActionCreated     Action = "created"
	ActionUpdated     Action = "updated"
	ActionDeleted     Action = "deleted"
	ActionStaffLinked Action = "staff_linked"
)

// Event is the JSON document published for every committed mutation.
type Event struct {
	Entity     string         `json:"entity"`
	Action     Action         `json:"action"`
	ID         int64          `json:"id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

type sender interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// Publisher sends events to NATS. A nil Publisher, or one built without a
// client, drops every event.
type Publisher struct {
	send    sender
	prefix  string
	timeout time.Duration
	log     zerolog.Logger
	now     func() time.Time
}

// NewPublisher creates a publisher backed by nc. nc may be nil.
func NewPublisher(nc *natsclient.Client, prefix string, log zerolog.Logger) *Publisher {
	p := &Publisher{
		prefix:  prefix,
		timeout: 2 * time.Second,
		log:     log,
		now:     time.Now,
	}
	if nc != nil {
		p.send = nc
	}
	return p
}

// Subject returns the NATS subject for an entity action.
func Subject(prefix, entity string, action Action) string {
	return fmt.Sprintf("%s.%s.%s", prefix, entity, action)
}

// Publish emits ev. The request context only contributes its values; the
// publish gets its own deadline so a cancelled request still notifies.
func (p *Publisher) Publish(ctx context.Context, ev Event) {
	if p == nil || p.send == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = p.now().UTC()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn().Err(err).Str("entity", ev.Entity).Msg("events: failed to marshal event")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	subject := Subject(p.prefix, ev.Entity, ev.Action)
	if err := p.send.Publish(ctx, subject, data); err != nil {
		p.log.Warn().Err(err).
			Str("subject", subject).
			Int64("id", ev.ID).
			Msg("events: failed to publish NATS event (non-fatal)")
		return
	}

	p.log.Debug().
		Str("subject", subject).
		Int64("id", ev.ID).
		Msg("events: event published")
}
