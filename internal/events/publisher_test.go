package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	subjects []string
	payloads [][]byte
	deadline bool
	err      error
}

func (r *recorder) Publish(ctx context.Context, subject string, data []byte) error {
	_, r.deadline = ctx.Deadline()
	r.subjects = append(r.subjects, subject)
	r.payloads = append(r.payloads, data)
	return r.err
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "backoffice.matter.created", Subject("backoffice", "matter", ActionCreated))
	assert.Equal(t, "backoffice.client.staff_linked", Subject("backoffice", "client", ActionStaffLinked))
}

func TestPublisher_Publish(t *testing.T) {
	rec := &recorder{}
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &Publisher{send: rec, prefix: "backoffice", timeout: time.Second, log: zerolog.Nop(), now: func() time.Time { return fixed }}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Publish(ctx, Event{Entity: "invoice", Action: ActionUpdated, ID: 7, Payload: map[string]any{"status": "PAID"}})

	require.Len(t, rec.subjects, 1)
	assert.Equal(t, "backoffice.invoice.updated", rec.subjects[0])
	assert.True(t, rec.deadline)

	var got Event
	require.NoError(t, json.Unmarshal(rec.payloads[0], &got))
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, fixed, got.OccurredAt)
	assert.Equal(t, "PAID", got.Payload["status"])
}

func TestPublisher_FailuresAreSwallowed(t *testing.T) {
	rec := &recorder{err: errors.New("nats down")}
	p := &Publisher{send: rec, prefix: "backoffice", timeout: time.Second, log: zerolog.Nop(), now: time.Now}

	assert.NotPanics(t, func() {
		p.Publish(context.Background(), Event{Entity: "task", Action: ActionDeleted, ID: 1})
	})
	assert.Len(t, rec.subjects, 1)
}

func TestPublisher_NilIsNoop(t *testing.T) {
	var p *Publisher
	assert.NotPanics(t, func() { p.Publish(context.Background(), Event{Entity: "task"}) })

	p = NewPublisher(nil, "backoffice", zerolog.Nop())
	assert.NotPanics(t, func() { p.Publish(context.Background(), Event{Entity: "task"}) })
}
