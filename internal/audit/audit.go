// Package audit publishes confirmed catalog actions to NATS so other
// systems can follow what operators changed.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/agentstation/catalogadmin/pkg/confirm"
	"github.com/agentstation/catalogadmin/pkg/constants"
	"github.com/agentstation/catalogadmin/pkg/errors"
	"github.com/agentstation/catalogadmin/pkg/logging"
	"github.com/agentstation/catalogadmin/pkg/products"
)

// Conn is the part of a NATS connection the publisher needs. *nats.Conn
// satisfies it.
type Conn interface {
	Publish(subject string, data []byte) error
}

// Event is the message published for every confirmed action.
type Event struct {
	ID        string          `json:"id"`
	RequestID string          `json:"request_id,omitempty"`
	Action    confirm.Kind    `json:"action"`
	ProductID int             `json:"product_id,omitempty"`
	Entry     *products.Entry `json:"entry,omitempty"`
	Changed   []string        `json:"changed,omitempty"`
	Success   bool            `json:"success"`
	Error     string          `json:"error,omitempty"`
	At        time.Time       `json:"at"`
}

// NewEvent builds the event for a confirmed outcome.
func NewEvent(ctx context.Context, o confirm.Outcome) Event {
	ev := Event{
		ID:        uuid.NewString(),
		RequestID: logging.RequestID(ctx),
		Action:    o.Action.Kind(),
		ProductID: o.Action.Target(),
		Success:   o.Err == nil,
		At:        o.At.UTC(),
	}
	if o.Err != nil {
		ev.Error = o.Err.Error()
	} else {
		entry := o.Entry
		ev.Entry = &entry
		ev.ProductID = entry.ID
	}
	if edit, ok := o.Action.(confirm.Edit); ok {
		ev.Changed = edit.Changes.Changed()
	}
	return ev
}

// Publisher sends events to a subject. It implements confirm.Recorder.
type Publisher struct {
	conn    Conn
	subject string
}

// NewPublisher publishes on subject, or the default subject when empty.
func NewPublisher(conn Conn, subject string) *Publisher {
	if subject == "" {
		subject = constants.DefaultAuditSubject
	}
	return &Publisher{conn: conn, subject: subject}
}

// Subject returns the subject events go to.
func (p *Publisher) Subject() string {
	return p.subject
}

// Record implements confirm.Recorder.
func (p *Publisher) Record(ctx context.Context, o confirm.Outcome) error {
	return p.Publish(NewEvent(ctx, o))
}

// Publish encodes ev as JSON and sends it.
func (p *Publisher) Publish(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return errors.WrapParse("json", "audit event", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return errors.WrapResource("publish", "audit event", ev.ID, err)
	}
	return nil
}

// Nop discards every outcome. It is used when no NATS URL is configured.
type Nop struct{}

// Record implements confirm.Recorder.
func (Nop) Record(context.Context, confirm.Outcome) error { return nil }

// Connect dials NATS and returns a publisher together with a function that
// drains and closes the connection.
func Connect(url, subject string) (*Publisher, func(), error) {
	nc, err := nats.Connect(url, nats.Name(constants.AppName))
	if err != nil {
		return nil, nil, errors.WrapResource("connect", "nats", url, err)
	}
	closeFn := func() {
		if err := nc.Drain(); err != nil {
			nc.Close()
		}
	}
	return NewPublisher(nc, subject), closeFn, nil
}
