// Package events publishes customer change notifications.
package events

import (
	"context"
	"time"

	"customer-manager/internal/domain"
)

// Type is the routing key of a change event.
type Type string

const (
	CustomerCreated Type = "customer.created"
	CustomerUpdated Type = "customer.updated"
	CustomerDeleted Type = "customer.deleted"
)

// Event describes one committed change to a customer.
type Event struct {
	Type       Type            `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Customer   domain.Customer `json:"customer"`
}

// New stamps an event for c.
func New(t Type, c domain.Customer) Event {
	return Event{Type: t, OccurredAt: time.Now().UTC(), Customer: c}
}

// Publisher delivers events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
