package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type names an inventory event.
type Type string

const (
	ImportCompleted Type = "import.completed"
	StockAdjusted   Type = "stock.adjusted"
	SnapshotCreated Type = "snapshot.created"
	SnapshotDeleted Type = "snapshot.deleted"
)

// Event is one published inventory event.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	// Key orders events of the same entity on one partition.
	Key     string `json:"key"`
	Payload any    `json:"payload"`
}

// New builds an event with a fresh id.
func New(t Type, key string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		Key:        key,
		Payload:    payload,
	}
}

// Publisher sends inventory events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
