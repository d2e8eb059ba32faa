package callback

import (
	"context"
	"time"
)

type Kind string

const (
	KindDeposit Kind = "deposit"
	KindPayout  Kind = "payout"
)

// Event is the raw payload of an aggregator callback as it was received.
type Event struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"id"`
	Kind       Kind      `gorm:"size:16;not null" json:"kind"`
	ExternalID string    `gorm:"size:64;not null;index:idx_callback_events_external" json:"external_id"`
	Status     string    `gorm:"size:32" json:"status"`
	Payload    string    `gorm:"type:text" json:"payload"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Event) TableName() string { return "callback_events" }

type Repository interface {
	Create(ctx context.Context, e *Event) error
	ListByExternalID(ctx context.Context, externalID string) ([]Event, error)
}
