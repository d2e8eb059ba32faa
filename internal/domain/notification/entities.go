package notification

import (
	"context"
	"time"
)

// Notification is a log line shown to a user after a status change.
type Notification struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"id"`
	UserID    string    `gorm:"size:64;not null;index:idx_notifications_user" json:"user_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUserID(ctx context.Context, userID string, limit int) ([]Notification, error)
}

// Notifier records a message for a user. Implementations must not fail the caller.
type Notifier interface {
	Notify(ctx context.Context, userID, message string)
}
