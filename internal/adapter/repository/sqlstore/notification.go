package sqlstore

import (
	"context"

	"estack-backend/internal/domain/callback"
	"estack-backend/internal/domain/notification"

	"gorm.io/gorm"
)

type NotificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// ListByUserID returns newest first; limit <= 0 means no limit.
func (r *NotificationRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	var out []notification.Notification
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return out, q.Find(&out).Error
}

type CallbackRepository struct{ db *gorm.DB }

func NewCallbackRepository(db *gorm.DB) *CallbackRepository { return &CallbackRepository{db: db} }

func (r *CallbackRepository) Create(ctx context.Context, e *callback.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *CallbackRepository) ListByExternalID(ctx context.Context, externalID string) ([]callback.Event, error) {
	var out []callback.Event
	res := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
