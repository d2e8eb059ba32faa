package notification

import (
	"context"
	"log"

	"estack-backend/internal/domain/notification"
)

// DefaultListLimit caps GET /users/:user_id/notifications.
const DefaultListLimit = 50

type Usecase struct{ repo notification.Repository }

func NewUsecase(r notification.Repository) *Usecase { return &Usecase{repo: r} }

var _ notification.Notifier = (*Usecase)(nil)

// Notify stores a message for the user. Errors are logged and swallowed.
func (u *Usecase) Notify(ctx context.Context, userID, message string) {
	if userID == "" || message == "" {
		return
	}
	n := &notification.Notification{UserID: userID, Message: message}
	if err := u.repo.Create(context.WithoutCancel(ctx), n); err != nil {
		log.Printf("notification: user=%s: %v", userID, err)
	}
}

func (u *Usecase) List(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	out, err := u.repo.ListByUserID(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []notification.Notification{}
	}
	return out, nil
}
