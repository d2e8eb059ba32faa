package notificationmock

import (
	"context"
	"sync"

	domain "estack-backend/internal/domain/notification"
)

var (
	_ domain.Repository = (*Repo)(nil)
	_ domain.Notifier   = (*Recorder)(nil)
)

type Repo struct {
	CreateFn       func(ctx context.Context, n *domain.Notification) error
	ListByUserIDFn func(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
}

func (m *Repo) Create(ctx context.Context, n *domain.Notification) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, n)
	}
	return nil
}
func (m *Repo) ListByUserID(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if m.ListByUserIDFn != nil {
		return m.ListByUserIDFn(ctx, userID, limit)
	}
	return nil, nil
}

// Recorder is a Notifier that keeps every message it was given.
type Recorder struct {
	mu   sync.Mutex
	Sent []domain.Notification
}

func (r *Recorder) Notify(_ context.Context, userID, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sent = append(r.Sent, domain.Notification{UserID: userID, Message: message})
}

func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Sent))
	for _, n := range r.Sent {
		out = append(out, n.Message)
	}
	return out
}
