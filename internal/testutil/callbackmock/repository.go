package callbackmock

import (
	"context"

	domain "estack-backend/internal/domain/callback"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	CreateFn           func(ctx context.Context, e *domain.Event) error
	ListByExternalIDFn func(ctx context.Context, externalID string) ([]domain.Event, error)
}

func (m *Repo) Create(ctx context.Context, e *domain.Event) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}
func (m *Repo) ListByExternalID(ctx context.Context, externalID string) ([]domain.Event, error) {
	if m.ListByExternalIDFn != nil {
		return m.ListByExternalIDFn(ctx, externalID)
	}
	return nil, nil
}
