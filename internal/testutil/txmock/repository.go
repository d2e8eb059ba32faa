package txmock

import (
	"context"

	domain "estack-backend/internal/domain/transaction"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies transaction.Repository.
type Repo struct {
	CreateFn                  func(ctx context.Context, t *domain.Transaction) error
	SaveFn                    func(ctx context.Context, t *domain.Transaction) error
	GetByDepositIDFn          func(ctx context.Context, depositID string) (*domain.Transaction, error)
	GetByDepositIDForUpdateFn func(ctx context.Context, depositID string) (*domain.Transaction, error)
	ListByUserIDFn            func(ctx context.Context, userID string) ([]domain.Transaction, error)
}

func (m *Repo) Create(ctx context.Context, t *domain.Transaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}
func (m *Repo) Save(ctx context.Context, t *domain.Transaction) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, t)
	}
	return nil
}
func (m *Repo) GetByDepositID(ctx context.Context, depositID string) (*domain.Transaction, error) {
	if m.GetByDepositIDFn != nil {
		return m.GetByDepositIDFn(ctx, depositID)
	}
	return nil, context.Canceled
}
func (m *Repo) GetByDepositIDForUpdate(ctx context.Context, depositID string) (*domain.Transaction, error) {
	if m.GetByDepositIDForUpdateFn != nil {
		return m.GetByDepositIDForUpdateFn(ctx, depositID)
	}
	return nil, context.Canceled
}
func (m *Repo) ListByUserID(ctx context.Context, userID string) ([]domain.Transaction, error) {
	if m.ListByUserIDFn != nil {
		return m.ListByUserIDFn(ctx, userID)
	}
	return nil, nil
}
