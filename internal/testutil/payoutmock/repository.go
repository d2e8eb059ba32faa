package payoutmock

import (
	"context"

	domain "estack-backend/internal/domain/payout"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	CreateFn                 func(ctx context.Context, p *domain.Payout) error
	SaveFn                   func(ctx context.Context, p *domain.Payout) error
	GetByPayoutIDFn          func(ctx context.Context, payoutID string) (*domain.Payout, error)
	GetByPayoutIDForUpdateFn func(ctx context.Context, payoutID string) (*domain.Payout, error)
	GetActiveByLoanIDFn      func(ctx context.Context, loanID string) (*domain.Payout, error)
	ListByLoanIDFn           func(ctx context.Context, loanID string) ([]domain.Payout, error)
	ListLiveByInvestmentIDFn func(ctx context.Context, investmentID string) ([]domain.Payout, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Payout) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}
func (m *Repo) Save(ctx context.Context, p *domain.Payout) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}
func (m *Repo) GetByPayoutID(ctx context.Context, payoutID string) (*domain.Payout, error) {
	if m.GetByPayoutIDFn != nil {
		return m.GetByPayoutIDFn(ctx, payoutID)
	}
	return nil, context.Canceled
}
func (m *Repo) GetByPayoutIDForUpdate(ctx context.Context, payoutID string) (*domain.Payout, error) {
	if m.GetByPayoutIDForUpdateFn != nil {
		return m.GetByPayoutIDForUpdateFn(ctx, payoutID)
	}
	return nil, context.Canceled
}
func (m *Repo) GetActiveByLoanID(ctx context.Context, loanID string) (*domain.Payout, error) {
	if m.GetActiveByLoanIDFn != nil {
		return m.GetActiveByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}
func (m *Repo) ListByLoanID(ctx context.Context, loanID string) ([]domain.Payout, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, nil
}
func (m *Repo) ListLiveByInvestmentID(ctx context.Context, investmentID string) ([]domain.Payout, error) {
	if m.ListLiveByInvestmentIDFn != nil {
		return m.ListLiveByInvestmentIDFn(ctx, investmentID)
	}
	return nil, nil
}
