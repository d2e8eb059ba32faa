package payout

import "context"

type Repository interface {
	Create(ctx context.Context, p *Payout) error
	Save(ctx context.Context, p *Payout) error
	GetByPayoutID(ctx context.Context, payoutID string) (*Payout, error)
	GetByPayoutIDForUpdate(ctx context.Context, payoutID string) (*Payout, error)
	// GetActiveByLoanID returns the loan's PENDING or COMPLETED payout, if any.
	GetActiveByLoanID(ctx context.Context, loanID string) (*Payout, error)
	ListByLoanID(ctx context.Context, loanID string) ([]Payout, error)
	// ListLiveByInvestmentID returns the PENDING and COMPLETED payouts of every
	// loan funded by the investment.
	ListLiveByInvestmentID(ctx context.Context, investmentID string) ([]Payout, error)
}
