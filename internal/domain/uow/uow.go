package uow

import (
	"context"

	"estack-backend/internal/domain/callback"
	"estack-backend/internal/domain/loan"
	"estack-backend/internal/domain/notification"
	"estack-backend/internal/domain/payout"
	"estack-backend/internal/domain/transaction"
)

// Repos are bound to the same database transaction.
type Repos struct {
	Transactions  transaction.Repository
	Loans         loan.Repository
	Payouts       payout.Repository
	Notifications notification.Repository
	Callbacks     callback.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
