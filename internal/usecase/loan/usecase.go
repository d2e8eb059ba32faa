package loan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"estack-backend/internal/domain/aggregator"
	"estack-backend/internal/domain/loan"
	"estack-backend/internal/domain/notification"
	"estack-backend/internal/domain/payout"
	"estack-backend/internal/domain/transaction"
	"estack-backend/internal/domain/uow"
	payoutuc "estack-backend/internal/usecase/payout"
	"estack-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Usecase struct {
	repo     loan.Repository
	uow      uow.UnitOfWork
	gw       aggregator.Gateway
	notifier notification.Notifier
	now      func() time.Time
}

func NewUsecase(r loan.Repository, tx uow.UnitOfWork, gw aggregator.Gateway, n notification.Notifier) *Usecase {
	return &Usecase{repo: r, uow: tx, gw: gw, notifier: n, now: time.Now}
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return loan.ErrNotFound
	}
	return err
}

// lendable checks that a settled investment can fund amount on top of what
// is already committed to other loans.
func lendable(inv *transaction.Transaction, amount, committed decimal.Decimal) error {
	if inv.Status != transaction.StatusCompleted && inv.Status != transaction.StatusLoanedOut {
		return fmt.Errorf("%w: investment %s is %s", transaction.ErrNotLendable, inv.DepositID, inv.Status)
	}
	if available := inv.Amount.Sub(committed); available.LessThan(amount) {
		return fmt.Errorf("%w: investment %s has %s of %s available, loan needs %s",
			transaction.ErrNotLendable, inv.DepositID, available, inv.Amount, amount)
	}
	return nil
}

// checkFunding locks the investment and checks it against every live payout
// of the loans it funds. Concurrent disbursements against one investment
// serialise on that lock.
func checkFunding(ctx context.Context, r uow.Repos, investmentID string, amount decimal.Decimal) error {
	inv, err := r.Transactions.GetByDepositIDForUpdate(ctx, investmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transaction.ErrNotFound
		}
		return err
	}
	live, err := r.Payouts.ListLiveByInvestmentID(ctx, investmentID)
	if err != nil {
		return err
	}
	committed := decimal.Zero
	for _, p := range live {
		committed = committed.Add(p.Amount)
	}
	return lendable(inv, amount, committed)
}

func (u *Usecase) Request(ctx context.Context, in RequestLoanInput) (*LoanDTO, error) {
	if !in.Amount.IsPositive() {
		return nil, loan.ErrInvalidAmount
	}
	if in.InterestRate.IsNegative() || in.InterestRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, loan.ErrInvalidRate
	}
	due, err := time.Parse(dateLayout, in.ExpectedReturnDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", loan.ErrInvalidReturnDate, in.ExpectedReturnDate)
	}
	today := u.now().UTC().Truncate(24 * time.Hour)
	if due.Before(today) {
		return nil, loan.ErrInvalidReturnDate
	}

	now := u.now().UTC()
	borrower := in.UserID
	l := &loan.Loan{
		LoanID:             id.NewID32(),
		UserID:             in.UserID,
		PendingUserID:      &borrower,
		InvestmentID:       in.InvestmentID,
		Amount:             in.Amount,
		Interest:           in.Amount.Mul(in.InterestRate).Round(2),
		Balance:            decimal.Zero,
		Currency:           in.Currency,
		PhoneNumber:        in.PhoneNumber,
		Provider:           in.Provider,
		Status:             loan.StatusPending,
		ExpectedReturnDate: due,
		StateUpdatedAt:     now,
	}
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		// Block if the borrower already has a pending loan.
		pending, err := r.Loans.GetPendingLoanByUserID(ctx, in.UserID)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s", loan.ErrPendingExists, pending.LoanID)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if in.InvestmentID != "" {
			if err := checkFunding(ctx, r, in.InvestmentID, in.Amount); err != nil {
				return err
			}
		}

		// the pending_user_id unique index catches a concurrent request
		// that passed the check above
		if err := r.Loans.Create(ctx, l); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return loan.ErrPendingExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToDTO(l), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return ToDTO(l), nil
}

func (u *Usecase) ListByUser(ctx context.Context, userID string) ([]*LoanDTO, error) {
	ls, err := u.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, ToDTO(&ls[i]))
	}
	return out, nil
}

// Approve moves a PENDING loan to APPROVED and records who approved it.
func (u *Usecase) Approve(ctx context.Context, loanID, approverID string) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if l.Status == loan.StatusApproved {
			return loan.ErrAlreadyApproved
		}
		if err := l.Transition(loan.StatusApproved, u.now()); err != nil {
			return err
		}
		l.ApproverID = approverID
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = ToDTO(l)
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err)
	}
	u.notifier.Notify(ctx, dto.UserID, fmt.Sprintf("Your loan %s of %s %s has been approved.", dto.LoanID, dto.Amount.StringFixed(2), dto.Currency))
	return dto, nil
}

// Reject moves a PENDING loan to REJECTED.
func (u *Usecase) Reject(ctx context.Context, loanID, approverID, reason string) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := l.Transition(loan.StatusRejected, u.now()); err != nil {
			return err
		}
		l.ApproverID = approverID
		l.RejectionReason = reason
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = ToDTO(l)
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err)
	}
	msg := fmt.Sprintf("Your loan %s has been rejected.", dto.LoanID)
	if reason != "" {
		msg += " Reason: " + reason
	}
	u.notifier.Notify(ctx, dto.UserID, msg)
	return dto, nil
}

// Disburse creates a PENDING payout for an APPROVED loan and sends it to the
// aggregator. The loan itself becomes DISBURSED once the payout completes.
// When the aggregator cannot be reached the payout is returned together with
// an error wrapping aggregator.ErrUnavailable.
func (u *Usecase) Disburse(ctx context.Context, loanID string) (*payoutuc.PayoutDTO, error) {
	var (
		p        *payout.Payout
		borrower string
	)
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		switch l.Status {
		case loan.StatusApproved:
		case loan.StatusDisbursed, loan.StatusPartial, loan.StatusRepaid:
			return loan.ErrAlreadyDisbursed
		default:
			return fmt.Errorf("%w: cannot disburse a %s loan", loan.ErrInvalidTransition, l.Status)
		}

		active, err := r.Payouts.GetActiveByLoanID(ctx, l.LoanID)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s", payout.ErrActive, active.PayoutID)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if l.InvestmentID != "" {
			if err := checkFunding(ctx, r, l.InvestmentID, l.Amount); err != nil {
				return err
			}
		}

		p = &payout.Payout{
			PayoutID:    id.NewUUID(),
			LoanID:      l.LoanID,
			Status:      payout.StatusPending,
			Amount:      l.Amount,
			Currency:    l.Currency,
			PhoneNumber: l.PhoneNumber,
			Provider:    l.Provider,
		}
		borrower = l.UserID
		return r.Payouts.Create(ctx, p)
	})
	if err != nil {
		return nil, mapNotFound(err)
	}

	res, err := u.gw.InitiatePayout(ctx, aggregator.PayoutRequest{
		PayoutID:    p.PayoutID,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Provider:    p.Provider,
		PhoneNumber: p.PhoneNumber,
		Description: "Loan disbursement",
	})
	if err != nil {
		log.Printf("payout %s for loan %s: initiation failed, left PENDING: %v", p.PayoutID, p.LoanID, err)
		if !errors.Is(err, aggregator.ErrUnavailable) {
			err = fmt.Errorf("%w: %v", aggregator.ErrUnavailable, err)
		}
		return payoutuc.ToDTO(p), err
	}
	if !res.Rejected() {
		return payoutuc.ToDTO(p), nil
	}

	var failed bool
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		cur, err := r.Payouts.GetByPayoutIDForUpdate(ctx, p.PayoutID)
		if err != nil {
			return err
		}
		if cur.Status == payout.StatusPending {
			cur.Status = payout.StatusFailed
			cur.FailureCode = res.RejectionCode
			cur.FailureMessage = res.RejectionMessage
			if err := r.Payouts.Save(ctx, cur); err != nil {
				return err
			}
			failed = true
		}
		p = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	if failed {
		u.notifier.Notify(ctx, borrower, payoutuc.FailedMessage(p))
	}
	return payoutuc.ToDTO(p), nil
}

// Repay records a manual repayment against a DISBURSED or PARTIAL loan.
func (u *Usecase) Repay(ctx context.Context, loanID string, amount decimal.Decimal) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := l.Repay(amount, u.now()); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = ToDTO(l)
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err)
	}

	msg := fmt.Sprintf("Repayment of %s %s received for loan %s. Outstanding balance: %s %s.",
		amount.StringFixed(2), dto.Currency, dto.LoanID, dto.Balance.StringFixed(2), dto.Currency)
	if dto.Status == string(loan.StatusRepaid) {
		msg = fmt.Sprintf("Your loan %s is fully repaid.", dto.LoanID)
	}
	u.notifier.Notify(ctx, dto.UserID, msg)
	return dto, nil
}
