package payout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"estack-backend/internal/domain/aggregator"
	"estack-backend/internal/domain/callback"
	"estack-backend/internal/domain/loan"
	"estack-backend/internal/domain/notification"
	"estack-backend/internal/domain/payout"
	"estack-backend/internal/domain/transaction"
	"estack-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type Usecase struct {
	payouts  payout.Repository
	loans    loan.Repository
	uow      uow.UnitOfWork
	gw       aggregator.Gateway
	notifier notification.Notifier
	now      func() time.Time
}

func NewUsecase(payouts payout.Repository, loans loan.Repository, tx uow.UnitOfWork, gw aggregator.Gateway, n notification.Notifier) *Usecase {
	return &Usecase{payouts: payouts, loans: loans, uow: tx, gw: gw, notifier: n, now: time.Now}
}

func (u *Usecase) Get(ctx context.Context, payoutID string) (*PayoutDTO, error) {
	p, err := u.payouts.GetByPayoutID(ctx, payoutID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payout.ErrNotFound
		}
		return nil, err
	}
	return ToDTO(p), nil
}

func (u *Usecase) ListByLoan(ctx context.Context, loanID string) ([]*PayoutDTO, error) {
	if _, err := u.loans.GetByLoanID(ctx, loanID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}
	ps, err := u.payouts.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	out := make([]*PayoutDTO, 0, len(ps))
	for i := range ps {
		out = append(out, ToDTO(&ps[i]))
	}
	return out, nil
}

type notice struct{ userID, msg string }

// ApplyUpdate folds an aggregator status into a PENDING payout. A completed
// payout disburses its loan and marks the funding investment LOANED_OUT; a
// failed one leaves the loan APPROVED so it can be disbursed again. Unknown
// payouts yield a nil DTO.
func (u *Usecase) ApplyUpdate(ctx context.Context, upd aggregator.Update) (*PayoutDTO, error) {
	var (
		out   *payout.Payout
		notes []notice
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if len(upd.Raw) > 0 {
			ev := &callback.Event{Kind: callback.KindPayout, ExternalID: upd.ID, Status: upd.Status, Payload: string(upd.Raw)}
			if err := r.Callbacks.Create(ctx, ev); err != nil {
				return err
			}
		}

		p, err := r.Payouts.GetByPayoutIDForUpdate(ctx, upd.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("payout %s: unknown payout, status %s ignored", upd.ID, upd.Status)
			return nil
		}
		if err != nil {
			return err
		}
		out = p
		if p.Status != payout.StatusPending {
			log.Printf("payout %s: already %s, ignoring %s", p.PayoutID, p.Status, upd.Status)
			return nil
		}
		if upd.ProviderTransactionID != "" {
			p.ProviderTransactionID = upd.ProviderTransactionID
		}

		switch aggregator.Classify(upd.Status) {
		case aggregator.OutcomeCompleted:
			p.Status = payout.StatusCompleted
			if err := r.Payouts.Save(ctx, p); err != nil {
				return err
			}
			n, err := u.disburseLoan(ctx, r, p.LoanID)
			if err != nil {
				return err
			}
			if n != nil {
				notes = append(notes, *n)
			}
		case aggregator.OutcomeFailed:
			p.Status = payout.StatusFailed
			p.FailureCode = upd.FailureCode
			p.FailureMessage = upd.FailureMessage
			if err := r.Payouts.Save(ctx, p); err != nil {
				return err
			}
			if l, err := r.Loans.GetByLoanID(ctx, p.LoanID); err == nil {
				notes = append(notes, notice{l.UserID, FailedMessage(p)})
			}
		case aggregator.OutcomeUnknown:
			log.Printf("payout %s: unknown status %q, left PENDING", p.PayoutID, upd.Status)
			fallthrough
		default:
			if err := r.Payouts.Save(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, n := range notes {
		u.notifier.Notify(ctx, n.userID, n.msg)
	}
	if out == nil {
		return nil, nil
	}
	return ToDTO(out), nil
}

func (u *Usecase) disburseLoan(ctx context.Context, r uow.Repos, loanID string) (*notice, error) {
	l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("payout for missing loan %s completed", loanID)
			return nil, nil
		}
		return nil, err
	}
	if l.Status != loan.StatusApproved {
		log.Printf("loan %s: payout completed while %s, status kept", l.LoanID, l.Status)
		return nil, nil
	}
	if err := l.MarkDisbursed(u.now()); err != nil {
		return nil, err
	}
	if err := r.Loans.Save(ctx, l); err != nil {
		return nil, err
	}

	if l.InvestmentID != "" {
		inv, err := r.Transactions.GetByDepositIDForUpdate(ctx, l.InvestmentID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			log.Printf("loan %s: funding investment %s not found", l.LoanID, l.InvestmentID)
		case err != nil:
			return nil, err
		case inv.Status == transaction.StatusCompleted:
			inv.Status = transaction.StatusLoanedOut
			if err := r.Transactions.Save(ctx, inv); err != nil {
				return nil, err
			}
		case inv.Status != transaction.StatusLoanedOut:
			// funding was checked when the payout was created and the money
			// has left, so the disbursement stands
			log.Printf("WARNING: loan %s disbursed against investment %s in status %s", l.LoanID, inv.DepositID, inv.Status)
		}
	}
	msg := fmt.Sprintf("Your loan %s of %s %s has been disbursed. Amount due: %s %s.",
		l.LoanID, l.Amount.StringFixed(2), l.Currency, l.Balance.StringFixed(2), l.Currency)
	return &notice{l.UserID, msg}, nil
}

// Refresh asks the aggregator for the payout's status and applies it.
func (u *Usecase) Refresh(ctx context.Context, payoutID string) (*PayoutDTO, error) {
	p, err := u.payouts.GetByPayoutID(ctx, payoutID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payout.ErrNotFound
		}
		return nil, err
	}
	upd, err := u.gw.PayoutStatus(ctx, payoutID)
	if err != nil {
		if !errors.Is(err, aggregator.ErrUnavailable) {
			err = fmt.Errorf("%w: %v", aggregator.ErrUnavailable, err)
		}
		return ToDTO(p), err
	}
	if upd == nil {
		return ToDTO(p), nil
	}
	upd.ID = payoutID
	dto, err := u.ApplyUpdate(ctx, *upd)
	if err != nil || dto == nil {
		return ToDTO(p), err
	}
	return dto, nil
}

func FailedMessage(p *payout.Payout) string {
	msg := fmt.Sprintf("Disbursement of loan %s failed.", p.LoanID)
	if p.FailureMessage != "" {
		msg += " Reason: " + p.FailureMessage
	}
	return msg
}
