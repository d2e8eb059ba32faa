package deposit

import (
	"context"
	"errors"
	"fmt"
	"log"

	"estack-backend/internal/domain/aggregator"
	"estack-backend/internal/domain/callback"
	"estack-backend/internal/domain/notification"
	"estack-backend/internal/domain/transaction"
	"estack-backend/internal/domain/uow"
	"estack-backend/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	txs      transaction.Repository
	uow      uow.UnitOfWork
	gw       aggregator.Gateway
	notifier notification.Notifier
}

func NewUsecase(txs transaction.Repository, tx uow.UnitOfWork, gw aggregator.Gateway, n notification.Notifier) *Usecase {
	return &Usecase{txs: txs, uow: tx, gw: gw, notifier: n}
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return transaction.ErrNotFound
	}
	return err
}

// Initiate stores a PENDING deposit and forwards it to the aggregator. When the
// aggregator cannot be reached the stored record is returned together with an
// error wrapping aggregator.ErrUnavailable.
func (u *Usecase) Initiate(ctx context.Context, in InitiateInput) (*DepositDTO, error) {
	if !in.Amount.IsPositive() {
		return nil, transaction.ErrInvalidAmount
	}
	if in.DepositID == "" {
		in.DepositID = id.NewUUID()
	} else if !id.IsUUID(in.DepositID) {
		return nil, transaction.ErrInvalidID
	}

	_, err := u.txs.GetByDepositID(ctx, in.DepositID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s", transaction.ErrDuplicate, in.DepositID)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	t := &transaction.Transaction{
		DepositID:   in.DepositID,
		UserID:      in.UserID,
		Status:      transaction.StatusPending,
		Amount:      in.Amount,
		Currency:    in.Currency,
		PhoneNumber: in.PhoneNumber,
		Provider:    in.Provider,
		Metadata:    transaction.Metadata(in.Metadata),
	}
	if err := u.txs.Create(ctx, t); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", transaction.ErrDuplicate, in.DepositID)
		}
		return nil, err
	}

	res, err := u.gw.InitiateDeposit(ctx, aggregator.DepositRequest{
		DepositID:   t.DepositID,
		Amount:      t.Amount,
		Currency:    t.Currency,
		Provider:    t.Provider,
		PhoneNumber: t.PhoneNumber,
		Description: in.Description,
	})
	if err != nil {
		log.Printf("deposit %s: initiation failed, left PENDING: %v", t.DepositID, err)
		if !errors.Is(err, aggregator.ErrUnavailable) {
			err = fmt.Errorf("%w: %v", aggregator.ErrUnavailable, err)
		}
		return ToDTO(t), err
	}
	if !res.Rejected() {
		return ToDTO(t), nil
	}

	var failed bool
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		cur, err := r.Transactions.GetByDepositIDForUpdate(ctx, t.DepositID)
		if err != nil {
			return mapNotFound(err)
		}
		// a callback may have won the race
		if cur.Status == transaction.StatusPending {
			cur.Status = transaction.StatusFailed
			cur.FailureCode = res.RejectionCode
			cur.FailureMessage = res.RejectionMessage
			if err := r.Transactions.Save(ctx, cur); err != nil {
				return err
			}
			failed = true
		}
		t = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	if failed {
		u.notifier.Notify(ctx, t.UserID, failedMessage(t))
	}
	return ToDTO(t), nil
}

func (u *Usecase) Get(ctx context.Context, depositID string) (*DepositDTO, error) {
	t, err := u.txs.GetByDepositID(ctx, depositID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return ToDTO(t), nil
}

// ListByUser returns the user's investments, newest first.
func (u *Usecase) ListByUser(ctx context.Context, userID string) ([]*DepositDTO, error) {
	ts, err := u.txs.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*DepositDTO, 0, len(ts))
	for i := range ts {
		out = append(out, ToDTO(&ts[i]))
	}
	return out, nil
}

// ApplyUpdate folds an aggregator status into the stored deposit. Unknown
// deposits are created from the update; records past PENDING are returned
// unchanged. A nil DTO means the update was recorded but ignored.
func (u *Usecase) ApplyUpdate(ctx context.Context, upd aggregator.Update) (*DepositDTO, error) {
	var (
		out  *transaction.Transaction
		note string
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if len(upd.Raw) > 0 {
			ev := &callback.Event{Kind: callback.KindDeposit, ExternalID: upd.ID, Status: upd.Status, Payload: string(upd.Raw)}
			if err := r.Callbacks.Create(ctx, ev); err != nil {
				return err
			}
		}

		t, err := r.Transactions.GetByDepositIDForUpdate(ctx, upd.ID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if !upd.Amount.IsPositive() {
				log.Printf("deposit %s: unknown deposit without amount, not created", upd.ID)
				return nil
			}
			t = &transaction.Transaction{DepositID: upd.ID, Status: transaction.StatusPending}
			note = apply(t, upd)
			if err := r.Transactions.Create(ctx, t); err != nil {
				return err
			}
		case err != nil:
			return err
		case t.Status.Final():
			log.Printf("deposit %s: already %s, ignoring %s", t.DepositID, t.Status, upd.Status)
		default:
			note = apply(t, upd)
			if err := r.Transactions.Save(ctx, t); err != nil {
				return err
			}
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}
	if note != "" {
		u.notifier.Notify(ctx, out.UserID, note)
	}
	return ToDTO(out), nil
}

// apply copies the update onto a PENDING deposit and returns the message to
// send the depositor, if the status became final.
func apply(t *transaction.Transaction, upd aggregator.Update) string {
	if upd.Amount.IsPositive() {
		t.Amount = upd.Amount
	}
	if upd.Currency != "" {
		t.Currency = upd.Currency
	}
	if upd.PhoneNumber != "" {
		t.PhoneNumber = upd.PhoneNumber
	}
	if upd.Provider != "" {
		t.Provider = upd.Provider
	}
	if upd.ProviderTransactionID != "" {
		t.ProviderTransactionID = upd.ProviderTransactionID
	}
	if len(upd.Metadata) > 0 {
		t.Metadata = transaction.Metadata(upd.Metadata)
	}

	switch aggregator.Classify(upd.Status) {
	case aggregator.OutcomeCompleted:
		t.Status = transaction.StatusCompleted
		return fmt.Sprintf("Your deposit of %s %s was received.", t.Amount.StringFixed(2), t.Currency)
	case aggregator.OutcomeFailed:
		t.Status = transaction.StatusFailed
		t.FailureCode = upd.FailureCode
		t.FailureMessage = upd.FailureMessage
		return failedMessage(t)
	case aggregator.OutcomeUnknown:
		log.Printf("deposit %s: unknown status %q, left %s", t.DepositID, upd.Status, t.Status)
	}
	return ""
}

// Refresh asks the aggregator for the deposit's status and applies it.
func (u *Usecase) Refresh(ctx context.Context, depositID string) (*DepositDTO, error) {
	t, err := u.txs.GetByDepositID(ctx, depositID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	upd, err := u.gw.DepositStatus(ctx, depositID)
	if err != nil {
		if !errors.Is(err, aggregator.ErrUnavailable) {
			err = fmt.Errorf("%w: %v", aggregator.ErrUnavailable, err)
		}
		return ToDTO(t), err
	}
	if upd == nil {
		return ToDTO(t), nil
	}
	upd.ID = depositID
	dto, err := u.ApplyUpdate(ctx, *upd)
	if err != nil || dto == nil {
		return ToDTO(t), err
	}
	return dto, nil
}

func failedMessage(t *transaction.Transaction) string {
	msg := fmt.Sprintf("Your deposit of %s %s failed.", t.Amount.StringFixed(2), t.Currency)
	if t.FailureMessage != "" {
		msg += " Reason: " + t.FailureMessage
	}
	return msg
}
