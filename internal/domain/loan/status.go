package loan

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusApproved, StatusRejected},
	StatusApproved:  {StatusDisbursed},
	StatusDisbursed: {StatusPartial, StatusRepaid},
	StatusPartial:   {StatusPartial, StatusRepaid},
}

// ParseStatus normalises a client supplied status. DISAPPROVED maps to REJECTED.
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if s == StatusDisapproved {
		return StatusRejected, true
	}
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusDisbursed, StatusPartial, StatusRepaid:
		return s, true
	}
	return "", false
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// Transition moves the loan to next, or returns ErrInvalidTransition.
func (l *Loan) Transition(next Status, at time.Time) error {
	if !l.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, l.Status, next)
	}
	l.Status = next
	l.StateUpdatedAt = at.UTC()
	if next != StatusPending {
		l.PendingUserID = nil
	}
	return nil
}

// MarkDisbursed records a completed payout: APPROVED -> DISBURSED with the
// full amount owed as outstanding balance.
func (l *Loan) MarkDisbursed(at time.Time) error {
	if err := l.Transition(StatusDisbursed, at); err != nil {
		return err
	}
	t := at.UTC()
	l.DisbursedAt = &t
	l.Balance = l.Total()
	return nil
}

// Repay decrements the outstanding balance. The balance never goes below zero.
func (l *Loan) Repay(amount decimal.Decimal, at time.Time) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if l.Status != StatusDisbursed && l.Status != StatusPartial {
		return fmt.Errorf("%w: cannot repay a %s loan", ErrInvalidTransition, l.Status)
	}
	if amount.GreaterThan(l.Balance) {
		return ErrOverpayment
	}
	next := StatusPartial
	remaining := l.Balance.Sub(amount)
	if remaining.IsZero() {
		next = StatusRepaid
	}
	if err := l.Transition(next, at); err != nil {
		return err
	}
	l.Balance = remaining
	return nil
}
