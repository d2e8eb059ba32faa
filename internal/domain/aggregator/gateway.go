package aggregator

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"estack-backend/internal/domain/callback"
)

var (
	ErrUnavailable = errors.New("payment aggregator unavailable")
	// ErrInvalidPayload is returned for callback bodies that are not a JSON object.
	ErrInvalidPayload = errors.New("invalid JSON payload")
)

// MissingFieldsError lists required callback fields that were absent.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing fields: " + strings.Join(e.Fields, ", ")
}

// Answers to an initiation request.
const (
	Accepted         = "ACCEPTED"
	Rejected         = "REJECTED"
	DuplicateIgnored = "DUPLICATE_IGNORED"
)

type DepositRequest struct {
	DepositID   string
	Amount      decimal.Decimal
	Currency    string
	Provider    string
	PhoneNumber string
	Description string
}

type PayoutRequest struct {
	PayoutID    string
	Amount      decimal.Decimal
	Currency    string
	Provider    string
	PhoneNumber string
	Description string
}

// InitiationResult is the synchronous answer to a deposit or payout request.
type InitiationResult struct {
	Status           string
	RejectionCode    string
	RejectionMessage string
}

func (r *InitiationResult) Rejected() bool { return r != nil && r.Status == Rejected }

// Update is a final or intermediate status reported by the aggregator, either
// pushed through a callback or fetched by a status check.
type Update struct {
	Kind                  callback.Kind
	ID                    string
	Status                string
	Amount                decimal.Decimal
	Currency              string
	Provider              string
	PhoneNumber           string
	ProviderTransactionID string
	FailureCode           string
	FailureMessage        string
	Metadata              []byte
	// Raw is the callback body; empty for status checks.
	Raw []byte
}

type Gateway interface {
	InitiateDeposit(ctx context.Context, req DepositRequest) (*InitiationResult, error)
	InitiatePayout(ctx context.Context, req PayoutRequest) (*InitiationResult, error)
	// DepositStatus returns nil, nil when the aggregator does not know the id.
	DepositStatus(ctx context.Context, depositID string) (*Update, error)
	PayoutStatus(ctx context.Context, payoutID string) (*Update, error)
}

type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomePending
	OutcomeCompleted
	OutcomeFailed
)

// Classify maps the status vocabularies seen from the aggregator (including
// older SUCCESS/SUCCESSFUL spellings) onto three outcomes.
func Classify(status string) Outcome {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "COMPLETED", "SUCCESSFUL", "SUCCESS", "SUCCEEDED":
		return OutcomeCompleted
	case "FAILED", "REJECTED", "EXPIRED", "CANCELLED":
		return OutcomeFailed
	case "PENDING", "ACCEPTED", "SUBMITTED", "ENQUEUED", "IN_RECONCILIATION":
		return OutcomePending
	}
	return OutcomeUnknown
}
