package payout

import (
	"time"

	"estack-backend/internal/domain/payout"

	"github.com/shopspring/decimal"
)

type PayoutDTO struct {
	PayoutID              string          `json:"payout_id"`
	LoanID                string          `json:"loan_id"`
	Status                string          `json:"status"`
	Amount                decimal.Decimal `json:"amount"`
	Currency              string          `json:"currency"`
	PhoneNumber           string          `json:"phone_number"`
	Provider              string          `json:"provider"`
	ProviderTransactionID string          `json:"provider_transaction_id,omitempty"`
	FailureCode           string          `json:"failure_code,omitempty"`
	FailureMessage        string          `json:"failure_message,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

func ToDTO(p *payout.Payout) *PayoutDTO {
	return &PayoutDTO{
		PayoutID:              p.PayoutID,
		LoanID:                p.LoanID,
		Status:                string(p.Status),
		Amount:                p.Amount,
		Currency:              p.Currency,
		PhoneNumber:           p.PhoneNumber,
		Provider:              p.Provider,
		ProviderTransactionID: p.ProviderTransactionID,
		FailureCode:           p.FailureCode,
		FailureMessage:        p.FailureMessage,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}
