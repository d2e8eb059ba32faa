package deposit

import (
	"encoding/json"
	"time"

	"estack-backend/internal/domain/transaction"

	"github.com/shopspring/decimal"
)

type InitiateInput struct {
	UserID      string
	DepositID   string
	Amount      decimal.Decimal
	Currency    string
	PhoneNumber string
	Provider    string
	Description string
	Metadata    json.RawMessage
}

type DepositDTO struct {
	DepositID             string          `json:"deposit_id"`
	UserID                string          `json:"user_id,omitempty"`
	Status                string          `json:"status"`
	Amount                decimal.Decimal `json:"amount"`
	Currency              string          `json:"currency"`
	PhoneNumber           string          `json:"phone_number"`
	Provider              string          `json:"provider"`
	ProviderTransactionID string          `json:"provider_transaction_id,omitempty"`
	FailureCode           string          `json:"failure_code,omitempty"`
	FailureMessage        string          `json:"failure_message,omitempty"`
	Metadata              json.RawMessage `json:"metadata,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

func ToDTO(t *transaction.Transaction) *DepositDTO {
	return &DepositDTO{
		DepositID:             t.DepositID,
		UserID:                t.UserID,
		Status:                string(t.Status),
		Amount:                t.Amount,
		Currency:              t.Currency,
		PhoneNumber:           t.PhoneNumber,
		Provider:              t.Provider,
		ProviderTransactionID: t.ProviderTransactionID,
		FailureCode:           t.FailureCode,
		FailureMessage:        t.FailureMessage,
		Metadata:              json.RawMessage(t.Metadata),
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
	}
}
