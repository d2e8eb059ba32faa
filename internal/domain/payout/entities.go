package payout

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

var (
	ErrNotFound = errors.New("payout not found")
	// ErrActive guards the one-live-payout-per-loan rule.
	ErrActive = errors.New("loan already has an active payout")
)

type Payout struct {
	ID                    uint64          `gorm:"primaryKey;column:id" json:"-"`
	PayoutID              string          `gorm:"size:36;not null;uniqueIndex:ux_payouts_payout_id" json:"payout_id"`
	LoanID                string          `gorm:"size:32;not null;index:idx_payouts_loan" json:"loan_id"`
	Status                Status          `gorm:"size:16;not null" json:"status"`
	Amount                decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Currency              string          `gorm:"size:3;not null" json:"currency"`
	PhoneNumber           string          `gorm:"size:20;not null" json:"phone_number"`
	Provider              string          `gorm:"size:64;not null" json:"provider"`
	ProviderTransactionID string          `gorm:"size:128" json:"provider_transaction_id,omitempty"`
	FailureCode           string          `gorm:"size:64" json:"failure_code,omitempty"`
	FailureMessage        string          `gorm:"type:text" json:"failure_message,omitempty"`
	CreatedAt             time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Payout) TableName() string { return "payouts" }
