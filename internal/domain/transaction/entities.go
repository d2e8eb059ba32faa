package transaction

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusLoanedOut Status = "LOANED_OUT"
	StatusDisbursed Status = "DISBURSED"
)

// Final reports whether aggregator updates may no longer change the status.
func (s Status) Final() bool { return s != StatusPending }

var (
	ErrNotFound      = errors.New("transaction not found")
	ErrDuplicate     = errors.New("deposit id already exists")
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrInvalidID     = errors.New("deposit id must be a UUID")
	// ErrNotLendable is returned when an investment cannot fund a loan.
	ErrNotLendable = errors.New("investment is not available for lending")
)

// Transaction is a mobile-money deposit (an investment once completed).
type Transaction struct {
	ID                    uint64          `gorm:"primaryKey;column:id" json:"-"`
	DepositID             string          `gorm:"size:36;not null;uniqueIndex:ux_transactions_deposit_id" json:"deposit_id"`
	UserID                string          `gorm:"size:64;index:idx_transactions_user" json:"user_id,omitempty"`
	Status                Status          `gorm:"size:16;not null;index" json:"status"`
	Amount                decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Currency              string          `gorm:"size:3" json:"currency"`
	PhoneNumber           string          `gorm:"size:20" json:"phone_number"`
	Provider              string          `gorm:"size:64" json:"provider"`
	ProviderTransactionID string          `gorm:"size:128" json:"provider_transaction_id,omitempty"`
	FailureCode           string          `gorm:"size:64" json:"failure_code,omitempty"`
	FailureMessage        string          `gorm:"type:text" json:"failure_message,omitempty"`
	Metadata              Metadata        `json:"metadata,omitempty"`
	CreatedAt             time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Transaction) TableName() string { return "transactions" }

// Metadata is an opaque JSON document stored as text.
type Metadata []byte

func (Metadata) GormDataType() string { return "text" }

func (m Metadata) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return string(m), nil
}

func (m *Metadata) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = nil
	case []byte:
		*m = append((*m)[:0], v...)
	case string:
		*m = Metadata(v)
	default:
		return fmt.Errorf("metadata: unsupported type %T", src)
	}
	return nil
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	if len(m) == 0 {
		return []byte("null"), nil
	}
	return m, nil
}

func (m *Metadata) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = nil
		return nil
	}
	*m = append((*m)[:0], b...)
	return nil
}
