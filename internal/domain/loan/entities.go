package loan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusDisbursed Status = "DISBURSED"
	StatusPartial   Status = "PARTIAL"
	StatusRepaid    Status = "REPAID"

	// StatusDisapproved is only accepted on input; it is stored as StatusRejected.
	StatusDisapproved Status = "DISAPPROVED"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrAlreadyApproved   = errors.New("loan already approved")
	ErrAlreadyDisbursed  = errors.New("loan already disbursed")
	ErrInvalidTransition = errors.New("invalid loan status transition")
	ErrPendingExists     = errors.New("borrower already has a pending loan")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInvalidRate       = errors.New("interest rate must be between 0 and 1")
	ErrOverpayment       = errors.New("repayment exceeds outstanding balance")
	ErrInvalidReturnDate = errors.New("expected return date must not be in the past")
)

// Loan is a borrower's loan. PendingUserID mirrors UserID while the loan is
// PENDING and is NULL otherwise; its unique index allows one pending loan per
// borrower.
type Loan struct {
	ID                 uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID             string          `gorm:"size:32;not null;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	UserID             string          `gorm:"size:64;not null;index:idx_loans_user_status" json:"user_id"`
	PendingUserID      *string         `gorm:"size:64;uniqueIndex:ux_loans_pending_user" json:"-"`
	InvestmentID       string          `gorm:"size:36;index" json:"investment_id,omitempty"`
	Amount             decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Interest           decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"interest"`
	Balance            decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"balance"`
	Currency           string          `gorm:"size:3;not null" json:"currency"`
	PhoneNumber        string          `gorm:"size:20;not null" json:"phone_number"`
	Provider           string          `gorm:"size:64;not null" json:"provider"`
	Status             Status          `gorm:"size:16;not null;default:'PENDING';index:idx_loans_user_status" json:"status"`
	ExpectedReturnDate time.Time       `gorm:"type:date" json:"expected_return_date"`
	ApproverID         string          `gorm:"size:64" json:"approver_id,omitempty"`
	RejectionReason    string          `gorm:"type:text" json:"rejection_reason,omitempty"`
	StateUpdatedAt     time.Time       `json:"state_updated_at"`
	DisbursedAt        *time.Time      `json:"disbursed_at,omitempty"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// Total is principal plus interest, the amount owed once the loan is disbursed.
func (l *Loan) Total() decimal.Decimal { return l.Amount.Add(l.Interest) }
