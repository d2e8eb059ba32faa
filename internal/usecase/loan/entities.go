package loan

import (
	"time"

	"estack-backend/internal/domain/loan"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type RequestLoanInput struct {
	UserID             string
	Amount             decimal.Decimal
	InterestRate       decimal.Decimal
	ExpectedReturnDate string
	Currency           string
	PhoneNumber        string
	Provider           string
	InvestmentID       string
}

type LoanDTO struct {
	LoanID             string          `json:"loan_id"`
	UserID             string          `json:"user_id"`
	InvestmentID       string          `json:"investment_id,omitempty"`
	Amount             decimal.Decimal `json:"amount"`
	Interest           decimal.Decimal `json:"interest"`
	Balance            decimal.Decimal `json:"balance"`
	Currency           string          `json:"currency"`
	PhoneNumber        string          `json:"phone_number"`
	Provider           string          `json:"provider"`
	Status             string          `json:"status"`
	ExpectedReturnDate string          `json:"expected_return_date"`
	ApproverID         string          `json:"approver_id,omitempty"`
	RejectionReason    string          `json:"rejection_reason,omitempty"`
	DisbursedAt        *time.Time      `json:"disbursed_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func ToDTO(l *loan.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:             l.LoanID,
		UserID:             l.UserID,
		InvestmentID:       l.InvestmentID,
		Amount:             l.Amount,
		Interest:           l.Interest,
		Balance:            l.Balance,
		Currency:           l.Currency,
		PhoneNumber:        l.PhoneNumber,
		Provider:           l.Provider,
		Status:             string(l.Status),
		ExpectedReturnDate: l.ExpectedReturnDate.Format(dateLayout),
		ApproverID:         l.ApproverID,
		RejectionReason:    l.RejectionReason,
		DisbursedAt:        l.DisbursedAt,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
}
