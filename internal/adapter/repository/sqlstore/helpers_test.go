package sqlstore

import (
	"testing"
	"time"

	loanDomain "estack-backend/internal/domain/loan"
	txDomain "estack-backend/internal/domain/transaction"
	"estack-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every new connection to :memory: is a fresh database
	sqlDB.SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func makeLoan(loanID, userID string) *loanDomain.Loan {
	return &loanDomain.Loan{
		LoanID:             loanID,
		UserID:             userID,
		Amount:             dec("1000"),
		Interest:           dec("100"),
		Currency:           "ZMW",
		PhoneNumber:        "260763456789",
		Provider:           "MTN_MOMO_ZMB",
		Status:             loanDomain.StatusPending,
		ExpectedReturnDate: time.Now().UTC().AddDate(0, 1, 0).Truncate(24 * time.Hour),
		StateUpdatedAt:     time.Now().UTC(),
	}
}

func makeTransaction(userID string) *txDomain.Transaction {
	return &txDomain.Transaction{
		DepositID:   id.NewUUID(),
		UserID:      userID,
		Status:      txDomain.StatusPending,
		Amount:      dec("250.75"),
		Currency:    "ZMW",
		PhoneNumber: "260763456789",
		Provider:    "MTN_MOMO_ZMB",
	}
}
