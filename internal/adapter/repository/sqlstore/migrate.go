package sqlstore

import (
	"estack-backend/internal/domain/callback"
	"estack-backend/internal/domain/loan"
	"estack-backend/internal/domain/notification"
	"estack-backend/internal/domain/payout"
	"estack-backend/internal/domain/transaction"

	"gorm.io/gorm"
)

// Models lists every persisted type, in dependency order.
func Models() []any {
	return []any{
		&transaction.Transaction{},
		&loan.Loan{},
		&payout.Payout{},
		&notification.Notification{},
		&callback.Event{},
	}
}

func Migrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }
