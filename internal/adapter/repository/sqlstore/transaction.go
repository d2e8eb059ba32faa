package sqlstore

import (
	"context"

	txDomain "estack-backend/internal/domain/transaction"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionRepository struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create fails with gorm.ErrDuplicatedKey when the deposit id is taken
// (the connection must be opened with TranslateError).
func (r *TransactionRepository) Create(ctx context.Context, t *txDomain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) Save(ctx context.Context, t *txDomain.Transaction) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TransactionRepository) GetByDepositID(ctx context.Context, depositID string) (*txDomain.Transaction, error) {
	var out txDomain.Transaction
	res := r.db.WithContext(ctx).Where("deposit_id = ?", depositID).First(&out)
	return &out, res.Error
}

func (r *TransactionRepository) GetByDepositIDForUpdate(ctx context.Context, depositID string) (*txDomain.Transaction, error) {
	var out txDomain.Transaction
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("deposit_id = ?", depositID).
		First(&out)
	return &out, res.Error
}

func (r *TransactionRepository) ListByUserID(ctx context.Context, userID string) ([]txDomain.Transaction, error) {
	var out []txDomain.Transaction
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}
