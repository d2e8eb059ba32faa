package sqlstore

import (
	"context"

	payoutDomain "estack-backend/internal/domain/payout"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PayoutRepository struct{ db *gorm.DB }

func NewPayoutRepository(db *gorm.DB) *PayoutRepository { return &PayoutRepository{db: db} }

func (r *PayoutRepository) Create(ctx context.Context, p *payoutDomain.Payout) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PayoutRepository) Save(ctx context.Context, p *payoutDomain.Payout) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PayoutRepository) GetByPayoutID(ctx context.Context, payoutID string) (*payoutDomain.Payout, error) {
	var out payoutDomain.Payout
	res := r.db.WithContext(ctx).Where("payout_id = ?", payoutID).First(&out)
	return &out, res.Error
}

func (r *PayoutRepository) GetByPayoutIDForUpdate(ctx context.Context, payoutID string) (*payoutDomain.Payout, error) {
	var out payoutDomain.Payout
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("payout_id = ?", payoutID).
		First(&out)
	return &out, res.Error
}

func (r *PayoutRepository) GetActiveByLoanID(ctx context.Context, loanID string) (*payoutDomain.Payout, error) {
	var out payoutDomain.Payout
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND status <> ?", loanID, payoutDomain.StatusFailed).
		Order("id DESC").
		First(&out)
	return &out, res.Error
}

func (r *PayoutRepository) ListLiveByInvestmentID(ctx context.Context, investmentID string) ([]payoutDomain.Payout, error) {
	var out []payoutDomain.Payout
	res := r.db.WithContext(ctx).
		Joins("JOIN loans ON loans.loan_id = payouts.loan_id").
		Where("loans.investment_id = ? AND payouts.status <> ?", investmentID, payoutDomain.StatusFailed).
		Order("payouts.id").
		Find(&out)
	return out, res.Error
}

func (r *PayoutRepository) ListByLoanID(ctx context.Context, loanID string) ([]payoutDomain.Payout, error) {
	var out []payoutDomain.Payout
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}
