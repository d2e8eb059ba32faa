package transaction

import "context"

type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	Save(ctx context.Context, t *Transaction) error
	GetByDepositID(ctx context.Context, depositID string) (*Transaction, error)
	GetByDepositIDForUpdate(ctx context.Context, depositID string) (*Transaction, error)
	ListByUserID(ctx context.Context, userID string) ([]Transaction, error)
}
