package repository

import (
	"context"

	"coaching-checkout/internal/model"

	"gorm.io/gorm"
)

type ReceiptRepository interface {
	Create(ctx context.Context, receipt *model.Receipt) error
	ListByOrderRef(ctx context.Context, orderRef uint) ([]*model.Receipt, error)
}

type receiptRepoImpl struct {
	db *gorm.DB
}

func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepoImpl{
		db: db,
	}
}

func (r *receiptRepoImpl) Create(ctx context.Context, receipt *model.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

func (r *receiptRepoImpl) ListByOrderRef(ctx context.Context, orderRef uint) ([]*model.Receipt, error) {
	var receipts []*model.Receipt
	err := r.db.WithContext(ctx).
		Where("order_ref = ?", orderRef).
		Order("created_at DESC").
		Find(&receipts).
		Error

	if err != nil {
		return nil, err
	}

	return receipts, nil
}
