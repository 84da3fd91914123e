package repository

import (
	"context"
	"time"

	"coaching-checkout/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByOrderID(ctx context.Context, orderID string) (*model.Order, error)
	List(ctx context.Context, status model.OrderStatus, query string) ([]*model.Order, error)
	SetStatus(ctx context.Context, orderID string, status model.OrderStatus) error
	MarkUnderReview(ctx context.Context, orderID string) error
	MarkPaid(ctx context.Context, orderID string, gatewayPaymentID string) (*model.Order, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) List(ctx context.Context, status model.OrderStatus, query string) ([]*model.Order, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})

	if status != "" {
		q = q.Where("status = ?", status)
	}
	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"order_id LIKE ? OR customer_name LIKE ? OR customer_email LIKE ?",
			like, like, like,
		)
	}

	var orders []*model.Order
	err := q.Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}

// SetStatus is the admin override: it writes the status unconditionally,
// whatever the current state.
func (r *orderRepoImpl) SetStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkUnderReview transitions an order to under_review only while it is not
// already in a terminal state. Returns gorm.ErrRecordNotFound when the order
// does not exist; a terminal order is left untouched without error.
func (r *orderRepoImpl) MarkUnderReview(ctx context.Context, orderID string) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}

	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where(`
			order_id = ?
			AND status NOT IN ?
		`,
			orderID,
			[]model.OrderStatus{model.StatusPaid, model.StatusRejected},
		).
		Updates(map[string]interface{}{
			"status":     model.StatusUnderReview,
			"updated_at": time.Now(),
		}).Error
}

// MarkPaid flips the order to paid and records the gateway payment id. The
// write is not guarded by the current status: re-applying an approved
// notification leaves the order paid, which makes webhook redelivery a no-op.
func (r *orderRepoImpl) MarkPaid(ctx context.Context, orderID string, gatewayPaymentID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Order{}).
			Where("order_id = ?", orderID).
			Updates(map[string]interface{}{
				"status":             model.StatusPaid,
				"gateway_payment_id": gatewayPaymentID,
				"updated_at":         time.Now(),
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("order_id = ?", orderID).First(&order).Error
	})

	return &order, err
}
