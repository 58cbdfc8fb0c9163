package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cosmicpalm/destiny-backend/internal/apperr"
	"github.com/cosmicpalm/destiny-backend/internal/logger"
	"github.com/cosmicpalm/destiny-backend/internal/types"
)

type OrderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, order *types.Order) (*types.Order, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Order, error)
	GetByRazorpayOrderID(ctx context.Context, tx *gorm.DB, razorpayOrderID string) (*types.Order, error)
	MarkCompleted(ctx context.Context, tx *gorm.DB, id uuid.UUID, paymentID string) error
	HasCompletedOrder(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) (bool, error)
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return &orderRepo{db: db, log: baseLog.With("repo", "OrderRepo")}
}

func (or *orderRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return or.db
}

func (or *orderRepo) Create(ctx context.Context, tx *gorm.DB, order *types.Order) (*types.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.Status == "" {
		order.Status = types.OrderStatusPending
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	if err := or.conn(tx).WithContext(ctx).Create(order).Error; err != nil {
		return nil, &apperr.PersistenceError{Op: "create order", Err: err}
	}
	return order, nil
}

func (or *orderRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Order, error) {
	results := []*types.Order{}
	if err := or.conn(tx).WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, &apperr.PersistenceError{Op: "list orders", Err: err}
	}
	return results, nil
}

// GetByRazorpayOrderID looks the order up across all owners; the webhook
// only carries the external order id.
func (or *orderRepo) GetByRazorpayOrderID(ctx context.Context, tx *gorm.DB, razorpayOrderID string) (*types.Order, error) {
	var result types.Order
	err := or.conn(tx).WithContext(ctx).
		Where("razorpay_order_id = ?", razorpayOrderID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Resource: "order"}
	}
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "get order", Err: err}
	}
	return &result, nil
}

func (or *orderRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, id uuid.UUID, paymentID string) error {
	res := or.conn(tx).WithContext(ctx).
		Model(&types.Order{}).
		Where("id = ? AND status = ?", id, types.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":     types.OrderStatusCompleted,
			"payment_id": paymentID,
		})
	if res.Error != nil {
		return &apperr.PersistenceError{Op: "complete order", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &apperr.NotFoundError{Resource: "pending order"}
	}
	return nil
}

func (or *orderRepo) HasCompletedOrder(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) (bool, error) {
	var count int64
	if err := or.conn(tx).WithContext(ctx).
		Model(&types.Order{}).
		Where("owner_id = ? AND status = ?", ownerID, types.OrderStatusCompleted).
		Count(&count).Error; err != nil {
		return false, &apperr.PersistenceError{Op: "count completed orders", Err: err}
	}
	return count > 0, nil
}
