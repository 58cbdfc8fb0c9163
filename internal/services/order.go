package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/cosmicpalm/destiny-backend/internal/apperr"
	"github.com/cosmicpalm/destiny-backend/internal/logger"
	"github.com/cosmicpalm/destiny-backend/internal/repos"
	"github.com/cosmicpalm/destiny-backend/internal/types"
)

// OrderService creates pending orders and applies webhook-confirmed
// payment captures. The pending -> completed transition happens at most
// once; replayed captures for a completed order are acknowledged without
// touching state.
type OrderService interface {
	Create(ctx context.Context, ownerID uuid.UUID, amount int64, currency, razorpayOrderID string) (*types.Order, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*types.Order, error)
	CompleteByRazorpayOrderID(ctx context.Context, razorpayOrderID, paymentID string) error
}

type orderService struct {
	log       *logger.Logger
	orderRepo repos.OrderRepo
}

func NewOrderService(log *logger.Logger, orderRepo repos.OrderRepo) OrderService {
	return &orderService{
		log:       log.With("service", "OrderService"),
		orderRepo: orderRepo,
	}
}

func (s *orderService) Create(ctx context.Context, ownerID uuid.UUID, amount int64, currency, razorpayOrderID string) (*types.Order, error) {
	if amount <= 0 {
		return nil, &apperr.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if strings.TrimSpace(currency) == "" {
		return nil, &apperr.ValidationError{Field: "currency", Reason: "required"}
	}
	if strings.TrimSpace(razorpayOrderID) == "" {
		return nil, &apperr.ValidationError{Field: "razorpayOrderId", Reason: "required"}
	}
	return s.orderRepo.Create(ctx, nil, &types.Order{
		OwnerID:         ownerID,
		Amount:          amount,
		Currency:        strings.ToUpper(currency),
		Status:          types.OrderStatusPending,
		RazorpayOrderID: razorpayOrderID,
	})
}

func (s *orderService) List(ctx context.Context, ownerID uuid.UUID) ([]*types.Order, error) {
	return s.orderRepo.ListByOwner(ctx, nil, ownerID)
}

func (s *orderService) CompleteByRazorpayOrderID(ctx context.Context, razorpayOrderID, paymentID string) error {
	order, err := s.orderRepo.GetByRazorpayOrderID(ctx, nil, razorpayOrderID)
	if err != nil {
		return err
	}
	if order.Status == types.OrderStatusCompleted {
		s.log.Info("Order already completed, ignoring duplicate capture", "order_id", order.ID, "razorpay_order_id", razorpayOrderID)
		return nil
	}
	if err := s.orderRepo.MarkCompleted(ctx, nil, order.ID, paymentID); err != nil {
		var notFound *apperr.NotFoundError
		if errors.As(err, &notFound) {
			// lost the race with another delivery; state is already final
			return nil
		}
		return err
	}
	s.log.Info("Order completed", "order_id", order.ID, "payment_id", paymentID)
	return nil
}
