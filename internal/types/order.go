package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
)

// Order is a payment-capture record. It is created pending and moved to
// completed exactly once by the payment webhook.
type Order struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID         uuid.UUID `gorm:"type:uuid;index;not null;column:owner_id" json:"owner_id"`
	Amount          int64     `gorm:"not null;column:amount" json:"amount"`
	Currency        string    `gorm:"not null;column:currency" json:"currency"`
	Status          string    `gorm:"not null;index;column:status" json:"status"`
	RazorpayOrderID string    `gorm:"uniqueIndex;not null;column:razorpay_order_id" json:"razorpay_order_id"`
	PaymentID       string    `gorm:"column:payment_id" json:"payment_id,omitempty"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (Order) TableName() string {
	return "order_record"
}
