package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle status of a store order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// StatusDisplayName returns the customer-facing name for a status.
func StatusDisplayName(status OrderStatus) string {
	switch status {
	case OrderStatusPending:
		return "待付款"
	case OrderStatusProcessing:
		return "處理中"
	case OrderStatusCompleted:
		return "已完成"
	case OrderStatusCancelled:
		return "已取消"
	case OrderStatusRefunded:
		return "已退款"
	default:
		return string(status)
	}
}

// OrderItem is one line item on an order snapshot.
type OrderItem struct {
	Name     string
	Quantity int
}

// OrderSnapshot is the read-only view of an order the notification
// pipeline consumes. Order management itself lives in the surrounding
// system; this service only reads snapshots handed to it.
type OrderSnapshot struct {
	ID            uuid.UUID
	Number        string
	CustomerID    uuid.UUID // uuid.Nil for guest checkout
	PaymentMethod string    // display title, may be empty
	Items         []OrderItem
	Total         decimal.Decimal
	Currency      string
	Status        OrderStatus
	DetailURL     string // customer order-detail view, may be empty
}

// IsGuest reports whether the order was placed without an account.
func (o *OrderSnapshot) IsGuest() bool {
	return o.CustomerID == uuid.Nil
}

// OrderNoteWriter records notification outcomes as order annotations.
// Failures writing a note never block order processing.
type OrderNoteWriter interface {
	AddOrderNote(ctx context.Context, orderID uuid.UUID, note string) error
}
