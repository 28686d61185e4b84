package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderNoteModel stores notification outcomes recorded against an order.
type OrderNoteModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index:idx_order_notes_order_id"`
	Note      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for OrderNoteModel
func (OrderNoteModel) TableName() string {
	return "order_notes"
}
