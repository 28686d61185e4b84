package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lineshop/backend/internal/infrastructure/persistence/models"
)

// GormOrderNoteRepository implements trade.OrderNoteWriter using GORM
type GormOrderNoteRepository struct {
	db *gorm.DB
}

// NewGormOrderNoteRepository creates a new GormOrderNoteRepository
func NewGormOrderNoteRepository(db *gorm.DB) *GormOrderNoteRepository {
	return &GormOrderNoteRepository{db: db}
}

// AddOrderNote appends a note to an order's annotation trail
func (r *GormOrderNoteRepository) AddOrderNote(ctx context.Context, orderID uuid.UUID, note string) error {
	model := models.OrderNoteModel{
		ID:        uuid.New(),
		OrderID:   orderID,
		Note:      note,
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Create(&model).Error
}
