package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lineshop/backend/internal/domain/linking"
)

// LineLinkModel is the persistence model for account links.
// Both sides of the link carry a unique index so a store account maps
// to at most one LINE account and vice versa.
type LineLinkModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_line_links_user_id"`
	LineUserID  string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_line_links_line_user_id"`
	DisplayName string    `gorm:"type:varchar(200)"`
	PictureURL  string    `gorm:"type:varchar(500)"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for LineLinkModel
func (LineLinkModel) TableName() string {
	return "line_links"
}

// ToDomain converts LineLinkModel to domain LineLink
func (m *LineLinkModel) ToDomain() *linking.LineLink {
	return &linking.LineLink{
		ID:          m.ID,
		UserID:      m.UserID,
		LineUserID:  m.LineUserID,
		DisplayName: m.DisplayName,
		PictureURL:  m.PictureURL,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates LineLinkModel from domain LineLink
func (m *LineLinkModel) FromDomain(link *linking.LineLink) {
	m.ID = link.ID
	m.UserID = link.UserID
	m.LineUserID = link.LineUserID
	m.DisplayName = link.DisplayName
	m.PictureURL = link.PictureURL
	m.CreatedAt = link.CreatedAt
	m.UpdatedAt = link.UpdatedAt
}
