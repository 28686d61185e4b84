package models

import (
	"time"

	"github.com/lineshop/backend/internal/domain/identity"
)

// UserModel is the persistence model for store accounts.
type UserModel struct {
	BaseModel
	Username     string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_users_username"`
	Email        string     `gorm:"type:varchar(200);not null;uniqueIndex:idx_users_email"`
	DisplayName  string     `gorm:"type:varchar(200)"`
	AvatarURL    string     `gorm:"type:varchar(500)"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	LastLoginAt  *time.Time `gorm:""`
}

// TableName specifies the table name for UserModel
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts UserModel to domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Username:     m.Username,
		Email:        m.Email,
		DisplayName:  m.DisplayName,
		AvatarURL:    m.AvatarURL,
		PasswordHash: m.PasswordHash,
		LastLoginAt:  m.LastLoginAt,
	}
}

// FromDomain populates UserModel from domain User
func (m *UserModel) FromDomain(user *identity.User) {
	m.FromDomainBaseEntity(user.BaseEntity)
	m.Username = user.Username
	m.Email = user.Email
	m.DisplayName = user.DisplayName
	m.AvatarURL = user.AvatarURL
	m.PasswordHash = user.PasswordHash
	m.LastLoginAt = user.LastLoginAt
}
