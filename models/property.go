package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Property struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"type:uuid;index;not null" json:"user_id"` // владелец, запись доступна только ему
	Name   string `gorm:"size:50;not null" json:"name"`

	// Публичная ссылка: либо оба поля заполнены, либо оба NULL.
	// Просроченный токен НЕ очищается автоматически — проверка срока идёт при чтении.
	ShareToken          *string    `gorm:"uniqueIndex" json:"share_token,omitempty"`
	ShareTokenExpiresAt *time.Time `json:"share_token_expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IsShared — токен выдан (даже если срок его действия уже истёк)
func (p *Property) IsShared() bool {
	return p.ShareToken != nil
}

// ShareExpired — токен выдан, но срок действия прошёл
func (p *Property) ShareExpired(now time.Time) bool {
	return p.ShareToken != nil && p.ShareTokenExpiresAt != nil && now.After(*p.ShareTokenExpiresAt)
}
