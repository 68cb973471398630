package domain

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	PasswordHash string    `gorm:"size:512;not null" json:"-"`
	GroupID      *uint     `gorm:"index" json:"group_id"`
	Group        *Group    `json:"group,omitempty"`
	IsSuperAdmin bool      `gorm:"not null;default:false" json:"is_superadmin"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  time.Time `json:"last_login_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
