package domain

import "time"

type Staff struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"size:64;index" json:"user_id"`
	Name        string    `gorm:"size:255;not null;index" json:"name"`
	PhoneNumber string    `gorm:"size:32;index" json:"phone_number"`
	Email       string    `gorm:"size:255;index" json:"email"`
	Designation string    `gorm:"size:150;index" json:"designation"`
	PhotoKey    string    `gorm:"size:1024" json:"photo_key,omitempty"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
