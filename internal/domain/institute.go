package domain

import "time"

type InstituteType struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:150;not null;index" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Institute is the profile record of the school/institute. It is the only
// entity updated with PATCH semantics (partial field updates).
type Institute struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:255;not null;index" json:"name"`
	InstituteTypeID *uint     `gorm:"index" json:"institute_type_id"`
	EIIN            string    `gorm:"size:32" json:"eiin"`
	Address         string    `gorm:"size:500" json:"address"`
	Phone           string    `gorm:"size:32" json:"phone"`
	Email           string    `gorm:"size:255" json:"email"`
	Website         string    `gorm:"size:255" json:"website"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
