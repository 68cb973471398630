package domain

import "time"

type FeeHead struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null;index" json:"name"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FeeSubHead struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null;index" json:"name"`
	FeeHeadID uint      `gorm:"not null;index" json:"fee_head_id"`
	FeeHead   *FeeHead  `json:"fee_head,omitempty"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeeName carries service-type flags used by the hostel, transport and
// coaching modules to pick their fee rows.
type FeeName struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:150;not null;index" json:"name"`
	IsHostelFee    bool      `gorm:"not null;default:false" json:"is_hostel_fee"`
	IsTransportFee bool      `gorm:"not null;default:false" json:"is_transport_fee"`
	IsCoachingFee  bool      `gorm:"not null;default:false" json:"is_coaching_fee"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type FeePackage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null;index" json:"name"`
	FeeNameID uint      `gorm:"not null;index" json:"fee_name_id"`
	FeeName   *FeeName  `json:"fee_name,omitempty"`
	Amount    float64   `gorm:"not null" json:"amount"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
