package domain

import "time"

// Weekday is the day-of-week enum used by meal setups.
type Weekday string

const (
	Sunday    Weekday = "SUN"
	Monday    Weekday = "MON"
	Tuesday   Weekday = "TUE"
	Wednesday Weekday = "WED"
	Thursday  Weekday = "THU"
	Friday    Weekday = "FRI"
	Saturday  Weekday = "SAT"
)

var Weekdays = []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

func (d Weekday) Valid() bool {
	for _, w := range Weekdays {
		if d == w {
			return true
		}
	}
	return false
}

type MealName struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null;index" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MealItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null;index" json:"name"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MealSetup binds a meal (breakfast, lunch, ...) on a weekday to the items
// served. Items are a many-to-many list replaced wholesale on update.
type MealSetup struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Day        Weekday    `gorm:"size:3;not null;index" json:"day"`
	MealNameID uint       `gorm:"not null;index" json:"meal_name_id"`
	MealName   *MealName  `json:"meal_name,omitempty"`
	Items      []MealItem `gorm:"many2many:meal_setup_items" json:"items,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
