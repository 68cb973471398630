package domain

import "time"

// Permission is a single capability codename in the Django style:
// "add_feehead", "change_feehead", "delete_feehead", "view_feehead".
type Permission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Codename  string    `gorm:"uniqueIndex;size:120;not null" json:"codename"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Group is a named permission set. Users belong to exactly one group; their
// effective capabilities are the flat codename set of that group.
type Group struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"uniqueIndex;size:150;not null" json:"name"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Permissions []Permission `gorm:"many2many:group_permissions" json:"permissions,omitempty"`
}

type GroupPermission struct {
	GroupID      uint `gorm:"primaryKey"`
	PermissionID uint `gorm:"primaryKey"`
}

// CapabilityAction values compose codenames as action + "_" + resource.
const (
	ActionAdd    = "add"
	ActionChange = "change"
	ActionDelete = "delete"
	ActionView   = "view"
)

// Codename builds a permission codename from an action and a resource key.
func Codename(action, resource string) string {
	return action + "_" + resource
}
