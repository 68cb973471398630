package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
	"github.com/schoolsuite/institute-admin-api/internal/security"
	"github.com/schoolsuite/institute-admin-api/internal/service"
)

var seedActions = []string{
	domain.ActionAdd,
	domain.ActionChange,
	domain.ActionDelete,
	domain.ActionView,
}

type SeedReport struct {
	CreatedPermissions int  `json:"created_permissions"`
	CreatedGroups      int  `json:"created_groups"`
	Noop               bool `json:"noop"`
}

// Seed inserts the permission catalogue (every action x resource codename)
// and two starter groups. It is idempotent; reruns create nothing.
func Seed(db *gorm.DB) (*SeedReport, error) {
	report := &SeedReport{}

	for _, tag := range service.ResourceTags {
		for _, action := range seedActions {
			p := domain.Permission{
				Codename: domain.Codename(action, tag),
				Name:     fmt.Sprintf("Can %s %s", action, tag),
			}
			res := db.Where("codename = ?", p.Codename).FirstOrCreate(&p)
			if res.Error != nil {
				return nil, res.Error
			}
			if res.RowsAffected > 0 {
				report.CreatedPermissions++
			}
		}
	}

	adminGroup := domain.Group{Name: "Administrators"}
	res := db.Where("name = ?", adminGroup.Name).FirstOrCreate(&adminGroup)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		report.CreatedGroups++
		var perms []domain.Permission
		if err := db.Find(&perms).Error; err != nil {
			return nil, err
		}
		if err := db.Model(&adminGroup).Association("Permissions").Replace(perms); err != nil {
			return nil, err
		}
	}

	viewerGroup := domain.Group{Name: "Viewers"}
	res = db.Where("name = ?", viewerGroup.Name).FirstOrCreate(&viewerGroup)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		report.CreatedGroups++
		var viewPerms []domain.Permission
		if err := db.Where("codename LIKE ?", domain.ActionView+"\\_%").Find(&viewPerms).Error; err != nil {
			return nil, err
		}
		if err := db.Model(&viewerGroup).Association("Permissions").Replace(viewPerms); err != nil {
			return nil, err
		}
	}

	report.Noop = report.CreatedPermissions == 0 && report.CreatedGroups == 0
	return report, nil
}

// EnsureSuperAdmin creates (or leaves untouched) the bootstrap superadmin
// account. Email and password come from config, never from a migration file.
func EnsureSuperAdmin(db *gorm.DB, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("bootstrap admin email and password are required")
	}

	var existing domain.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Email:        email,
		Name:         "Super Admin",
		PasswordHash: hash,
		IsSuperAdmin: true,
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
