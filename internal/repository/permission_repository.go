package repository

import (
	"gorm.io/gorm"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
)

type PermissionRepository interface {
	List() ([]domain.Permission, error)
	FindByCodenames(codenames []string) ([]domain.Permission, error)
}

type GormPermissionRepository struct{ db *gorm.DB }

func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &GormPermissionRepository{db: db}
}

func (r *GormPermissionRepository) List() ([]domain.Permission, error) {
	var perms []domain.Permission
	err := r.db.Order("codename asc").Find(&perms).Error
	return perms, err
}

func (r *GormPermissionRepository) FindByCodenames(codenames []string) ([]domain.Permission, error) {
	if len(codenames) == 0 {
		return nil, nil
	}
	var perms []domain.Permission
	if err := r.db.Where("codename IN ?", codenames).Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}
