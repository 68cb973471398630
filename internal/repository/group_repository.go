package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
)

var ErrGroupNotFound = errors.New("group not found")

type GroupRepository interface {
	List() ([]domain.Group, error)
	FindByID(id uint) (*domain.Group, error)
	FindByName(name string) (*domain.Group, error)
	Create(group *domain.Group) error
	Rename(id uint, name string) error
	DeleteByID(id uint) error
	CodenamesByGroupID(id uint) ([]string, error)
	ReplacePermissions(id uint, permissionIDs []uint) error
}

type GormGroupRepository struct{ db *gorm.DB }

func NewGroupRepository(db *gorm.DB) GroupRepository { return &GormGroupRepository{db: db} }

func (r *GormGroupRepository) List() ([]domain.Group, error) {
	var groups []domain.Group
	err := r.db.Preload("Permissions").Order("id asc").Find(&groups).Error
	return groups, err
}

func (r *GormGroupRepository) FindByID(id uint) (*domain.Group, error) {
	var group domain.Group
	if err := r.db.Preload("Permissions").First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *GormGroupRepository) FindByName(name string) (*domain.Group, error) {
	var group domain.Group
	if err := r.db.Preload("Permissions").Where("name = ?", name).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *GormGroupRepository) Create(group *domain.Group) error {
	return r.db.Create(group).Error
}

func (r *GormGroupRepository) Rename(id uint, name string) error {
	res := r.db.Model(&domain.Group{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrGroupNotFound
	}
	return nil
}

func (r *GormGroupRepository) DeleteByID(id uint) error {
	group, err := r.FindByID(id)
	if err != nil {
		return err
	}
	if err := r.db.Model(group).Association("Permissions").Clear(); err != nil {
		return err
	}
	return r.db.Delete(group).Error
}

// CodenamesByGroupID resolves the flat permission set of a group. This is
// the authoritative source the cached permission resolver reads through to.
func (r *GormGroupRepository) CodenamesByGroupID(id uint) ([]string, error) {
	group, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	codenames := make([]string, 0, len(group.Permissions))
	for _, p := range group.Permissions {
		codenames = append(codenames, p.Codename)
	}
	return codenames, nil
}

// ReplacePermissions overwrites the group's permission set wholesale,
// matching the PUT /groups/{id}/permissions/ contract.
func (r *GormGroupRepository) ReplacePermissions(id uint, permissionIDs []uint) error {
	group, err := r.FindByID(id)
	if err != nil {
		return err
	}
	var perms []domain.Permission
	if len(permissionIDs) > 0 {
		if err := r.db.Where("id IN ?", permissionIDs).Find(&perms).Error; err != nil {
			return err
		}
	}
	return r.db.Model(group).Association("Permissions").Replace(perms)
}
