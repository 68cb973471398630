package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
)

var ErrMealSetupNotFound = errors.New("meal setup not found")

// MealSetupRepository is separate from the generic resource layer because a
// setup owns a many-to-many item list replaced wholesale on every update.
type MealSetupRepository interface {
	ListAll() ([]domain.MealSetup, error)
	FindByID(id uint) (*domain.MealSetup, error)
	Create(setup *domain.MealSetup, itemIDs []uint) error
	Update(id uint, day domain.Weekday, mealNameID uint, itemIDs []uint) (*domain.MealSetup, error)
	DeleteByID(id uint) error
}

type GormMealSetupRepository struct{ db *gorm.DB }

func NewMealSetupRepository(db *gorm.DB) MealSetupRepository {
	return &GormMealSetupRepository{db: db}
}

func (r *GormMealSetupRepository) ListAll() ([]domain.MealSetup, error) {
	var setups []domain.MealSetup
	err := r.db.Preload("MealName").Preload("Items").Order("id asc").Find(&setups).Error
	return setups, err
}

func (r *GormMealSetupRepository) FindByID(id uint) (*domain.MealSetup, error) {
	var setup domain.MealSetup
	if err := r.db.Preload("MealName").Preload("Items").First(&setup, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealSetupNotFound
		}
		return nil, err
	}
	return &setup, nil
}

func (r *GormMealSetupRepository) Create(setup *domain.MealSetup, itemIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(setup).Error; err != nil {
			return err
		}
		items, err := findMealItems(tx, itemIDs)
		if err != nil {
			return err
		}
		return tx.Model(setup).Association("Items").Replace(items)
	})
}

func (r *GormMealSetupRepository) Update(id uint, day domain.Weekday, mealNameID uint, itemIDs []uint) (*domain.MealSetup, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var setup domain.MealSetup
		if err := tx.First(&setup, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMealSetupNotFound
			}
			return err
		}
		if err := tx.Model(&setup).Updates(map[string]any{"day": day, "meal_name_id": mealNameID}).Error; err != nil {
			return err
		}
		items, err := findMealItems(tx, itemIDs)
		if err != nil {
			return err
		}
		return tx.Model(&setup).Association("Items").Replace(items)
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(id)
}

func (r *GormMealSetupRepository) DeleteByID(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var setup domain.MealSetup
		if err := tx.First(&setup, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMealSetupNotFound
			}
			return err
		}
		if err := tx.Model(&setup).Association("Items").Clear(); err != nil {
			return err
		}
		return tx.Delete(&setup).Error
	})
}

func findMealItems(tx *gorm.DB, itemIDs []uint) ([]domain.MealItem, error) {
	var items []domain.MealItem
	if len(itemIDs) == 0 {
		return items, nil
	}
	if err := tx.Where("id IN ?", itemIDs).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
