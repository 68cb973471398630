package database

import (
	"gorm.io/gorm"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Group{},
		&domain.Permission{},
		&domain.GroupPermission{},
		&domain.InstituteType{},
		&domain.Institute{},
		&domain.Event{},
		&domain.FeeHead{},
		&domain.FeeSubHead{},
		&domain.FeeName{},
		&domain.FeePackage{},
		&domain.MealName{},
		&domain.MealItem{},
		&domain.MealSetup{},
		&domain.Fund{},
		&domain.Staff{},
	)
}
