package service

import (
	"strings"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
)

// Resource tags. Codenames compose as action + "_" + tag
// ("add_feehead", "view_mealitem", ...).
const (
	TagInstitute     = "institute"
	TagInstituteType = "institutetype"
	TagEvent         = "event"
	TagFeeHead       = "feehead"
	TagFeeSubHead    = "feesubhead"
	TagFeeName       = "feename"
	TagFeePackage    = "feepackage"
	TagMealName      = "mealname"
	TagMealItem      = "mealitem"
	TagMealSetup     = "mealsetup"
	TagFund          = "fund"
	TagStaff         = "staff"
	TagGroup         = "group"
)

// ResourceTags lists every tag guarded by add/change/delete/view codenames.
var ResourceTags = []string{
	TagInstitute, TagInstituteType, TagEvent,
	TagFeeHead, TagFeeSubHead, TagFeeName, TagFeePackage,
	TagMealName, TagMealItem, TagMealSetup,
	TagFund, TagStaff, TagGroup,
}

func checkName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrNameRequired
	}
	if len(trimmed) > 150 {
		return ErrNameTooLong
	}
	return nil
}

func InstituteTypeDescriptor() ResourceDescriptor[domain.InstituteType] {
	return ResourceDescriptor[domain.InstituteType]{
		Tag:        TagInstituteType,
		NameColumn: "name",
		NameOf:     func(t *domain.InstituteType) string { return t.Name },
		ActiveOf:   func(t *domain.InstituteType) bool { return t.IsActive },
		Validate: func(t *domain.InstituteType) error {
			t.Name = strings.TrimSpace(t.Name)
			return checkName(t.Name)
		},
	}
}

func InstituteDescriptor() ResourceDescriptor[domain.Institute] {
	return ResourceDescriptor[domain.Institute]{
		Tag:        TagInstitute,
		NameColumn: "name",
		NameOf:     func(i *domain.Institute) string { return i.Name },
		ActiveOf:   func(i *domain.Institute) bool { return i.IsActive },
		Validate: func(i *domain.Institute) error {
			i.Name = strings.TrimSpace(i.Name)
			return checkName(i.Name)
		},
		Patchable: []string{
			"name", "institute_type_id", "eiin", "address",
			"phone", "email", "website", "is_active",
		},
	}
}

func EventDescriptor() ResourceDescriptor[domain.Event] {
	return ResourceDescriptor[domain.Event]{
		Tag:        TagEvent,
		NameColumn: "title",
		NameOf:     func(e *domain.Event) string { return e.Title },
		ActiveOf:   func(e *domain.Event) bool { return e.IsActive },
		Validate: func(e *domain.Event) error {
			e.Title = strings.TrimSpace(e.Title)
			if err := checkName(e.Title); err != nil {
				return err
			}
			if !e.StartDate.IsZero() && !e.EndDate.IsZero() && e.EndDate.Before(e.StartDate) {
				return ErrInvalidDates
			}
			return nil
		},
	}
}

func FeeHeadDescriptor() ResourceDescriptor[domain.FeeHead] {
	return ResourceDescriptor[domain.FeeHead]{
		Tag:        TagFeeHead,
		NameColumn: "name",
		NameOf:     func(f *domain.FeeHead) string { return f.Name },
		ActiveOf:   func(f *domain.FeeHead) bool { return f.IsActive },
		Validate: func(f *domain.FeeHead) error {
			f.Name = strings.TrimSpace(f.Name)
			return checkName(f.Name)
		},
	}
}

func FeeSubHeadDescriptor() ResourceDescriptor[domain.FeeSubHead] {
	return ResourceDescriptor[domain.FeeSubHead]{
		Tag:        TagFeeSubHead,
		NameColumn: "name",
		NameOf:     func(f *domain.FeeSubHead) string { return f.Name },
		ActiveOf:   func(f *domain.FeeSubHead) bool { return f.IsActive },
		Validate: func(f *domain.FeeSubHead) error {
			f.Name = strings.TrimSpace(f.Name)
			if err := checkName(f.Name); err != nil {
				return err
			}
			if f.FeeHeadID == 0 {
				return ErrMissingParent
			}
			return nil
		},
	}
}

func FeeNameDescriptor() ResourceDescriptor[domain.FeeName] {
	return ResourceDescriptor[domain.FeeName]{
		Tag:        TagFeeName,
		NameColumn: "name",
		NameOf:     func(f *domain.FeeName) string { return f.Name },
		ActiveOf:   func(f *domain.FeeName) bool { return f.IsActive },
		Validate: func(f *domain.FeeName) error {
			f.Name = strings.TrimSpace(f.Name)
			return checkName(f.Name)
		},
	}
}

func FeePackageDescriptor() ResourceDescriptor[domain.FeePackage] {
	return ResourceDescriptor[domain.FeePackage]{
		Tag:        TagFeePackage,
		NameColumn: "name",
		NameOf:     func(f *domain.FeePackage) string { return f.Name },
		ActiveOf:   func(f *domain.FeePackage) bool { return f.IsActive },
		Validate: func(f *domain.FeePackage) error {
			f.Name = strings.TrimSpace(f.Name)
			if err := checkName(f.Name); err != nil {
				return err
			}
			if f.FeeNameID == 0 {
				return ErrMissingParent
			}
			if f.Amount <= 0 {
				return ErrInvalidAmount
			}
			return nil
		},
	}
}

func MealNameDescriptor() ResourceDescriptor[domain.MealName] {
	return ResourceDescriptor[domain.MealName]{
		Tag:        TagMealName,
		NameColumn: "name",
		NameOf:     func(m *domain.MealName) string { return m.Name },
		Validate: func(m *domain.MealName) error {
			m.Name = strings.TrimSpace(m.Name)
			return checkName(m.Name)
		},
	}
}

func MealItemDescriptor() ResourceDescriptor[domain.MealItem] {
	return ResourceDescriptor[domain.MealItem]{
		Tag:        TagMealItem,
		NameColumn: "name",
		NameOf:     func(m *domain.MealItem) string { return m.Name },
		ActiveOf:   func(m *domain.MealItem) bool { return m.IsActive },
		Validate: func(m *domain.MealItem) error {
			m.Name = strings.TrimSpace(m.Name)
			return checkName(m.Name)
		},
	}
}

func FundDescriptor() ResourceDescriptor[domain.Fund] {
	return ResourceDescriptor[domain.Fund]{
		Tag:        TagFund,
		NameColumn: "name",
		NameOf:     func(f *domain.Fund) string { return f.Name },
		ActiveOf:   func(f *domain.Fund) bool { return f.IsActive },
		Validate: func(f *domain.Fund) error {
			f.Name = strings.TrimSpace(f.Name)
			return checkName(f.Name)
		},
	}
}
