package tenant

import "gorm.io/gorm"

func Scope(propertyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("property_id = ?", propertyID)
	}
}
