package models

import "gorm.io/gorm"

// All returns every model in dependency order for auto-migration
func All() []interface{} {
	return []interface{}{
		&User{},
		&AuthToken{},
		&FurnitureCategory{},
		&Furniture{},
		&FurnitureLike{},
		&Order{},
		&OrderItem{},
		&Review{},
	}
}

// AutoMigrate creates or updates the schema for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
