package models

// FurnitureCategory groups furniture items
type FurnitureCategory struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

// TableName specifies the table name for the FurnitureCategory model
func (FurnitureCategory) TableName() string {
	return "furniture_categories"
}
