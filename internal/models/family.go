package models

// Family: product family/category, referenced by products only.
type Family struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;not null"`
}
