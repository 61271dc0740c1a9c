package models

// Stock: current on-hand quantity for one product, at most one row per
// product. Created lazily by the first supply line item for the product and
// mutated only through atomic increments/decrements; Quantity never goes
// below zero.
type Stock struct {
	ID         uint `gorm:"primaryKey"`
	ProductID  uint `gorm:"uniqueIndex;not null"`
	Product    Product
	Quantity   int `gorm:"not null;default:0"`
	AlertLevel int `gorm:"default:0"`
}
