package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supply: one purchase from a supplier (can contain multiple products).
// Created and deleted only through the supply transaction engine.
type Supply struct {
	ID         uint `gorm:"primaryKey"`
	SupplierID uint `gorm:"index;not null"`
	Supplier   Supplier
	Reference  string    `gorm:"size:50;not null;unique"`
	SupplyDate time.Time `gorm:"index;not null"`
	CreatedAt  time.Time

	Details []SupplyDetail `gorm:"foreignKey:SupplyID;constraint:OnDelete:CASCADE"`
}

// SupplyDetail: one product line within a supply. TotalPrice is computed as
// Quantity * UnitPrice at write time and persisted, never re-derived.
type SupplyDetail struct {
	ID        uint `gorm:"primaryKey"`
	SupplyID  uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}
