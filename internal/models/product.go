package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            uint   `gorm:"primaryKey"`
	Code          string `gorm:"size:10;not null;unique"`
	Name          string `gorm:"size:100;not null"`
	FamilyID      uint   `gorm:"index;not null"`
	Family        Family
	PurchasePrice decimal.Decimal `gorm:"type:decimal(10,2);default:0.00"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(10,2);default:0.00"`
	AlertLevel    int             `gorm:"default:0"` // low-stock warning threshold
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
