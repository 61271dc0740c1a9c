package models

import "time"

type Supplier struct {
	ID            uint   `gorm:"primaryKey"`
	FirstName     string `gorm:"size:100;not null"`
	LastName      string `gorm:"size:100;not null"`
	Address       string `gorm:"size:200;not null"`
	ContactPerson string `gorm:"size:100;not null"`
	Email         string `gorm:"size:255;not null"`
	PhoneNumber   string `gorm:"size:20;not null;unique"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
