package database

import (
	"log"

	"pos-backend/internal/config"
	"pos-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Family{},
		&models.Product{},
		&models.Supplier{},
		&models.Supply{},
		&models.SupplyDetail{},
		&models.Stock{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Database connection established, migration complete.")
}
