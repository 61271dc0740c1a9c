package main

import (
	"log"
	"strings"

	"pos-backend/internal/audit"
	"pos-backend/internal/config"
	"pos-backend/internal/database"
	"pos-backend/internal/inventory"
	"pos-backend/internal/supplier"
	"pos-backend/internal/supply"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Supplies (transactional: stock is adjusted with the supply records)
	api.Post("/supplies", supply.CreateSupplyHandler())
	api.Get("/supplies", supply.ListSuppliesHandler())
	api.Get("/supplies/:id", supply.GetSupplyHandler())
	api.Delete("/supplies/:id", supply.DeleteSupplyHandler())

	// Supply line items
	api.Get("/supplyDetails", supply.ListSupplyDetailsHandler())
	api.Post("/supplyDetails", supply.CreateSupplyDetailHandler())
	api.Delete("/supplyDetails/:id", supply.DeleteSupplyDetailHandler())

	// Suppliers
	api.Post("/fournisseurs", supplier.CreateSupplierHandler())
	api.Get("/fournisseurs", supplier.ListSuppliersHandler())
	api.Get("/fournisseurs/:id", supplier.GetSupplierHandler())
	api.Put("/fournisseurs/:id", supplier.UpdateSupplierHandler())
	api.Delete("/fournisseurs/:id", supplier.DeleteSupplierHandler())

	// Stock ledger (read-only, written by the supply engine)
	api.Get("/stock", inventory.ListStockHandler())
	api.Get("/stock/:productId", inventory.GetStockByProductHandler())

	// Audit trail
	api.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server running on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
