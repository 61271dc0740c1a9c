package supplier

import (
	"fmt"
	"log"
	"strings"

	"pos-backend/internal/audit"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateSupplierRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Address       string `json:"address"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phoneNumber"`
}

type UpdateSupplierRequest struct {
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	Address       *string `json:"address"`
	ContactPerson *string `json:"contactPerson"`
	Email         *string `json:"email"`
	PhoneNumber   *string `json:"phoneNumber"`
}

type SupplierResponse struct {
	ID            uint   `json:"id"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Address       string `json:"address"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phoneNumber"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// POST /api/fournisseurs
func CreateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if strings.TrimSpace(body.FirstName) == "" || strings.TrimSpace(body.LastName) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "firstName and lastName are required")
		}
		if strings.TrimSpace(body.PhoneNumber) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "phoneNumber is required")
		}

		supplier := models.Supplier{
			FirstName:     strings.TrimSpace(body.FirstName),
			LastName:      strings.TrimSpace(body.LastName),
			Address:       strings.TrimSpace(body.Address),
			ContactPerson: strings.TrimSpace(body.ContactPerson),
			Email:         strings.TrimSpace(body.Email),
			PhoneNumber:   strings.TrimSpace(body.PhoneNumber),
		}

		if err := database.DB.Create(&supplier).Error; err != nil {
			log.Println("Failed to create supplier:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create supplier")
		}

		_ = audit.WriteLog(database.DB, audit.LogOptions{
			EntityType:  "supplier",
			EntityID:    supplier.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Supplier created: %s %s", supplier.FirstName, supplier.LastName),
			After:       supplier,
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(&supplier))
	}
}

// GET /api/fournisseurs
func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var suppliers []models.Supplier
		if err := database.DB.Order("last_name ASC, first_name ASC").Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to list suppliers")
		}

		resp := make([]SupplierResponse, 0, len(suppliers))
		for i := range suppliers {
			resp = append(resp, toResponse(&suppliers[i]))
		}

		return c.JSON(resp)
	}
}

// GET /api/fournisseurs/:id
func GetSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid supplier id")
		}

		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}

		return c.JSON(toResponse(&supplier))
	}
}

// PUT /api/fournisseurs/:id
func UpdateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid supplier id")
		}

		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}

		var body UpdateSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		before := supplier

		updated := false
		if body.FirstName != nil {
			name := strings.TrimSpace(*body.FirstName)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "firstName cannot be empty")
			}
			supplier.FirstName = name
			updated = true
		}
		if body.LastName != nil {
			name := strings.TrimSpace(*body.LastName)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "lastName cannot be empty")
			}
			supplier.LastName = name
			updated = true
		}
		if body.Address != nil {
			supplier.Address = strings.TrimSpace(*body.Address)
			updated = true
		}
		if body.ContactPerson != nil {
			supplier.ContactPerson = strings.TrimSpace(*body.ContactPerson)
			updated = true
		}
		if body.Email != nil {
			supplier.Email = strings.TrimSpace(*body.Email)
			updated = true
		}
		if body.PhoneNumber != nil {
			phone := strings.TrimSpace(*body.PhoneNumber)
			if phone == "" {
				return fiber.NewError(fiber.StatusBadRequest, "phoneNumber cannot be empty")
			}
			supplier.PhoneNumber = phone
			updated = true
		}

		if !updated {
			return c.JSON(toResponse(&supplier))
		}

		if err := database.DB.Save(&supplier).Error; err != nil {
			log.Println("Failed to update supplier:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update supplier")
		}

		_ = audit.WriteLog(database.DB, audit.LogOptions{
			EntityType:  "supplier",
			EntityID:    supplier.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Supplier updated: %s %s", supplier.FirstName, supplier.LastName),
			Before:      before,
			After:       supplier,
		})

		return c.JSON(toResponse(&supplier))
	}
}

// DELETE /api/fournisseurs/:id
// Suppliers referenced by existing supplies cannot be removed.
func DeleteSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid supplier id")
		}

		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}

		var supplyCount int64
		database.DB.Model(&models.Supply{}).Where("supplier_id = ?", supplier.ID).Count(&supplyCount)
		if supplyCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Supplier has %d supplies, delete them first", supplyCount))
		}

		if err := database.DB.Delete(&supplier).Error; err != nil {
			log.Println("Failed to delete supplier:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete supplier")
		}

		_ = audit.WriteLog(database.DB, audit.LogOptions{
			EntityType:  "supplier",
			EntityID:    supplier.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Supplier deleted: %s %s", supplier.FirstName, supplier.LastName),
			Before:      supplier,
		})

		return c.JSON(fiber.Map{"message": "Supplier deleted successfully"})
	}
}

func toResponse(s *models.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:            s.ID,
		FirstName:     s.FirstName,
		LastName:      s.LastName,
		Address:       s.Address,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		PhoneNumber:   s.PhoneNumber,
		CreatedAt:     s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:     s.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
