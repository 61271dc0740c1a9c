package supply

import (
	"errors"
	"log"
	"time"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type LineItemRequest struct {
	ProductID uint            `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type CreateSupplyRequest struct {
	SupplierID uint              `json:"supplierId"`
	Reference  string            `json:"reference"`
	SupplyDate string            `json:"supplyDate"` // optional, "2006-01-02"
	LineItems  []LineItemRequest `json:"lineItems"`
}

type CreateDetailRequest struct {
	SupplyID  uint            `json:"supplyId"`
	ProductID uint            `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	// Accepted for wire compatibility with older clients but ignored,
	// the engine always recomputes the total.
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type SupplyResponse struct {
	ID         uint   `json:"id"`
	SupplierID uint   `json:"supplierId"`
	Reference  string `json:"reference"`
	SupplyDate string `json:"supplyDate"`
	CreatedAt  string `json:"createdAt"`
}

type SupplierSummary struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type SupplyDetailResponse struct {
	ID          uint   `json:"id"`
	SupplyID    uint   `json:"supplyId"`
	ProductID   uint   `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	TotalPrice  string `json:"totalPrice"`
}

type SupplyListResponse struct {
	SupplyResponse
	Supplier  *SupplierSummary       `json:"supplier,omitempty"`
	LineItems []SupplyDetailResponse `json:"lineItems"`
}

// POST /api/supplies
func CreateSupplyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSupplyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var supplyDate time.Time
		if body.SupplyDate != "" {
			d, err := time.Parse("2006-01-02", body.SupplyDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "supplyDate must be 'YYYY-MM-DD'")
			}
			supplyDate = d
		}

		in := CreateSupplyInput{
			SupplierID: body.SupplierID,
			Reference:  body.Reference,
			SupplyDate: supplyDate,
		}
		for _, item := range body.LineItems {
			in.LineItems = append(in.LineItems, LineItemInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}

		created, err := CreateSupply(database.DB, in)
		if err != nil {
			return httpError(err, "Failed to create supply")
		}

		return c.Status(fiber.StatusCreated).JSON(toSupplyResponse(created))
	}
}

// GET /api/supplies
func ListSuppliesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var supplies []models.Supply
		if err := database.DB.
			Preload("Supplier").
			Preload("Details").
			Order("created_at DESC, id DESC").
			Find(&supplies).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch supplies")
		}

		resp := make([]SupplyListResponse, 0, len(supplies))
		for i := range supplies {
			resp = append(resp, toSupplyListResponse(&supplies[i], false))
		}

		return c.JSON(resp)
	}
}

// GET /api/supplies/:id
func GetSupplyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid supply id")
		}

		var supply models.Supply
		if err := database.DB.
			Preload("Supplier").
			Preload("Details.Product").
			First(&supply, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Supply not found")
		}

		return c.JSON(toSupplyListResponse(&supply, true))
	}
}

// DELETE /api/supplies/:id
func DeleteSupplyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid supply id")
		}

		if err := DeleteSupply(database.DB, uint(id)); err != nil {
			return httpError(err, "Failed to delete supply")
		}

		return c.JSON(fiber.Map{"message": "Supply deleted successfully"})
	}
}

// GET /api/supplyDetails
func ListSupplyDetailsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var details []models.SupplyDetail
		if err := database.DB.Order("id ASC").Find(&details).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch supply details")
		}

		resp := make([]SupplyDetailResponse, 0, len(details))
		for i := range details {
			resp = append(resp, toDetailResponse(&details[i], false))
		}

		return c.JSON(resp)
	}
}

// POST /api/supplyDetails
func CreateSupplyDetailHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDetailRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.SupplyID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "supplyId is required")
		}

		detail, err := AddDetail(database.DB, AddDetailInput{
			SupplyID:  body.SupplyID,
			ProductID: body.ProductID,
			Quantity:  body.Quantity,
			UnitPrice: body.UnitPrice,
		})
		if err != nil {
			return httpError(err, "Failed to create supply detail")
		}

		return c.Status(fiber.StatusCreated).JSON(toDetailResponse(detail, false))
	}
}

// DELETE /api/supplyDetails/:id
func DeleteSupplyDetailHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid supply detail id")
		}

		if err := DeleteDetail(database.DB, uint(id)); err != nil {
			return httpError(err, "Failed to delete supply detail")
		}

		return c.JSON(fiber.Map{"message": "Supply detail deleted successfully"})
	}
}

// httpError maps engine errors onto HTTP status codes. Causes of unexpected
// failures are logged server-side and never returned to the caller.
func httpError(err error, fallback string) error {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.NewError(fiber.StatusBadRequest, verr.Msg)
	case errors.Is(err, ErrSupplyNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Supply not found")
	case errors.Is(err, ErrDetailNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Supply detail not found")
	default:
		log.Println(fallback+":", err)
		return fiber.NewError(fiber.StatusInternalServerError, fallback)
	}
}

func toSupplyResponse(s *models.Supply) SupplyResponse {
	return SupplyResponse{
		ID:         s.ID,
		SupplierID: s.SupplierID,
		Reference:  s.Reference,
		SupplyDate: s.SupplyDate.Format("2006-01-02"),
		CreatedAt:  s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toSupplyListResponse(s *models.Supply, withProductNames bool) SupplyListResponse {
	resp := SupplyListResponse{
		SupplyResponse: toSupplyResponse(s),
		LineItems:      make([]SupplyDetailResponse, 0, len(s.Details)),
	}
	if s.Supplier.ID != 0 {
		resp.Supplier = &SupplierSummary{
			ID:        s.Supplier.ID,
			FirstName: s.Supplier.FirstName,
			LastName:  s.Supplier.LastName,
		}
	}
	for i := range s.Details {
		resp.LineItems = append(resp.LineItems, toDetailResponse(&s.Details[i], withProductNames))
	}
	return resp
}

func toDetailResponse(d *models.SupplyDetail, withProductName bool) SupplyDetailResponse {
	resp := SupplyDetailResponse{
		ID:         d.ID,
		SupplyID:   d.SupplyID,
		ProductID:  d.ProductID,
		Quantity:   d.Quantity,
		UnitPrice:  d.UnitPrice.StringFixed(2),
		TotalPrice: d.TotalPrice.StringFixed(2),
	}
	if withProductName {
		resp.ProductName = d.Product.Name
	}
	return resp
}
