package inventory

import (
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type StockResponse struct {
	ID          uint   `json:"id"`
	ProductID   uint   `json:"productId"`
	ProductCode string `json:"productCode"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	AlertLevel  int    `json:"alertLevel"`
	BelowAlert  bool   `json:"belowAlert"`
}

// GET /api/stock
// Current on-hand quantities, one row per product that has ever been
// supplied. Mutations go through the supply transaction engine only.
func ListStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var stocks []models.Stock
		if err := database.DB.
			Preload("Product").
			Order("product_id ASC").
			Find(&stocks).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch stock levels")
		}

		resp := make([]StockResponse, 0, len(stocks))
		for _, s := range stocks {
			resp = append(resp, StockResponse{
				ID:          s.ID,
				ProductID:   s.ProductID,
				ProductCode: s.Product.Code,
				ProductName: s.Product.Name,
				Quantity:    s.Quantity,
				AlertLevel:  s.AlertLevel,
				BelowAlert:  s.AlertLevel > 0 && s.Quantity <= s.AlertLevel,
			})
		}

		return c.JSON(resp)
	}
}

// GET /api/stock/:productId
func GetStockByProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		productID, err := c.ParamsInt("productId")
		if err != nil || productID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}

		var stock models.Stock
		if err := database.DB.
			Preload("Product").
			First(&stock, "product_id = ?", productID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "No stock entry for this product")
		}

		return c.JSON(StockResponse{
			ID:          stock.ID,
			ProductID:   stock.ProductID,
			ProductCode: stock.Product.Code,
			ProductName: stock.Product.Name,
			Quantity:    stock.Quantity,
			AlertLevel:  stock.AlertLevel,
			BelowAlert:  stock.AlertLevel > 0 && stock.Quantity <= stock.AlertLevel,
		})
	}
}
