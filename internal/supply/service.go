package supply

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pos-backend/internal/audit"
	"pos-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tagged error kinds so handlers and tests can branch on the failure cause
// instead of matching message strings.
var (
	ErrSupplyNotFound = errors.New("supply not found")
	ErrDetailNotFound = errors.New("supply detail not found")
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

type LineItemInput struct {
	ProductID uint
	Quantity  int
	UnitPrice decimal.Decimal
}

type CreateSupplyInput struct {
	SupplierID uint
	Reference  string
	SupplyDate time.Time // zero value means "now"
	LineItems  []LineItemInput
}

type AddDetailInput struct {
	SupplyID  uint
	ProductID uint
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateSupply inserts the supply header, its line items in input order, and
// the matching stock increments as one all-or-nothing unit of work. Nothing
// survives a failure on any line item.
func CreateSupply(db *gorm.DB, in CreateSupplyInput) (*models.Supply, error) {
	if in.SupplierID == 0 {
		return nil, validationf("supplierId is required")
	}
	reference := strings.TrimSpace(in.Reference)
	if reference == "" {
		return nil, validationf("reference is required")
	}
	if len(in.LineItems) == 0 {
		return nil, validationf("at least one line item is required")
	}
	for i, item := range in.LineItems {
		if item.ProductID == 0 || item.Quantity <= 0 || !item.UnitPrice.IsPositive() {
			return nil, validationf("line item %d: productId, quantity and unitPrice must all be positive", i+1)
		}
	}

	var supplier models.Supplier
	if err := db.First(&supplier, "id = ?", in.SupplierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("supplier %d not found", in.SupplierID)
		}
		return nil, fmt.Errorf("check supplier: %w", err)
	}

	supplyDate := in.SupplyDate
	if supplyDate.IsZero() {
		supplyDate = time.Now()
	}

	supply := models.Supply{
		SupplierID: in.SupplierID,
		Reference:  reference,
		SupplyDate: supplyDate,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&supply).Error; err != nil {
			return fmt.Errorf("create supply header: %w", err)
		}

		// Line items strictly in input order.
		for i, item := range in.LineItems {
			var product models.Product
			if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return validationf("line item %d: product %d not found", i+1, item.ProductID)
				}
				return fmt.Errorf("check product %d: %w", item.ProductID, err)
			}

			detail := models.SupplyDetail{
				SupplyID:   supply.ID,
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				UnitPrice:  item.UnitPrice,
				TotalPrice: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
			}
			if err := tx.Create(&detail).Error; err != nil {
				return fmt.Errorf("create line item %d: %w", i+1, err)
			}

			if err := incrementStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = audit.WriteLog(db, audit.LogOptions{
		EntityType:  "supply",
		EntityID:    supply.ID,
		Action:      models.AuditActionCreate,
		Description: fmt.Sprintf("Supply created: %s (%d line items)", supply.Reference, len(in.LineItems)),
		After:       supply,
	})

	return &supply, nil
}

// DeleteSupply removes the header and its line items and rolls their stock
// contributions back, atomically. The line items are removed explicitly
// rather than through the schema-level cascade so the cleanup stays visible
// here and portable across storage engines.
func DeleteSupply(db *gorm.DB, id uint) error {
	var supply models.Supply
	if err := db.First(&supply, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSupplyNotFound
		}
		return fmt.Errorf("load supply: %w", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		// Read the line items first, the stock rollback needs them.
		var details []models.SupplyDetail
		if err := tx.Where("supply_id = ?", supply.ID).Find(&details).Error; err != nil {
			return fmt.Errorf("load line items: %w", err)
		}

		if err := tx.Where("supply_id = ?", supply.ID).Delete(&models.SupplyDetail{}).Error; err != nil {
			return fmt.Errorf("delete line items: %w", err)
		}
		if err := tx.Delete(&models.Supply{}, "id = ?", supply.ID).Error; err != nil {
			return fmt.Errorf("delete supply header: %w", err)
		}

		for _, d := range details {
			if err := decrementStock(tx, d.ProductID, d.Quantity); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	_ = audit.WriteLog(db, audit.LogOptions{
		EntityType:  "supply",
		EntityID:    supply.ID,
		Action:      models.AuditActionDelete,
		Description: fmt.Sprintf("Supply deleted: %s", supply.Reference),
		Before:      supply,
	})

	return nil
}

// AddDetail appends one line item to an existing supply and applies its stock
// increment in the same unit of work. TotalPrice is always recomputed here,
// never taken from the caller.
func AddDetail(db *gorm.DB, in AddDetailInput) (*models.SupplyDetail, error) {
	if in.ProductID == 0 || in.Quantity <= 0 || !in.UnitPrice.IsPositive() {
		return nil, validationf("productId, quantity and unitPrice must all be positive")
	}

	var supply models.Supply
	if err := db.First(&supply, "id = ?", in.SupplyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplyNotFound
		}
		return nil, fmt.Errorf("load supply: %w", err)
	}

	var product models.Product
	if err := db.First(&product, "id = ?", in.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("product %d not found", in.ProductID)
		}
		return nil, fmt.Errorf("check product: %w", err)
	}

	detail := models.SupplyDetail{
		SupplyID:   supply.ID,
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		UnitPrice:  in.UnitPrice,
		TotalPrice: in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&detail).Error; err != nil {
			return fmt.Errorf("create line item: %w", err)
		}
		return incrementStock(tx, in.ProductID, in.Quantity)
	})
	if err != nil {
		return nil, err
	}

	_ = audit.WriteLog(db, audit.LogOptions{
		EntityType:  "supply_detail",
		EntityID:    detail.ID,
		Action:      models.AuditActionCreate,
		Description: fmt.Sprintf("Line item added to supply %s: product %d x%d", supply.Reference, detail.ProductID, detail.Quantity),
		After:       detail,
	})

	return &detail, nil
}

// DeleteDetail retires a single line item: the degenerate case of
// DeleteSupply's per-item rollback, scoped to one row.
func DeleteDetail(db *gorm.DB, detailID uint) error {
	var detail models.SupplyDetail
	if err := db.First(&detail, "id = ?", detailID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDetailNotFound
		}
		return fmt.Errorf("load line item: %w", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.SupplyDetail{}, "id = ?", detail.ID).Error; err != nil {
			return fmt.Errorf("delete line item: %w", err)
		}
		return decrementStock(tx, detail.ProductID, detail.Quantity)
	})
	if err != nil {
		return err
	}

	_ = audit.WriteLog(db, audit.LogOptions{
		EntityType:  "supply_detail",
		EntityID:    detail.ID,
		Action:      models.AuditActionDelete,
		Description: fmt.Sprintf("Line item deleted from supply %d: product %d x%d", detail.SupplyID, detail.ProductID, detail.Quantity),
		Before:      detail,
	})

	return nil
}

// incrementStock applies the increment as a single SQL statement so two
// concurrent supplies touching the same product cannot lose an update. The
// ledger row is created lazily on the first supply for the product.
func incrementStock(tx *gorm.DB, productID uint, qty int) error {
	res := tx.Model(&models.Stock{}).
		Where("product_id = ?", productID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return fmt.Errorf("increment stock for product %d: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		if err := tx.Create(&models.Stock{ProductID: productID, Quantity: qty}).Error; err != nil {
			return fmt.Errorf("create stock for product %d: %w", productID, err)
		}
	}
	return nil
}

// decrementStock applies the decrement as a single SQL statement, floored at
// zero. When the floor absorbs part of the decrement, the true delta is kept
// on the audit trail inside the same transaction so the ledger's lossiness
// stays accountable.
func decrementStock(tx *gorm.DB, productID uint, qty int) error {
	var stock models.Stock
	err := tx.First(&stock, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// No ledger row for this product, nothing to roll back.
		return nil
	}
	if err != nil {
		return fmt.Errorf("load stock for product %d: %w", productID, err)
	}

	res := tx.Model(&models.Stock{}).
		Where("product_id = ?", productID).
		UpdateColumn("quantity", gorm.Expr("CASE WHEN quantity >= ? THEN quantity - ? ELSE 0 END", qty, qty))
	if res.Error != nil {
		return fmt.Errorf("decrement stock for product %d: %w", productID, res.Error)
	}

	if stock.Quantity < qty {
		if err := audit.WriteLog(tx, audit.LogOptions{
			EntityType:  "stock",
			EntityID:    stock.ID,
			Action:      models.AuditActionClamp,
			Description: fmt.Sprintf("Stock for product %d floored at 0 (had %d, removed %d)", productID, stock.Quantity, qty),
			Before:      map[string]interface{}{"quantity": stock.Quantity},
			After:       map[string]interface{}{"quantity": 0},
		}); err != nil {
			return err
		}
	}

	return nil
}
