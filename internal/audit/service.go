package audit

import (
	"encoding/json"
	"fmt"

	"pos-backend/internal/models"

	"gorm.io/gorm"
)

type LogOptions struct {
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog records one audit row. The db handle may be a transaction: the
// engine writes clamp events inside its unit of work so the trail commits or
// rolls back together with the stock mutation.
func WriteLog(db *gorm.DB, opts LogOptions) error {
	// PostgreSQL jsonb rejects the empty string, use the "null" JSON literal
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := db.Create(&entry).Error; err != nil {
		return fmt.Errorf("audit log not saved: %w", err)
	}

	return nil
}
