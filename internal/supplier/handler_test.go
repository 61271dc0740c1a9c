package supplier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Supplier{},
		&models.Supply{},
		&models.AuditLog{},
	))
	database.DB = db

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unexpected server error"})
		},
	})

	api := app.Group("/api")
	api.Post("/fournisseurs", CreateSupplierHandler())
	api.Get("/fournisseurs", ListSuppliersHandler())
	api.Get("/fournisseurs/:id", GetSupplierHandler())
	api.Put("/fournisseurs/:id", UpdateSupplierHandler())
	api.Delete("/fournisseurs/:id", DeleteSupplierHandler())

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}

	return resp.StatusCode, decoded
}

func TestSupplierCRUD(t *testing.T) {
	app := testApp(t)

	status, created := doJSON(t, app, "POST", "/api/fournisseurs", map[string]any{
		"firstName":     "Awa",
		"lastName":      "Diallo",
		"address":       "12 Rue des Halles",
		"contactPerson": "Awa Diallo",
		"email":         "awa@example.com",
		"phoneNumber":   "+221770000001",
	})
	require.Equal(t, fiber.StatusCreated, status)
	id := int(created["id"].(float64))
	assert.Equal(t, "Diallo", created["lastName"])

	status, got := doJSON(t, app, "GET", fmt.Sprintf("/api/fournisseurs/%d", id), nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Awa", got["firstName"])

	status, updated := doJSON(t, app, "PUT", fmt.Sprintf("/api/fournisseurs/%d", id), map[string]any{
		"phoneNumber": "+221770000002",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "+221770000002", updated["phoneNumber"])

	status, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/api/fournisseurs/%d", id), nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = doJSON(t, app, "GET", fmt.Sprintf("/api/fournisseurs/%d", id), nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestCreateSupplierValidation(t *testing.T) {
	app := testApp(t)

	status, body := doJSON(t, app, "POST", "/api/fournisseurs", map[string]any{
		"firstName": "Awa",
	})
	require.Equal(t, fiber.StatusBadRequest, status)
	assert.NotEmpty(t, body["error"])
}

func TestDeleteSupplierWithSuppliesRefused(t *testing.T) {
	app := testApp(t)

	status, created := doJSON(t, app, "POST", "/api/fournisseurs", map[string]any{
		"firstName":     "Awa",
		"lastName":      "Diallo",
		"address":       "12 Rue des Halles",
		"contactPerson": "Awa Diallo",
		"email":         "awa@example.com",
		"phoneNumber":   "+221770000001",
	})
	require.Equal(t, fiber.StatusCreated, status)
	id := uint(created["id"].(float64))

	require.NoError(t, database.DB.Create(&models.Supply{
		SupplierID: id,
		Reference:  "SUP-1",
		SupplyDate: time.Now(),
	}).Error)

	status, body := doJSON(t, app, "DELETE", fmt.Sprintf("/api/fournisseurs/%d", id), nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.NotEmpty(t, body["error"])
}
