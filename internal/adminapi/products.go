package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/frostcart/frostcart/internal/domain"
	"github.com/frostcart/frostcart/internal/webserver"
)

type productPayload struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Type         string  `json:"type"`
	StockCentral int     `json:"stockCentral"`
}

func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/my-inventory/:employeeId", myInventory)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct, webserver.AdminOnly)
	webserver.ApiPUT("/products/:id", updateProduct, webserver.AdminOnly)
	webserver.ApiDELETE("/products/:id", deleteProduct, webserver.AdminOnly)
}

func listProducts(c echo.Context) error {
	var rows []domain.Product
	if err := GetDB(c).Order("id").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", nil)
	}
	return ok(c, rows)
}

// myInventory lists the sellable stock of the cart(s) currently
// assigned to the employee, for the point-of-sale screen.
func myInventory(c echo.Context) error {
	employeeID, err := parseIDParam(c, "employeeId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid employee ID", nil)
	}
	items, err := GetApp(c).Ledger().EmployeeInventory(c.Request().Context(), employeeID)
	if err != nil {
		return failVending(c, err)
	}
	return ok(c, items)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", nil)
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" || payload.Price <= 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name and a positive price are required", nil)
	}
	if payload.StockCentral < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Central stock cannot be negative", nil)
	}
	if payload.Type == "" {
		payload.Type = "otro"
	}

	p := domain.Product{
		Name:         payload.Name,
		Description:  payload.Description,
		Price:        payload.Price,
		Type:         payload.Type,
		StockCentral: payload.StockCentral,
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", nil)
	}
	return created(c, map[string]interface{}{"product_id": p.ID})
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", nil)
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" || payload.Price <= 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name and a positive price are required", nil)
	}
	if payload.StockCentral < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Central stock cannot be negative", nil)
	}

	p.Name = payload.Name
	p.Description = payload.Description
	p.Price = payload.Price
	p.Type = payload.Type
	p.StockCentral = payload.StockCentral
	p.UpdatedAt = time.Now()
	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", nil)
	}
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}
