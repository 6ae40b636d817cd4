package adminapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/frostcart/frostcart/internal/domain"
	"github.com/frostcart/frostcart/internal/vending"
	"github.com/frostcart/frostcart/internal/webserver"
)

type cartPayload struct {
	Code     string `json:"code"`
	Location string `json:"location"`
}

type assignPayload struct {
	CartID     int64 `json:"cartId"`
	EmployeeID int64 `json:"employeeId"`
}

type loadInventoryPayload struct {
	CartID int64 `json:"cartId"`
	Items  []struct {
		ProductID int64 `json:"productId"`
		Quantity  int   `json:"quantity"`
	} `json:"items"`
}

func registerCartRoutes() {
	webserver.ApiGET("/carts", listCarts, webserver.AdminOnly)
	webserver.ApiPOST("/carts", createCart, webserver.AdminOnly)
	webserver.ApiPOST("/carts/assign", assignCart, webserver.AdminOnly)
	webserver.ApiPOST("/carts/load-inventory", loadCartInventory, webserver.AdminOnly)
	webserver.ApiPOST("/carts/close/:cartId", closeCart, webserver.AdminOnly)
}

type cartRow struct {
	ID        int64      `json:"id,string"`
	Code      string     `json:"code"`
	Location  string     `json:"location"`
	Status    string     `json:"status"`
	Assignee  string     `json:"assignee"`
	StartedAt *time.Time `json:"started_at"`
}

func listCarts(c echo.Context) error {
	var rows []cartRow
	err := GetDB(c).
		Table("carts c").
		Select("c.id, c.code, c.location, c.status, " +
			"COALESCE(e.name || ' ' || e.surname, '') AS assignee, ca.started_at").
		Joins("LEFT JOIN cart_assignments ca ON ca.cart_id = c.id AND ca.ended_at IS NULL").
		Joins("LEFT JOIN employees e ON e.id = ca.employee_id").
		Order("c.code").
		Scan(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query carts", nil)
	}
	return ok(c, rows)
}

func createCart(c echo.Context) error {
	var payload cartPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart", nil)
	}
	payload.Code = strings.TrimSpace(payload.Code)
	if payload.Code == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Cart code is required", nil)
	}

	var count int64
	if err := GetDB(c).Model(&domain.Cart{}).Where("code = ?", payload.Code).Count(&count).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query carts", nil)
	}
	if count > 0 {
		return fail(c, http.StatusConflict, "DUPLICATE_CART", "A cart with this code already exists", nil)
	}

	cart := domain.Cart{
		Code:     payload.Code,
		Location: payload.Location,
		Status:   domain.CartAvailable,
	}
	if err := GetDB(c).Create(&cart).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create cart", nil)
	}
	audit(c, "cart.create", fmt.Sprintf("cart %s", cart.Code))
	return created(c, map[string]interface{}{"cart_id": cart.ID})
}

func assignCart(c echo.Context) error {
	var payload assignPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse assignment", nil)
	}
	if payload.CartID == 0 || payload.EmployeeID == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "cartId and employeeId are required", nil)
	}

	err := GetApp(c).Lifecycle().Assign(c.Request().Context(), payload.CartID, payload.EmployeeID)
	if err != nil {
		return failVending(c, err)
	}
	audit(c, "cart.assign", fmt.Sprintf("cart %d -> employee %d", payload.CartID, payload.EmployeeID))
	return ok(c, map[string]interface{}{"message": "Cart assigned"})
}

func loadCartInventory(c echo.Context) error {
	var payload loadInventoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse inventory load", nil)
	}
	if payload.CartID == 0 || len(payload.Items) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "cartId and a non-empty items list are required", nil)
	}

	lines := make([]vending.LoadLine, 0, len(payload.Items))
	for _, item := range payload.Items {
		lines = append(lines, vending.LoadLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	err := GetApp(c).Lifecycle().Load(c.Request().Context(), payload.CartID, lines)
	if err != nil {
		return failVending(c, err)
	}
	audit(c, "cart.load", fmt.Sprintf("cart %d loaded %d products", payload.CartID, len(lines)))
	return ok(c, map[string]interface{}{"message": "Inventory loaded"})
}

func closeCart(c echo.Context) error {
	cartID, err := parseIDParam(c, "cartId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid cart ID", nil)
	}
	if err := GetApp(c).Lifecycle().CloseCart(c.Request().Context(), cartID); err != nil {
		return failVending(c, err)
	}
	audit(c, "cart.close", fmt.Sprintf("cart %d closed and reconciled", cartID))
	return ok(c, map[string]interface{}{"message": "Cart closed"})
}
