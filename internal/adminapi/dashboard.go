package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/frostcart/frostcart/internal/domain"
	"github.com/frostcart/frostcart/internal/webserver"
	"github.com/frostcart/frostcart/pkg/common"
)

func registerDashboardRoutes() {
	webserver.ApiGET("/dashboard/stats", dashboardStats, webserver.AdminOnly)
	webserver.ApiGET("/dashboard/recent-sales", recentSales, webserver.AdminOnly)
	webserver.ApiGET("/dashboard/active-carts", activeCarts, webserver.AdminOnly)
}

func dashboardStats(c echo.Context) error {
	db := GetDB(c)
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var activeCarts, products, activeEmployees, salesToday int64
	db.Model(&domain.Cart{}).Where("status = ?", domain.CartActive).Count(&activeCarts)
	db.Model(&domain.Product{}).Count(&products)
	db.Model(&domain.SysUser{}).
		Where("role = ? AND status = ?", domain.RoleVendor, common.ENABLED).
		Count(&activeEmployees)
	db.Model(&domain.Sale{}).Where("sold_at >= ?", midnight).Count(&salesToday)

	var revenueToday float64
	db.Table("sale_lines sl").
		Joins("INNER JOIN sales s ON s.id = sl.sale_id").
		Where("s.sold_at >= ?", midnight).
		Select("COALESCE(SUM(sl.qty * sl.unit_price), 0)").
		Scan(&revenueToday)

	return ok(c, map[string]interface{}{
		"activeCarts":     activeCarts,
		"salesToday":      salesToday,
		"revenueToday":    revenueToday,
		"products":        products,
		"activeEmployees": activeEmployees,
	})
}

type recentSaleRow struct {
	SaleID   int64     `json:"sale_id,string" gorm:"column:sale_id"`
	SoldAt   time.Time `json:"sold_at"`
	Employee string    `json:"employee"`
	Client   string    `json:"client"`
	Total    float64   `json:"total"`
}

func recentSales(c echo.Context) error {
	var rows []recentSaleRow
	err := GetDB(c).
		Table("sales s").
		Select("s.id AS sale_id, s.sold_at, " +
			"e.name || ' ' || e.surname AS employee, " +
			"cl.name || ' ' || cl.surname AS client, " +
			"SUM(sl.qty * sl.unit_price) AS total").
		Joins("INNER JOIN employees e ON e.id = s.employee_id").
		Joins("INNER JOIN clients cl ON cl.id = s.client_id").
		Joins("INNER JOIN sale_lines sl ON sl.sale_id = s.id").
		Group("s.id, s.sold_at, e.name, e.surname, cl.name, cl.surname").
		Order("s.sold_at DESC").
		Limit(5).
		Scan(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sales", nil)
	}
	return ok(c, rows)
}

type activeCartRow struct {
	CartID    int64     `json:"cart_id,string" gorm:"column:cart_id"`
	Code      string    `json:"code"`
	Location  string    `json:"location"`
	Employee  string    `json:"employee"`
	StartedAt time.Time `json:"started_at"`
}

func activeCarts(c echo.Context) error {
	var rows []activeCartRow
	err := GetDB(c).
		Table("carts c").
		Select("c.id AS cart_id, c.code, c.location, "+
			"e.name || ' ' || e.surname AS employee, ca.started_at").
		Joins("INNER JOIN cart_assignments ca ON ca.cart_id = c.id AND ca.ended_at IS NULL").
		Joins("INNER JOIN employees e ON e.id = ca.employee_id").
		Where("c.status = ?", domain.CartActive).
		Order("ca.started_at").
		Scan(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query carts", nil)
	}
	return ok(c, rows)
}
