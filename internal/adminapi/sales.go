package adminapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/labstack/echo/v4"

	"github.com/frostcart/frostcart/internal/vending"
	"github.com/frostcart/frostcart/internal/webserver"
)

type salePayload struct {
	ClientID   int64  `json:"clientId"`
	EmployeeID int64  `json:"employeeId"`
	CartID     *int64 `json:"cartId"`
	Items      []struct {
		ProductID int64   `json:"productId"`
		Quantity  int     `json:"quantity"`
		UnitPrice float64 `json:"unitPrice"`
	} `json:"items"`
}

func registerSaleRoutes() {
	webserver.ApiPOST("/sales", recordSale)
	webserver.ApiGET("/sales/my-sales/:employeeId", mySalesToday)
	webserver.ApiGET("/sales/export", exportSales, webserver.AdminOnly)
	webserver.ApiGET("/sales/:id", saleDetail)
}

func recordSale(c echo.Context) error {
	var payload salePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse sale", nil)
	}

	lines := make([]vending.SaleLineInput, 0, len(payload.Items))
	for _, item := range payload.Items {
		lines = append(lines, vending.SaleLineInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	saleID, err := GetApp(c).Sales().Record(c.Request().Context(),
		payload.ClientID, payload.EmployeeID, payload.CartID, lines)
	if err != nil {
		return failVending(c, err)
	}
	return created(c, map[string]interface{}{"sale_id": saleID})
}

func mySalesToday(c echo.Context) error {
	employeeID, err := parseIDParam(c, "employeeId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid employee ID", nil)
	}
	rows, err := GetApp(c).Sales().EmployeeSalesToday(c.Request().Context(), employeeID)
	if err != nil {
		return failVending(c, err)
	}
	return ok(c, rows)
}

func saleDetail(c echo.Context) error {
	saleID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid sale ID", nil)
	}
	lines, err := GetApp(c).Sales().Detail(c.Request().Context(), saleID)
	if err != nil {
		return failVending(c, err)
	}
	return ok(c, lines)
}

type exportRow struct {
	SaleID   int64     `gorm:"column:sale_id"`
	SoldAt   time.Time `gorm:"column:sold_at"`
	Employee string    `gorm:"column:employee"`
	Client   string    `gorm:"column:client"`
	CartCode string    `gorm:"column:cart_code"`
	Total    float64   `gorm:"column:total"`
}

// exportSales streams an xlsx report of sales in the requested date
// range. Query params `from` and `to` take YYYY-MM-DD; defaults are the
// current month.
func exportSales(c echo.Context) error {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now
	if v := c.QueryParam("from"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, now.Location())
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid from date", nil)
		}
		from = t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, now.Location())
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid to date", nil)
		}
		to = t.Add(24 * time.Hour)
	}

	var rows []exportRow
	err := GetDB(c).
		Table("sales s").
		Select("s.id AS sale_id, s.sold_at, "+
			"e.name || ' ' || e.surname AS employee, "+
			"cl.name || ' ' || cl.surname AS client, "+
			"COALESCE(ca.code, '') AS cart_code, "+
			"SUM(sl.qty * sl.unit_price) AS total").
		Joins("INNER JOIN employees e ON e.id = s.employee_id").
		Joins("INNER JOIN clients cl ON cl.id = s.client_id").
		Joins("INNER JOIN sale_lines sl ON sl.sale_id = s.id").
		Joins("LEFT JOIN carts ca ON ca.id = s.cart_id").
		Where("s.sold_at >= ? AND s.sold_at < ?", from, to).
		Group("s.id, s.sold_at, e.name, e.surname, cl.name, cl.surname, ca.code").
		Order("s.sold_at").
		Scan(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sales", nil)
	}

	xlsx := excelize.NewFile()
	headers := []string{"Sale ID", "Date", "Employee", "Client", "Cart", "Total"}
	for i, h := range headers {
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("%c1", 'A'+i), h)
	}
	for i, row := range rows {
		r := i + 2
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("A%d", r), row.SaleID)
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("B%d", r), row.SoldAt.Format("2006-01-02 15:04"))
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("C%d", r), row.Employee)
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("D%d", r), row.Client)
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("E%d", r), row.CartCode)
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("F%d", r), row.Total)
	}

	audit(c, "sales.export", fmt.Sprintf("%d sales from %s to %s",
		len(rows), from.Format("2006-01-02"), to.Format("2006-01-02")))

	filename := fmt.Sprintf("sales_%s.xlsx", now.Format("20060102_150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	return xlsx.Write(c.Response())
}
