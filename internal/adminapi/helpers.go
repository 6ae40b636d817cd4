package adminapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/frostcart/frostcart/internal/app"
	"github.com/frostcart/frostcart/internal/domain"
	"github.com/frostcart/frostcart/internal/vending"
	"github.com/frostcart/frostcart/internal/webserver"
)

// GetDB returns the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(webserver.ContextDBKey).(*gorm.DB)
}

// GetApp returns the application context.
func GetApp(c echo.Context) app.AppContext {
	return c.Get(webserver.ContextAppKey).(app.AppContext)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	body := map[string]interface{}{
		"code":    code,
		"message": message,
	}
	if detail != nil {
		body["detail"] = detail
	}
	return c.JSON(status, body)
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":    rows,
		"total":   total,
		"page":    page,
		"perPage": pageSize,
	})
}

func parsePagination(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("perPage"))
	if pageSize < 1 || pageSize > 500 {
		pageSize = 20
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// failVending maps a vending error kind to its HTTP status. Internal
// storage failures are logged and returned as a generic message only.
func failVending(c echo.Context, err error) error {
	switch {
	case errors.Is(err, vending.ErrInvalidInput):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case errors.Is(err, vending.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, vending.ErrInsufficientStock):
		return fail(c, http.StatusConflict, "INSUFFICIENT_STOCK", err.Error(), nil)
	case errors.Is(err, vending.ErrConflict):
		return fail(c, http.StatusConflict, "CONFLICT", err.Error(), nil)
	default:
		zap.L().Error("internal error", zap.String("path", c.Request().URL.Path), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// audit writes an operation log row for an admin action.
func audit(c echo.Context, action, desc string) {
	claims := webserver.GetClaims(c)
	if claims == nil {
		return
	}
	if err := GetDB(c).Create(&domain.SysOpLog{
		OpName: claims.Username,
		OpIp:   c.RealIP(),
		Action: action,
		Desc:   desc,
		OpTime: time.Now(),
	}).Error; err != nil {
		zap.L().Error("failed to write op log", zap.String("action", action), zap.Error(err))
	}
}
