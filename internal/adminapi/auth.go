package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/frostcart/frostcart/internal/domain"
	"github.com/frostcart/frostcart/internal/webserver"
	"github.com/frostcart/frostcart/pkg/common"
)

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func registerAuthRoutes() {
	webserver.PubPOST("/api/auth/login", login)
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", nil)
	}
	payload.Username = strings.TrimSpace(payload.Username)
	if payload.Username == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username and password are required", nil)
	}

	var user domain.SysUser
	err := GetDB(c).Where("username = ? AND status = ?", payload.Username, common.ENABLED).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials", nil)
	} else if err != nil {
		zap.L().Error("login query failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}

	if !common.CheckPassword(user.PasswordHash, payload.Password) {
		zap.L().Info("login rejected", zap.String("username", payload.Username))
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials", nil)
	}

	token, err := webserver.IssueToken(GetApp(c).Config().Web.JwtSecret, &user)
	if err != nil {
		zap.L().Error("token signing failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}

	GetDB(c).Model(&domain.SysUser{}).Where("id = ?", user.ID).Update("last_login", time.Now())
	zap.L().Info("user authenticated", zap.String("username", user.Username), zap.String("role", user.Role))

	return ok(c, map[string]interface{}{
		"success": true,
		"token":   token,
		"user": map[string]interface{}{
			"id":          user.ID,
			"username":    user.Username,
			"role":        user.Role,
			"employee_id": user.EmployeeID,
			"full_name":   user.FullName,
		},
	})
}
