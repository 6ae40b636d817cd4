package webserver

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/frostcart/frostcart/internal/domain"
)

// SessionWindow is how long an issued token stays valid.
const SessionWindow = 8 * time.Hour

// UserClaims is the bearer credential payload.
type UserClaims struct {
	UserID     int64  `json:"user_id,string"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	EmployeeID int64  `json:"employee_id,string"`
	FullName   string `json:"full_name"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token for the user.
func IssueToken(secret string, user *domain.SysUser) (string, error) {
	claims := UserClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionWindow)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	if user.EmployeeID != nil {
		claims.EmployeeID = *user.EmployeeID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GetClaims returns the verified claims of the current request, or nil
// on an unauthenticated route.
func GetClaims(c echo.Context) *UserClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*UserClaims)
	if !ok {
		return nil
	}
	return claims
}

// jwtMiddleware verifies the bearer token and rejects with a structured
// 401 payload instead of echo's default error page.
func jwtMiddleware(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(UserClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"code":    "UNAUTHENTICATED",
				"message": "Missing or invalid token",
			})
		},
	})
}

// AdminOnly gates a route to callers holding the admin role.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := GetClaims(c)
		if claims == nil || claims.Role != domain.RoleAdmin {
			return c.JSON(http.StatusForbidden, map[string]interface{}{
				"code":    "FORBIDDEN",
				"message": "Admin role required",
			})
		}
		return next(c)
	}
}
