package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/frostcart/frostcart/internal/app"
)

// Context keys injected into every request.
const (
	ContextAppKey = "frostcart_app"
	ContextDBKey  = "frostcart_db"
)

type WebServer struct {
	root   *echo.Echo
	api    *echo.Group
	appCtx app.AppContext
}

var server *WebServer

// Init builds the echo server: codec, recovery, CORS, request logging,
// app/DB injection and the JWT-protected /api group.
func Init(appCtx app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = JSONSerializer{}

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextAppKey, appCtx)
			c.Set(ContextDBKey, appCtx.DB())
			start := time.Now()
			err := next(c)
			zap.L().Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote", c.RealIP()),
			)
			return err
		}
	})

	api := e.Group("/api", jwtMiddleware(appCtx.Config().Web.JwtSecret))

	server = &WebServer{root: e, api: api, appCtx: appCtx}
	return server
}

// Instance returns the singleton server, for tests and shutdown.
func Instance() *WebServer {
	return server
}

// Echo exposes the underlying engine (handler tests drive it directly).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// Listen starts serving and blocks until the listener fails.
func Listen() error {
	cfg := server.appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.L().Info("web server listening", zap.String("addr", addr))
	err := server.root.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func Shutdown(ctx context.Context) error {
	if server == nil {
		return nil
	}
	return server.root.Shutdown(ctx)
}

// ApiGET registers an authenticated GET route under /api.
func ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.GET(path, h, m...)
}

// ApiPOST registers an authenticated POST route under /api.
func ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.POST(path, h, m...)
}

// ApiPUT registers an authenticated PUT route under /api.
func ApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.PUT(path, h, m...)
}

// ApiDELETE registers an authenticated DELETE route under /api.
func ApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.DELETE(path, h, m...)
}

// PubPOST registers an unauthenticated POST route (login).
func PubPOST(path string, h echo.HandlerFunc) {
	server.root.POST(path, h)
}

// PubGET registers an unauthenticated GET route (health probe).
func PubGET(path string, h echo.HandlerFunc) {
	server.root.GET(path, h)
}
