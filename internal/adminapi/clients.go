package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/frostcart/frostcart/internal/domain"
	"github.com/frostcart/frostcart/internal/webserver"
)

type clientPayload struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func registerClientRoutes() {
	webserver.ApiGET("/clients", listClients)
	webserver.ApiPOST("/clients", findOrCreateClient)
}

func listClients(c echo.Context) error {
	var rows []domain.Client
	if err := GetDB(c).Order("surname, name").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query clients", nil)
	}
	return ok(c, rows)
}

// findOrCreateClient matches on name and surname so the point of sale
// never blocks on duplicate client entry. 200 with the existing record,
// 201 when a new one is created.
func findOrCreateClient(c echo.Context) error {
	var payload clientPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse client", nil)
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Surname = strings.TrimSpace(payload.Surname)
	if payload.Name == "" || payload.Surname == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name and surname are required", nil)
	}

	var client domain.Client
	err := GetDB(c).Where("LOWER(name) = LOWER(?) AND LOWER(surname) = LOWER(?)",
		payload.Name, payload.Surname).First(&client).Error
	if err == nil {
		return ok(c, map[string]interface{}{"client_id": client.ID, "created": false})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query clients", nil)
	}

	client = domain.Client{
		Name:    payload.Name,
		Surname: payload.Surname,
		Phone:   payload.Phone,
		Address: payload.Address,
	}
	if err := GetDB(c).Create(&client).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create client", nil)
	}
	return created(c, map[string]interface{}{"client_id": client.ID, "created": true})
}
