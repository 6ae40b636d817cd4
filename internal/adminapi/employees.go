package adminapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/frostcart/frostcart/internal/domain"
	"github.com/frostcart/frostcart/internal/webserver"
	"github.com/frostcart/frostcart/pkg/common"
)

type employeePayload struct {
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Document   string `json:"document"`
	Phone      string `json:"phone"`
	PositionID int64  `json:"positionId"`
}

func registerEmployeeRoutes() {
	webserver.ApiGET("/employees", listEmployees, webserver.AdminOnly)
	webserver.ApiGET("/employees/positions", listPositions, webserver.AdminOnly)
	webserver.ApiGET("/employees/:id", getEmployee, webserver.AdminOnly)
	webserver.ApiPOST("/employees", createEmployee, webserver.AdminOnly)
	webserver.ApiPUT("/employees/:id", updateEmployee, webserver.AdminOnly)
	webserver.ApiDELETE("/employees/:id", deactivateEmployee, webserver.AdminOnly)
}

type employeeRow struct {
	ID       int64     `json:"id,string"`
	Name     string    `json:"name"`
	Surname  string    `json:"surname"`
	Document string    `json:"document"`
	Phone    string    `json:"phone"`
	Position string    `json:"position"`
	Salary   float64   `json:"salary"`
	HiredAt  time.Time `json:"hired_at"`
	Username string    `json:"username"`
	Status   string    `json:"status"`
}

func listEmployees(c echo.Context) error {
	var rows []employeeRow
	err := GetDB(c).
		Table("employees e").
		Select("e.id, e.name, e.surname, e.document, e.phone, "+
			"p.name AS position, p.salary, e.hired_at, "+
			"COALESCE(u.username, '') AS username, COALESCE(u.status, '') AS status").
		Joins("INNER JOIN positions p ON p.id = e.position_id").
		Joins("LEFT JOIN sys_user u ON u.employee_id = e.id").
		Order("e.surname, e.name").
		Scan(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query employees", nil)
	}
	return ok(c, rows)
}

func listPositions(c echo.Context) error {
	var rows []domain.Position
	if err := GetDB(c).Order("name").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query positions", nil)
	}
	return ok(c, rows)
}

func getEmployee(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid employee ID", nil)
	}
	var e domain.Employee
	if err := GetDB(c).Where("id = ?", id).First(&e).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Employee not found", nil)
	}
	return ok(c, e)
}

// createEmployee creates the employee and provisions a vendor login in
// the same transaction. Credentials are generated from the name and
// document and returned once so the admin can hand them over.
func createEmployee(c echo.Context) error {
	var payload employeePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse employee", nil)
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Surname = strings.TrimSpace(payload.Surname)
	payload.Document = strings.TrimSpace(payload.Document)
	if payload.Name == "" || payload.Surname == "" || payload.Document == "" || payload.PositionID == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name, surname, document and position are required", nil)
	}

	username := strings.ToLower(strings.ReplaceAll(payload.Name, " ", "")) +
		strings.ToLower(strings.ReplaceAll(payload.Surname, " ", ""))
	passwordPlain := strings.ToLower(strings.ReplaceAll(payload.Surname, " ", "")) + "." + payload.Document

	hash, err := common.HashPassword(passwordPlain)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}

	employee := domain.Employee{
		Name:       payload.Name,
		Surname:    payload.Surname,
		Document:   payload.Document,
		Phone:      payload.Phone,
		PositionID: payload.PositionID,
		HiredAt:    time.Now(),
	}

	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Employee{}).Where("document = ?", payload.Document).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errors.Wrap(errConflictDocument, payload.Document)
		}
		if err := tx.Model(&domain.SysUser{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errors.Wrap(errConflictUsername, username)
		}
		if err := tx.Create(&employee).Error; err != nil {
			return err
		}
		return tx.Create(&domain.SysUser{
			ID:           common.UUIDint64(),
			Username:     username,
			PasswordHash: hash,
			Role:         domain.RoleVendor,
			EmployeeID:   &employee.ID,
			FullName:     payload.Name + " " + payload.Surname,
			Status:       common.ENABLED,
		}).Error
	})
	if err != nil {
		if errors.Is(err, errConflictDocument) {
			return fail(c, http.StatusConflict, "DUPLICATE_DOCUMENT", "An employee with this document already exists", nil)
		}
		if errors.Is(err, errConflictUsername) {
			return fail(c, http.StatusConflict, "DUPLICATE_USERNAME",
				fmt.Sprintf("Generated username %q already exists", username), nil)
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create employee", nil)
	}

	audit(c, "employee.create", fmt.Sprintf("employee %d (%s %s)", employee.ID, payload.Name, payload.Surname))
	return created(c, map[string]interface{}{
		"employee_id": employee.ID,
		"username":    username,
		"password":    passwordPlain,
	})
}

var (
	errConflictDocument = errors.New("duplicate document")
	errConflictUsername = errors.New("duplicate username")
)

func updateEmployee(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid employee ID", nil)
	}
	var e domain.Employee
	if err := GetDB(c).Where("id = ?", id).First(&e).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Employee not found", nil)
	}
	var payload employeePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse employee", nil)
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if payload.Name != "" {
		updates["name"] = strings.TrimSpace(payload.Name)
	}
	if payload.Surname != "" {
		updates["surname"] = strings.TrimSpace(payload.Surname)
	}
	if payload.Document != "" {
		updates["document"] = strings.TrimSpace(payload.Document)
	}
	if payload.Phone != "" {
		updates["phone"] = payload.Phone
	}
	if payload.PositionID != 0 {
		updates["position_id"] = payload.PositionID
	}
	if err := GetDB(c).Model(&e).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update employee", nil)
	}
	GetDB(c).Where("id = ?", id).First(&e)
	return ok(c, e)
}

// deactivateEmployee disables the employee's login instead of deleting
// records; assignment and sale history must stay intact.
func deactivateEmployee(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid employee ID", nil)
	}
	if err := GetDB(c).Model(&domain.SysUser{}).
		Where("employee_id = ?", id).
		Update("status", common.DISABLED).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to deactivate employee", nil)
	}
	audit(c, "employee.deactivate", fmt.Sprintf("employee %d", id))
	return ok(c, map[string]interface{}{"id": id})
}
