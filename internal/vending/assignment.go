package vending

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/frostcart/frostcart/internal/domain"
)

// Assignments tracks which employee is responsible for which cart over
// time. Assignment rows are closed, never deleted.
type Assignments struct {
	db *gorm.DB
}

func NewAssignments(db *gorm.DB) *Assignments {
	return &Assignments{db: db}
}

// Assign closes any open assignment of the cart, opens a new one for
// the employee and marks the cart active. An employee may hold more
// than one cart at a time; only the cart side is exclusive.
func (a *Assignments) Assign(ctx context.Context, cartID, employeeID int64) error {
	if cartID == 0 || employeeID == 0 {
		return errors.Wrap(ErrInvalidInput, "cart id and employee id are required")
	}
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart domain.Cart
		if err := tx.Where("id = ?", cartID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.Wrapf(ErrNotFound, "cart %d", cartID)
			}
			return err
		}
		var count int64
		if err := tx.Model(&domain.Employee{}).Where("id = ?", employeeID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errors.Wrapf(ErrNotFound, "employee %d", employeeID)
		}

		now := time.Now()
		if err := tx.Model(&domain.CartAssignment{}).
			Where("cart_id = ? AND ended_at IS NULL", cartID).
			Update("ended_at", now).Error; err != nil {
			return err
		}
		if err := tx.Create(&domain.CartAssignment{
			CartID:     cartID,
			EmployeeID: employeeID,
			StartedAt:  now,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Cart{}).
			Where("id = ?", cartID).
			Updates(map[string]interface{}{"status": domain.CartActive, "updated_at": now}).Error
	})
}

// Close stamps the open assignment of the cart and marks the cart
// available again. Runs on the caller's transaction.
func (a *Assignments) Close(tx *gorm.DB, cartID int64, now time.Time) error {
	if err := tx.Model(&domain.CartAssignment{}).
		Where("cart_id = ? AND ended_at IS NULL", cartID).
		Update("ended_at", now).Error; err != nil {
		return err
	}
	return tx.Model(&domain.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{"status": domain.CartAvailable, "updated_at": now}).Error
}

// OpenAssignment returns the currently open assignment of the cart, or
// ErrNotFound when the cart has none.
func (a *Assignments) OpenAssignment(ctx context.Context, cartID int64) (*domain.CartAssignment, error) {
	var row domain.CartAssignment
	err := a.db.WithContext(ctx).
		Where("cart_id = ? AND ended_at IS NULL", cartID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "no open assignment for cart %d", cartID)
		}
		return nil, err
	}
	return &row, nil
}
