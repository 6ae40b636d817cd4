package vending

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/frostcart/frostcart/internal/domain"
)

// Lifecycle orchestrates a cart's daily operating cycle:
// available -> Assign -> active -> Load/sell -> CloseCart -> available.
type Lifecycle struct {
	db          *gorm.DB
	ledger      *Ledger
	assignments *Assignments
}

func NewLifecycle(db *gorm.DB, ledger *Ledger, assignments *Assignments) *Lifecycle {
	return &Lifecycle{db: db, ledger: ledger, assignments: assignments}
}

// Assign binds an employee to the cart and activates it.
func (l *Lifecycle) Assign(ctx context.Context, cartID, employeeID int64) error {
	return l.assignments.Assign(ctx, cartID, employeeID)
}

// Load moves central stock onto the cart. The cart must be active.
func (l *Lifecycle) Load(ctx context.Context, cartID int64, lines []LoadLine) error {
	return l.ledger.Load(ctx, cartID, lines)
}

// CloseCart ends the cart's operating day: unsold inventory goes back
// to central stock, the load rows and the assignment are closed, and
// the cart becomes available. All of it is one transaction so a
// failure partway can never double-count stock.
func (l *Lifecycle) CloseCart(ctx context.Context, cartID int64) error {
	if cartID == 0 {
		return errors.Wrap(ErrInvalidInput, "cart id is required")
	}
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart domain.Cart
		if err := tx.Where("id = ?", cartID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.Wrapf(ErrNotFound, "cart %d", cartID)
			}
			return err
		}
		if cart.Status != domain.CartActive {
			return errors.Wrapf(ErrConflict, "cart %s is not active", cart.Code)
		}

		now := time.Now()
		if err := l.ledger.CloseAndReconcile(tx, cartID, now); err != nil {
			return err
		}
		return l.assignments.Close(tx, cartID, now)
	})
}

// StaleActiveCarts returns the ids of carts whose open assignment
// started before the cutoff. Used by the end-of-day sweep.
func (l *Lifecycle) StaleActiveCarts(ctx context.Context, cutoff time.Time) ([]int64, error) {
	var ids []int64
	err := l.db.WithContext(ctx).
		Table("carts c").
		Select("c.id").
		Joins("INNER JOIN cart_assignments ca ON ca.cart_id = c.id AND ca.ended_at IS NULL").
		Where("c.status = ? AND ca.started_at < ?", domain.CartActive, cutoff).
		Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
