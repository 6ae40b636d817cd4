package vending

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/frostcart/frostcart/internal/domain"
)

// LoadLine is one product line of an inventory load request.
type LoadLine struct {
	ProductID int64 `json:"product_id,string"`
	Quantity  int   `json:"quantity"`
}

// Ledger tracks quantity-on-hand per (cart, product) pair through
// open/closed InventoryLoad periods. All mutations are scoped to a
// single cart's open rows and run inside one transaction.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Load closes any open load rows of the cart, inserts one open row per
// requested product and moves the quantity out of central stock.
// Central stock is never allowed to go negative: the decrement is a
// conditional update and a shortfall aborts the whole load.
func (l *Ledger) Load(ctx context.Context, cartID int64, lines []LoadLine) error {
	if cartID == 0 || len(lines) == 0 {
		return errors.Wrap(ErrInvalidInput, "cart id and at least one line are required")
	}
	for _, line := range lines {
		if line.ProductID == 0 || line.Quantity <= 0 {
			return errors.Wrapf(ErrInvalidInput, "product %d: quantity must be positive", line.ProductID)
		}
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
		if err := tx.Model(&domain.InventoryLoad{}).
			Where("cart_id = ? AND closed_at IS NULL", cartID).
			Update("closed_at", now).Error; err != nil {
			return err
		}

		for _, line := range lines {
			res := tx.Model(&domain.Product{}).
				Where("id = ? AND stock_central >= ?", line.ProductID, line.Quantity).
				Update("stock_central", gorm.Expr("stock_central - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var count int64
				if err := tx.Model(&domain.Product{}).Where("id = ?", line.ProductID).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return errors.Wrapf(ErrNotFound, "product %d", line.ProductID)
				}
				return errors.Wrapf(ErrInsufficientStock, "product %d: central stock below %d", line.ProductID, line.Quantity)
			}

			if err := tx.Create(&domain.InventoryLoad{
				CartID:       cartID,
				ProductID:    line.ProductID,
				QtyLoaded:    line.Quantity,
				QtyRemaining: line.Quantity,
				LoadedAt:     now,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DecrementOnSale reduces the remaining quantity on the open load row
// for (cart, product). The conditional update serializes concurrent
// decrements on the row, so two racing sales can never both pass a
// stock check against a stale remainder.
func (l *Ledger) DecrementOnSale(tx *gorm.DB, cartID, productID int64, qty int) error {
	if qty <= 0 {
		return errors.Wrap(ErrInvalidInput, "quantity must be positive")
	}
	res := tx.Model(&domain.InventoryLoad{}).
		Where("cart_id = ? AND product_id = ? AND closed_at IS NULL AND qty_remaining >= ?",
			cartID, productID, qty).
		Update("qty_remaining", gorm.Expr("qty_remaining - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&domain.InventoryLoad{}).
			Where("cart_id = ? AND product_id = ? AND closed_at IS NULL", cartID, productID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errors.Wrapf(ErrNotFound, "no open inventory for product %d on cart %d", productID, cartID)
		}
		return errors.Wrapf(ErrInsufficientStock, "product %d on cart %d", productID, cartID)
	}
	return nil
}

// CloseAndReconcile returns the remaining quantity of every open load
// row of the cart to central stock and stamps the rows closed. Runs on
// the caller's transaction so cart closure stays a single atomic unit.
func (l *Ledger) CloseAndReconcile(tx *gorm.DB, cartID int64, now time.Time) error {
	var open []domain.InventoryLoad
	if err := tx.Where("cart_id = ? AND closed_at IS NULL", cartID).Find(&open).Error; err != nil {
		return err
	}
	for _, row := range open {
		if row.QtyRemaining > 0 {
			if err := tx.Model(&domain.Product{}).
				Where("id = ?", row.ProductID).
				Update("stock_central", gorm.Expr("stock_central + ?", row.QtyRemaining)).Error; err != nil {
				return err
			}
		}
	}
	return tx.Model(&domain.InventoryLoad{}).
		Where("cart_id = ? AND closed_at IS NULL", cartID).
		Update("closed_at", now).Error
}

// InventoryItem is a row of a vendor's current sellable inventory.
type InventoryItem struct {
	ProductID int64   `json:"product_id,string"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Type      string  `json:"type"`
	Stock     int     `json:"stock"`
}

// EmployeeInventory lists the open, non-empty load rows of the cart(s)
// currently assigned to the employee.
func (l *Ledger) EmployeeInventory(ctx context.Context, employeeID int64) ([]InventoryItem, error) {
	var items []InventoryItem
	err := l.db.WithContext(ctx).
		Table("inventory_loads il").
		Select("p.id AS product_id, p.name, p.price, p.type, il.qty_remaining AS stock").
		Joins("INNER JOIN products p ON p.id = il.product_id").
		Joins("INNER JOIN cart_assignments ca ON ca.cart_id = il.cart_id").
		Where("ca.employee_id = ? AND ca.ended_at IS NULL AND il.closed_at IS NULL AND il.qty_remaining > 0", employeeID).
		Order("p.name").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
