package vending

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/frostcart/frostcart/internal/domain"
	"github.com/frostcart/frostcart/pkg/common"
)

// TopicSaleCreated is published on the event bus after a sale commits,
// with the sale id and total amount.
const TopicSaleCreated = "sale.created"

// SaleLineInput is one requested line of a sale. UnitPrice comes from
// the request and is stored as-is to preserve historical pricing.
type SaleLineInput struct {
	ProductID int64   `json:"product_id,string"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Sales records sales and their line items, decrementing cart
// inventory through the ledger when the sale happens on a cart.
type Sales struct {
	db     *gorm.DB
	ledger *Ledger
	bus    EventBus.Bus
}

func NewSales(db *gorm.DB, ledger *Ledger, bus EventBus.Bus) *Sales {
	return &Sales{db: db, ledger: ledger, bus: bus}
}

// Record creates the sale, its lines, and the per-line inventory
// decrements as one atomic unit. Any failure rolls back every write of
// the sale; a partial sale is never observable.
func (s *Sales) Record(ctx context.Context, clientID, employeeID int64, cartID *int64, lines []SaleLineInput) (int64, error) {
	if clientID == 0 || employeeID == 0 || len(lines) == 0 {
		return 0, errors.Wrap(ErrInvalidInput, "client, employee and at least one line are required")
	}
	for _, line := range lines {
		if line.ProductID == 0 || line.Quantity <= 0 || line.UnitPrice < 0 {
			return 0, errors.Wrapf(ErrInvalidInput, "product %d: bad quantity or price", line.ProductID)
		}
	}

	sale := domain.Sale{
		ID:         common.UUIDint64(),
		ClientID:   clientID,
		EmployeeID: employeeID,
		CartID:     cartID,
		SoldAt:     time.Now(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}
		for _, line := range lines {
			if err := tx.Create(&domain.SaleLine{
				SaleID:    sale.ID,
				ProductID: line.ProductID,
				Qty:       line.Quantity,
				UnitPrice: line.UnitPrice,
			}).Error; err != nil {
				return err
			}
			if cartID != nil {
				if err := s.ledger.DecrementOnSale(tx, *cartID, line.ProductID, line.Quantity); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if s.bus != nil {
		var total float64
		for _, line := range lines {
			total += float64(line.Quantity) * line.UnitPrice
		}
		s.bus.Publish(TopicSaleCreated, sale.ID, total)
	}
	return sale.ID, nil
}

// SaleSummary is one row of an employee's daily sales listing.
type SaleSummary struct {
	SaleID      int64     `json:"sale_id,string" gorm:"column:sale_id"`
	SoldAt      time.Time `json:"sold_at"`
	CartCode    string    `json:"cart_code"`
	Client      string    `json:"client"`
	Total       float64   `json:"total"`
	NumProducts int       `json:"num_products"`
}

// EmployeeSalesToday lists the employee's sales since midnight with
// per-sale totals, newest first.
func (s *Sales) EmployeeSalesToday(ctx context.Context, employeeID int64) ([]SaleSummary, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var rows []SaleSummary
	err := s.db.WithContext(ctx).
		Table("sales s").
		Select("s.id AS sale_id, s.sold_at, " +
			"COALESCE(c.code, '') AS cart_code, " +
			"cl.name || ' ' || cl.surname AS client, " +
			"SUM(sl.qty * sl.unit_price) AS total, " +
			"COUNT(sl.id) AS num_products").
		Joins("INNER JOIN clients cl ON cl.id = s.client_id").
		Joins("INNER JOIN sale_lines sl ON sl.sale_id = s.id").
		Joins("LEFT JOIN carts c ON c.id = s.cart_id").
		Where("s.employee_id = ? AND s.sold_at >= ?", employeeID, midnight).
		Group("s.id, s.sold_at, c.code, cl.name, cl.surname").
		Order("s.sold_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SaleDetailLine is one product line of a sale detail view.
type SaleDetailLine struct {
	Product   string  `json:"product"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// Detail returns the line items of a sale. ErrNotFound when the sale
// does not exist.
func (s *Sales) Detail(ctx context.Context, saleID int64) ([]SaleDetailLine, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Sale{}).Where("id = ?", saleID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.Wrapf(ErrNotFound, "sale %d", saleID)
	}
	var lines []SaleDetailLine
	err := s.db.WithContext(ctx).
		Table("sale_lines sl").
		Select("p.name AS product, sl.qty, sl.unit_price, sl.qty * sl.unit_price AS subtotal").
		Joins("INNER JOIN products p ON p.id = sl.product_id").
		Where("sl.sale_id = ?", saleID).
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
