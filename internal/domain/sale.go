package domain

import "time"

// Sale records one point-of-sale transaction. CartID is null when the
// sale happened outside the cart flow (e.g. direct warehouse sale).
// Sales are immutable once created.
type Sale struct {
	ID         int64     `json:"id,string" form:"id"`
	ClientID   int64     `gorm:"index" json:"client_id,string" form:"client_id"`
	EmployeeID int64     `gorm:"index" json:"employee_id,string" form:"employee_id"`
	CartID     *int64    `gorm:"index" json:"cart_id,string" form:"cart_id"`
	SoldAt     time.Time `gorm:"index" json:"sold_at"`
}

// TableName Specify table name
func (Sale) TableName() string {
	return "sales"
}

// SaleLine is one product line of a sale. UnitPrice is snapshotted at
// sale time and stays decoupled from later catalog price changes.
type SaleLine struct {
	ID        int64   `json:"id,string" form:"id"`
	SaleID    int64   `gorm:"index" json:"sale_id,string" form:"sale_id"`
	ProductID int64   `gorm:"index" json:"product_id,string" form:"product_id"`
	Qty       int     `json:"qty" form:"qty"`
	UnitPrice float64 `json:"unit_price" form:"unit_price"`
}

// TableName Specify table name
func (SaleLine) TableName() string {
	return "sale_lines"
}
