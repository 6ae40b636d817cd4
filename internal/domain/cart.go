package domain

import "time"

// Cart status values. Transitions happen only through assignment
// and close operations.
const (
	CartAvailable = "available"
	CartActive    = "active"
)

// Cart is a mobile vending unit identified by a short code.
type Cart struct {
	ID        int64     `json:"id,string" form:"id"`
	Code      string    `gorm:"uniqueIndex;size:32" json:"code" form:"code"`
	Location  string    `gorm:"size:255" json:"location" form:"location"`
	Status    string    `gorm:"size:16;index" json:"status" form:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Cart) TableName() string {
	return "carts"
}

// CartAssignment is a time-boxed employee-to-cart binding. A null
// EndedAt means the assignment is currently open. Rows are closed,
// never deleted, forming the operational audit trail.
type CartAssignment struct {
	ID         int64      `json:"id,string" form:"id"`
	CartID     int64      `gorm:"index" json:"cart_id,string" form:"cart_id"`
	EmployeeID int64      `gorm:"index" json:"employee_id,string" form:"employee_id"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at"`
}

// TableName Specify table name
func (CartAssignment) TableName() string {
	return "cart_assignments"
}

// InventoryLoad is a time-boxed stock allocation of one product onto
// one cart. A null ClosedAt means the load is open. Invariants:
// at most one open row per (cart, product), 0 <= QtyRemaining <= QtyLoaded.
type InventoryLoad struct {
	ID           int64      `json:"id,string" form:"id"`
	CartID       int64      `gorm:"index" json:"cart_id,string" form:"cart_id"`
	ProductID    int64      `gorm:"index" json:"product_id,string" form:"product_id"`
	QtyLoaded    int        `json:"qty_loaded" form:"qty_loaded"`
	QtyRemaining int        `json:"qty_remaining" form:"qty_remaining"`
	LoadedAt     time.Time  `json:"loaded_at"`
	ClosedAt     *time.Time `json:"closed_at"`
}

// TableName Specify table name
func (InventoryLoad) TableName() string {
	return "inventory_loads"
}
