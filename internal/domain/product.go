package domain

import "time"

// Product is a catalog item held in the central warehouse.
type Product struct {
	ID           int64     `json:"id,string" form:"id"`
	Name         string    `gorm:"index" json:"name" form:"name"`
	Description  string    `gorm:"size:1024" json:"description" form:"description"`
	Price        float64   `json:"price" form:"price"`
	Type         string    `gorm:"size:32" json:"type" form:"type"` // 'helado', 'paleta', 'otro'
	StockCentral int       `json:"stock_central" form:"stock_central"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}
