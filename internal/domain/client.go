package domain

import "time"

// Client is a sale counterpart. Vendors find-or-create clients by name
// at the point of sale.
type Client struct {
	ID        int64     `json:"id,string" form:"id"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Surname   string    `gorm:"index" json:"surname" form:"surname"`
	Phone     string    `gorm:"size:32" json:"phone" form:"phone"`
	Address   string    `gorm:"size:255" json:"address" form:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (Client) TableName() string {
	return "clients"
}
