package domain

import "time"

// Employee is a field vendor or other staff member.
type Employee struct {
	ID         int64     `json:"id,string" form:"id"`
	Name       string    `json:"name" form:"name"`
	Surname    string    `json:"surname" form:"surname"`
	Document   string    `gorm:"uniqueIndex;size:32" json:"document" form:"document"`
	Phone      string    `gorm:"size:32" json:"phone" form:"phone"`
	PositionID int64     `gorm:"index" json:"position_id,string" form:"position_id"`
	HiredAt    time.Time `json:"hired_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Employee) TableName() string {
	return "employees"
}

// Position is a job position with its base salary.
type Position struct {
	ID     int64   `json:"id,string" form:"id"`
	Name   string  `gorm:"uniqueIndex;size:64" json:"name" form:"name"`
	Salary float64 `json:"salary" form:"salary"`
}

// TableName Specify table name
func (Position) TableName() string {
	return "positions"
}
