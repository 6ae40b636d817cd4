package domain

import "time"

// Role names used for operation gating.
const (
	RoleAdmin  = "admin"
	RoleVendor = "vendor"
)

type SysConfig struct {
	ID        int64     `json:"id,string" form:"id"`
	Sort      int       `json:"sort" form:"sort"`
	Type      string    `gorm:"index" json:"type" form:"type"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Value     string    `json:"value" form:"value"`
	Remark    string    `json:"remark" form:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (SysConfig) TableName() string {
	return "sys_config"
}

// SysUser is a login account. EmployeeID is null for pure back-office
// accounts (e.g. the default admin).
type SysUser struct {
	ID           int64     `json:"id,string" form:"id"`
	Username     string    `gorm:"uniqueIndex;size:64" json:"username" form:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `gorm:"size:16;index" json:"role" form:"role"`
	EmployeeID   *int64    `gorm:"index" json:"employee_id,string" form:"employee_id"`
	FullName     string    `json:"full_name" form:"full_name"`
	Status       string    `gorm:"size:16" json:"status" form:"status"`
	LastLogin    time.Time `json:"last_login"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName Specify table name
func (SysUser) TableName() string {
	return "sys_user"
}

// SysOpLog is an audit record of an admin action.
type SysOpLog struct {
	ID       int64     `json:"id,string"`
	OpName   string    `json:"op_name"`
	OpIp     string    `json:"op_ip"`
	Action   string    `json:"action"`
	Desc     string    `json:"desc"`
	OpTime   time.Time `gorm:"index" json:"op_time"`
}

// TableName Specify table name
func (SysOpLog) TableName() string {
	return "sys_op_log"
}
