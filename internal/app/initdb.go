package app

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/frostcart/frostcart/internal/domain"
	"github.com/frostcart/frostcart/pkg/common"
)

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "frostcart"

	hashedPassword, err := common.HashPassword(defaultPassword)
	if err != nil {
		zap.L().Error("failed to hash default admin password", zap.Error(err))
		return
	}

	var user domain.SysUser
	err = a.gormDB.Where("username = ?", superUsername).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.SysUser{
			ID:           common.UUIDint64(),
			Username:     superUsername,
			PasswordHash: hashedPassword,
			Role:         domain.RoleAdmin,
			FullName:     "Administrador",
			Status:       common.ENABLED,
			LastLogin:    time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	resetRole := !strings.EqualFold(user.Role, domain.RoleAdmin)
	resetStatus := !strings.EqualFold(user.Status, common.ENABLED)
	if !resetRole && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetRole {
		updates["role"] = domain.RoleAdmin
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}
	if err := a.gormDB.Model(&domain.SysUser{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
		return
	}
	zap.L().Warn("repaired default super admin account",
		zap.String("username", superUsername),
		zap.Bool("roleReset", resetRole),
		zap.Bool("statusEnabled", resetStatus))
}

// checkPositions seeds the default job positions used by the employee form.
func (a *Application) checkPositions() {
	defaultPositions := []domain.Position{
		{Name: "Vendedor", Salary: 2500},
		{Name: "Supervisor", Salary: 3500},
		{Name: "Almacenero", Salary: 2800},
	}

	for _, p := range defaultPositions {
		var count int64
		a.gormDB.Model(&domain.Position{}).Where("name = ?", p.Name).Count(&count)
		if count == 0 {
			if err := a.gormDB.Create(&p).Error; err != nil {
				zap.L().Error("failed to create default position", zap.String("name", p.Name), zap.Error(err))
			} else {
				zap.L().Info("initialized default position", zap.String("name", p.Name))
			}
		}
	}
}

type settingDefault struct {
	Type    string
	Name    string
	Value   string
	Remark  string
}

// checkSettings initializes missing runtime settings with their defaults.
func (a *Application) checkSettings() {
	defaults := []settingDefault{
		{"vending", "eod_sweep_enabled", "true", "Automatically close carts left active past the shift limit"},
		{"vending", "max_shift_hours", "14", "Hours an assignment may stay open before the sweep closes the cart"},
		{"system", "oplog_retention_days", "365", "Days to keep operation audit logs"},
	}

	for sortid, s := range defaults {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", s.Type, s.Name).
			Count(&count)
		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				Sort:   sortid,
				Type:   s.Type,
				Name:   s.Name,
				Value:  s.Value,
				Remark: s.Remark,
			})
			zap.L().Info("initialized config",
				zap.String("key", s.Type+"."+s.Name),
				zap.String("default", s.Value))
		}
	}
}
