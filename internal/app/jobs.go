package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/frostcart/frostcart/internal/domain"
	"github.com/frostcart/frostcart/pkg/metrics"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 5m", func() {
		a.SchedEndOfDaySweep()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.SchedPurgeOpLogs()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}
}

// SchedEndOfDaySweep force-closes carts whose assignment has been open
// longer than the configured shift limit. Each cart closes through the
// normal lifecycle transaction, so reconciliation stays atomic.
func (a *Application) SchedEndOfDaySweep() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	if !a.configManager.GetBool("vending", "eod_sweep_enabled") {
		return
	}
	maxShift := a.configManager.GetInt("vending", "max_shift_hours")
	if maxShift <= 0 {
		maxShift = 14
	}
	cutoff := time.Now().Add(-time.Duration(maxShift) * time.Hour)

	ids, err := a.lifecycle.StaleActiveCarts(context.Background(), cutoff)
	if err != nil {
		zap.L().Error("end-of-day sweep query failed", zap.Error(err))
		return
	}
	for _, cartID := range ids {
		if err := a.lifecycle.CloseCart(context.Background(), cartID); err != nil {
			zap.L().Error("end-of-day sweep failed to close cart",
				zap.Int64("cart_id", cartID), zap.Error(err))
			continue
		}
		metrics.IncrCounter(metrics.MetricCartsClosed)
		zap.L().Warn("end-of-day sweep closed stale cart", zap.Int64("cart_id", cartID))
	}
}

// SchedPurgeOpLogs deletes operation audit logs past retention.
func (a *Application) SchedPurgeOpLogs() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	idays := a.configManager.GetInt("system", "oplog_retention_days")
	if idays == 0 {
		idays = 365
	}
	a.gormDB.
		Where("op_time < ?", time.Now().
			Add(-time.Hour*24*time.Duration(idays))).Delete(&domain.SysOpLog{})
}
