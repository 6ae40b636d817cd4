package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
	"go.uber.org/zap"
)

// Metric names recorded by the application.
const (
	MetricSalesCount   = "sales_count"
	MetricSalesRevenue = "sales_revenue"
	MetricCartsClosed  = "carts_closed"
)

var (
	storage tstorage.Storage
	mu      sync.Mutex
)

// InitMetrics opens the local time-series store under workdir/metrics.
func InitMetrics(workdir string) error {
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithPartitionDuration(24*time.Hour),
	)
	if err != nil {
		return err
	}
	mu.Lock()
	storage = s
	mu.Unlock()
	return nil
}

func insert(metric string, value float64) {
	mu.Lock()
	s := storage
	mu.Unlock()
	if s == nil {
		return
	}
	err := s.InsertRows([]tstorage.Row{
		{
			Metric:    metric,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: value},
		},
	})
	if err != nil {
		zap.L().Debug("metrics insert failed", zap.String("metric", metric), zap.Error(err))
	}
}

// IncrCounter records a single count event for the metric.
func IncrCounter(metric string) {
	insert(metric, 1)
}

// AddSample records an arbitrary sample value for the metric.
func AddSample(metric string, value float64) {
	insert(metric, value)
}

// SetGauge records the current value of a gauge metric.
func SetGauge(metric string, value int64) {
	insert(metric, float64(value))
}

// QueryRange returns the datapoints for a metric between start and end (unix seconds).
func QueryRange(metric string, start, end int64) ([]*tstorage.DataPoint, error) {
	mu.Lock()
	s := storage
	mu.Unlock()
	if s == nil {
		return nil, nil
	}
	points, err := s.Select(metric, nil, start, end)
	if err != nil {
		if err == tstorage.ErrNoDataPoints {
			return nil, nil
		}
		return nil, err
	}
	return points, nil
}

// Close flushes and closes the metrics store.
func Close() error {
	mu.Lock()
	s := storage
	storage = nil
	mu.Unlock()
	if s == nil {
		return nil
	}
	return s.Close()
}
