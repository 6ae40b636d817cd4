package vending

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frostcart/frostcart/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate",
		filepath.Join(t.TempDir(), "vending.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) int64 {
	t.Helper()
	p := domain.Product{Name: name, Price: price, Type: "helado", StockCentral: stock}
	require.NoError(t, db.Create(&p).Error)
	return p.ID
}

func seedCart(t *testing.T, db *gorm.DB, code, status string) int64 {
	t.Helper()
	c := domain.Cart{Code: code, Location: "plaza central", Status: status}
	require.NoError(t, db.Create(&c).Error)
	return c.ID
}

func seedEmployee(t *testing.T, db *gorm.DB, name, surname string) int64 {
	t.Helper()
	e := domain.Employee{Name: name, Surname: surname, Document: name + surname, HiredAt: time.Now()}
	require.NoError(t, db.Create(&e).Error)
	return e.ID
}

func seedClient(t *testing.T, db *gorm.DB, name, surname string) int64 {
	t.Helper()
	c := domain.Client{Name: name, Surname: surname}
	require.NoError(t, db.Create(&c).Error)
	return c.ID
}

func centralStock(t *testing.T, db *gorm.DB, productID int64) int {
	t.Helper()
	var p domain.Product
	require.NoError(t, db.First(&p, productID).Error)
	return p.StockCentral
}

func openLoads(t *testing.T, db *gorm.DB, cartID int64) []domain.InventoryLoad {
	t.Helper()
	var rows []domain.InventoryLoad
	require.NoError(t, db.Where("cart_id = ? AND closed_at IS NULL", cartID).Find(&rows).Error)
	return rows
}
