package vending

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostcart/frostcart/internal/domain"
)

func TestLoadMovesCentralStockOntoCart(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	productID := seedProduct(t, db, "vainilla", 5, 100)
	cartID := seedCart(t, db, "C-01", domain.CartActive)

	err := ledger.Load(ctx, cartID, []LoadLine{{ProductID: productID, Quantity: 40}})
	require.NoError(t, err)

	assert.Equal(t, 60, centralStock(t, db, productID))
	rows := openLoads(t, db, cartID)
	require.Len(t, rows, 1)
	assert.Equal(t, 40, rows[0].QtyLoaded)
	assert.Equal(t, 40, rows[0].QtyRemaining)
}

func TestLoadRejectsNonPositiveQuantity(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	productID := seedProduct(t, db, "frutilla", 4, 100)
	cartID := seedCart(t, db, "C-02", domain.CartActive)

	err := ledger.Load(ctx, cartID, []LoadLine{{ProductID: productID, Quantity: 0}})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	err = ledger.Load(ctx, cartID, nil)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	assert.Equal(t, 100, centralStock(t, db, productID))
}

func TestLoadRejectsOversellOfCentralStock(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	chocoID := seedProduct(t, db, "chocolate", 6, 30)
	mangoID := seedProduct(t, db, "mango", 6, 100)
	cartID := seedCart(t, db, "C-03", domain.CartActive)

	err := ledger.Load(ctx, cartID, []LoadLine{
		{ProductID: mangoID, Quantity: 20},
		{ProductID: chocoID, Quantity: 31},
	})
	assert.True(t, errors.Is(err, ErrInsufficientStock))

	// whole load rolled back, including the line that would have fit
	assert.Equal(t, 100, centralStock(t, db, mangoID))
	assert.Equal(t, 30, centralStock(t, db, chocoID))
	assert.Empty(t, openLoads(t, db, cartID))
}

func TestLoadUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)

	cartID := seedCart(t, db, "C-04", domain.CartActive)
	err := ledger.Load(context.Background(), cartID, []LoadLine{{ProductID: 9999, Quantity: 5}})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadRequiresActiveCart(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)

	productID := seedProduct(t, db, "limon", 3, 50)
	cartID := seedCart(t, db, "C-05", domain.CartAvailable)

	err := ledger.Load(context.Background(), cartID, []LoadLine{{ProductID: productID, Quantity: 10}})
	assert.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, 50, centralStock(t, db, productID))
}

func TestLoadClosesPreviousOpenRows(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	productID := seedProduct(t, db, "coco", 5, 100)
	cartID := seedCart(t, db, "C-06", domain.CartActive)

	require.NoError(t, ledger.Load(ctx, cartID, []LoadLine{{ProductID: productID, Quantity: 10}}))
	require.NoError(t, ledger.Load(ctx, cartID, []LoadLine{{ProductID: productID, Quantity: 15}}))

	// at most one open row per (cart, product)
	rows := openLoads(t, db, cartID)
	require.Len(t, rows, 1)
	assert.Equal(t, 15, rows[0].QtyLoaded)

	var total int64
	require.NoError(t, db.Model(&domain.InventoryLoad{}).Where("cart_id = ?", cartID).Count(&total).Error)
	assert.EqualValues(t, 2, total)
}

func TestLoadLeavesOtherCartsUntouched(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	productID := seedProduct(t, db, "pina", 5, 100)
	cart1 := seedCart(t, db, "C-07", domain.CartActive)
	cart2 := seedCart(t, db, "C-08", domain.CartActive)

	require.NoError(t, ledger.Load(ctx, cart1, []LoadLine{{ProductID: productID, Quantity: 10}}))
	require.NoError(t, ledger.Load(ctx, cart2, []LoadLine{{ProductID: productID, Quantity: 20}}))

	rows := openLoads(t, db, cart1)
	require.Len(t, rows, 1)
	assert.Equal(t, 10, rows[0].QtyRemaining)
}

func TestDecrementOnSaleGuardsRemaining(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	productID := seedProduct(t, db, "canela", 5, 100)
	cartID := seedCart(t, db, "C-09", domain.CartActive)
	require.NoError(t, ledger.Load(ctx, cartID, []LoadLine{{ProductID: productID, Quantity: 10}}))

	require.NoError(t, ledger.DecrementOnSale(db, cartID, productID, 6))
	err := ledger.DecrementOnSale(db, cartID, productID, 5)
	assert.True(t, errors.Is(err, ErrInsufficientStock))

	rows := openLoads(t, db, cartID)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].QtyRemaining)
	assert.GreaterOrEqual(t, rows[0].QtyRemaining, 0)
	assert.LessOrEqual(t, rows[0].QtyRemaining, rows[0].QtyLoaded)
}

func TestDecrementOnSaleNoOpenRow(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)

	productID := seedProduct(t, db, "menta", 5, 100)
	cartID := seedCart(t, db, "C-10", domain.CartActive)

	err := ledger.DecrementOnSale(db, cartID, productID, 1)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestEmployeeInventory(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	assignments := NewAssignments(db)
	ctx := context.Background()

	vainilla := seedProduct(t, db, "vainilla", 5, 100)
	mora := seedProduct(t, db, "mora", 7, 100)
	cartID := seedCart(t, db, "C-11", domain.CartAvailable)
	employeeID := seedEmployee(t, db, "Juan", "Arnez")

	require.NoError(t, assignments.Assign(ctx, cartID, employeeID))
	require.NoError(t, ledger.Load(ctx, cartID, []LoadLine{
		{ProductID: vainilla, Quantity: 10},
		{ProductID: mora, Quantity: 3},
	}))
	// sell out one product entirely: it must drop off the listing
	require.NoError(t, ledger.DecrementOnSale(db, cartID, mora, 3))

	items, err := ledger.EmployeeInventory(ctx, employeeID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, vainilla, items[0].ProductID)
	assert.Equal(t, 10, items[0].Stock)
	assert.Equal(t, "vainilla", items[0].Name)
}
