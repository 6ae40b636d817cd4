package vending

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostcart/frostcart/internal/domain"
)

func TestRecordSaleDecrementsCartInventory(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	sales := NewSales(db, ledger, nil)
	ctx := context.Background()

	productID := seedProduct(t, db, "vainilla", 5, 100)
	cartID := seedCart(t, db, "C-30", domain.CartActive)
	clientID := seedClient(t, db, "Carlos", "Rojas")
	employeeID := seedEmployee(t, db, "Juan", "Arnez")

	require.NoError(t, ledger.Load(ctx, cartID, []LoadLine{{ProductID: productID, Quantity: 50}}))

	saleID, err := sales.Record(ctx, clientID, employeeID, &cartID, []SaleLineInput{
		{ProductID: productID, Quantity: 10, UnitPrice: 5},
	})
	require.NoError(t, err)
	assert.NotZero(t, saleID)

	rows := openLoads(t, db, cartID)
	require.Len(t, rows, 1)
	assert.Equal(t, 40, rows[0].QtyRemaining)

	var lines []domain.SaleLine
	require.NoError(t, db.Where("sale_id = ?", saleID).Find(&lines).Error)
	require.Len(t, lines, 1)
	assert.Equal(t, 10, lines[0].Qty)
	assert.Equal(t, 5.0, lines[0].UnitPrice)
}

func TestRecordSalePriceIsSnapshotted(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	sales := NewSales(db, ledger, nil)
	ctx := context.Background()

	productID := seedProduct(t, db, "frutilla", 4, 100)
	clientID := seedClient(t, db, "Elena", "Paz")
	employeeID := seedEmployee(t, db, "Maria", "Quispe")

	saleID, err := sales.Record(ctx, clientID, employeeID, nil, []SaleLineInput{
		{ProductID: productID, Quantity: 2, UnitPrice: 3.5},
	})
	require.NoError(t, err)

	// later catalog price change must not touch the recorded line
	require.NoError(t, db.Model(&domain.Product{}).Where("id = ?", productID).Update("price", 9.0).Error)

	var line domain.SaleLine
	require.NoError(t, db.Where("sale_id = ?", saleID).First(&line).Error)
	assert.Equal(t, 3.5, line.UnitPrice)
}

func TestRecordSaleValidation(t *testing.T) {
	db := newTestDB(t)
	sales := NewSales(db, NewLedger(db), nil)
	ctx := context.Background()

	clientID := seedClient(t, db, "Jose", "Luna")
	employeeID := seedEmployee(t, db, "Pedro", "Mamani")

	_, err := sales.Record(ctx, clientID, employeeID, nil, nil)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = sales.Record(ctx, 0, employeeID, nil, []SaleLineInput{{ProductID: 1, Quantity: 1}})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = sales.Record(ctx, clientID, 0, nil, []SaleLineInput{{ProductID: 1, Quantity: 1}})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	// nothing persisted by the rejected requests
	var count int64
	require.NoError(t, db.Model(&domain.Sale{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecordSaleRollsBackOnFailedDecrement(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	sales := NewSales(db, ledger, nil)
	ctx := context.Background()

	loaded := seedProduct(t, db, "chocolate", 6, 100)
	unloaded := seedProduct(t, db, "mango", 6, 100)
	cartID := seedCart(t, db, "C-31", domain.CartActive)
	clientID := seedClient(t, db, "Luis", "Castro")
	employeeID := seedEmployee(t, db, "Lucia", "Flores")

	require.NoError(t, ledger.Load(ctx, cartID, []LoadLine{{ProductID: loaded, Quantity: 20}}))

	// second line has no open load row on this cart: entire sale must vanish
	_, err := sales.Record(ctx, clientID, employeeID, &cartID, []SaleLineInput{
		{ProductID: loaded, Quantity: 5, UnitPrice: 6},
		{ProductID: unloaded, Quantity: 1, UnitPrice: 6},
	})
	assert.True(t, errors.Is(err, ErrNotFound))

	var saleCount, lineCount int64
	require.NoError(t, db.Model(&domain.Sale{}).Count(&saleCount).Error)
	require.NoError(t, db.Model(&domain.SaleLine{}).Count(&lineCount).Error)
	assert.Zero(t, saleCount)
	assert.Zero(t, lineCount)

	rows := openLoads(t, db, cartID)
	require.Len(t, rows, 1)
	assert.Equal(t, 20, rows[0].QtyRemaining)
}

func TestRecordSaleWithoutCartSkipsLedger(t *testing.T) {
	db := newTestDB(t)
	sales := NewSales(db, NewLedger(db), nil)
	ctx := context.Background()

	productID := seedProduct(t, db, "coco", 5, 100)
	clientID := seedClient(t, db, "Nina", "Salas")
	employeeID := seedEmployee(t, db, "Rosa", "Choque")

	saleID, err := sales.Record(ctx, clientID, employeeID, nil, []SaleLineInput{
		{ProductID: productID, Quantity: 3, UnitPrice: 5},
	})
	require.NoError(t, err)
	assert.NotZero(t, saleID)
	assert.Equal(t, 100, centralStock(t, db, productID))
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	sales := NewSales(db, ledger, nil)
	ctx := context.Background()

	productID := seedProduct(t, db, "vainilla", 5, 100)
	cartID := seedCart(t, db, "C-32", domain.CartActive)
	clientID := seedClient(t, db, "Ana", "Vargas")
	employeeID := seedEmployee(t, db, "Juan", "Arnez")

	require.NoError(t, ledger.Load(ctx, cartID, []LoadLine{{ProductID: productID, Quantity: 40}}))

	// two sales of 30 against a remainder of 40: exactly one may win
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = sales.Record(ctx, clientID, employeeID, &cartID, []SaleLineInput{
				{ProductID: productID, Quantity: 30, UnitPrice: 5},
			})
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
		} else if errors.Is(err, ErrInsufficientStock) {
			lost++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)

	rows := openLoads(t, db, cartID)
	require.Len(t, rows, 1)
	assert.Equal(t, 10, rows[0].QtyRemaining)
}

func TestEmployeeSalesTodayAndDetail(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	sales := NewSales(db, ledger, nil)
	ctx := context.Background()

	productID := seedProduct(t, db, "mora", 7, 100)
	cartID := seedCart(t, db, "C-33", domain.CartActive)
	clientID := seedClient(t, db, "Carla", "Mendez")
	employeeID := seedEmployee(t, db, "Maria", "Quispe")

	require.NoError(t, ledger.Load(ctx, cartID, []LoadLine{{ProductID: productID, Quantity: 10}}))
	saleID, err := sales.Record(ctx, clientID, employeeID, &cartID, []SaleLineInput{
		{ProductID: productID, Quantity: 2, UnitPrice: 7},
	})
	require.NoError(t, err)

	summaries, err := sales.EmployeeSalesToday(ctx, employeeID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, saleID, summaries[0].SaleID)
	assert.Equal(t, 14.0, summaries[0].Total)
	assert.Equal(t, "C-33", summaries[0].CartCode)
	assert.Equal(t, "Carla Mendez", summaries[0].Client)

	detail, err := sales.Detail(ctx, saleID)
	require.NoError(t, err)
	require.Len(t, detail, 1)
	assert.Equal(t, "mora", detail[0].Product)
	assert.Equal(t, 14.0, detail[0].Subtotal)

	_, err = sales.Detail(ctx, 424242)
	assert.True(t, errors.Is(err, ErrNotFound))
}
