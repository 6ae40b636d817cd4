package vending

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostcart/frostcart/internal/domain"
)

func TestDailyCycleReconcilesStock(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	assignments := NewAssignments(db)
	sales := NewSales(db, ledger, nil)
	lifecycle := NewLifecycle(db, ledger, assignments)
	ctx := context.Background()

	productID := seedProduct(t, db, "vainilla", 5, 200)
	cartID := seedCart(t, db, "C-40", domain.CartAvailable)
	clientID := seedClient(t, db, "Carlos", "Rojas")
	employeeID := seedEmployee(t, db, "Juan", "Arnez")

	require.NoError(t, lifecycle.Assign(ctx, cartID, employeeID))
	require.NoError(t, lifecycle.Load(ctx, cartID, []LoadLine{{ProductID: productID, Quantity: 50}}))
	assert.Equal(t, 150, centralStock(t, db, productID))

	_, err := sales.Record(ctx, clientID, employeeID, &cartID, []SaleLineInput{
		{ProductID: productID, Quantity: 10, UnitPrice: 5},
	})
	require.NoError(t, err)

	require.NoError(t, lifecycle.CloseCart(ctx, cartID))

	// final central stock = initial - sold
	assert.Equal(t, 190, centralStock(t, db, productID))
	assert.Empty(t, openLoads(t, db, cartID))

	var cart domain.Cart
	require.NoError(t, db.First(&cart, cartID).Error)
	assert.Equal(t, domain.CartAvailable, cart.Status)

	var openAssignments int64
	require.NoError(t, db.Model(&domain.CartAssignment{}).
		Where("cart_id = ? AND ended_at IS NULL", cartID).Count(&openAssignments).Error)
	assert.Zero(t, openAssignments)
}

func TestLoadThenCloseIsStockNoOp(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	assignments := NewAssignments(db)
	lifecycle := NewLifecycle(db, ledger, assignments)
	ctx := context.Background()

	productID := seedProduct(t, db, "limon", 3, 80)
	cartID := seedCart(t, db, "C-41", domain.CartAvailable)
	employeeID := seedEmployee(t, db, "Pedro", "Mamani")

	require.NoError(t, lifecycle.Assign(ctx, cartID, employeeID))
	require.NoError(t, lifecycle.Load(ctx, cartID, []LoadLine{{ProductID: productID, Quantity: 25}}))
	require.NoError(t, lifecycle.CloseCart(ctx, cartID))

	assert.Equal(t, 80, centralStock(t, db, productID))
}

func TestCloseCartRequiresActive(t *testing.T) {
	db := newTestDB(t)
	lifecycle := NewLifecycle(db, NewLedger(db), NewAssignments(db))
	ctx := context.Background()

	cartID := seedCart(t, db, "C-42", domain.CartAvailable)
	assert.True(t, errors.Is(lifecycle.CloseCart(ctx, cartID), ErrConflict))
	assert.True(t, errors.Is(lifecycle.CloseCart(ctx, 9999), ErrNotFound))
}

func TestStaleActiveCarts(t *testing.T) {
	db := newTestDB(t)
	assignments := NewAssignments(db)
	lifecycle := NewLifecycle(db, NewLedger(db), assignments)
	ctx := context.Background()

	cartID := seedCart(t, db, "C-43", domain.CartAvailable)
	employeeID := seedEmployee(t, db, "Lucia", "Flores")
	require.NoError(t, assignments.Assign(ctx, cartID, employeeID))

	ids, err := lifecycle.StaleActiveCarts(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = lifecycle.StaleActiveCarts(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []int64{cartID}, ids)
}
