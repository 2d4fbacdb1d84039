package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orthanc/internal/domain"
	"orthanc/internal/errors"
	"orthanc/internal/testutil"
)

// Unit Tests

func TestNewMySQLInventoryRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLInventoryRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func seedPair(t *testing.T, db *sql.DB, productID, warehouseID, onHand, reserved int) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO Inventory (productId, warehouseId, qtyOnHand, qtyReserved)
		VALUES (?, ?, ?, ?)
	`, productID, warehouseID, onHand, reserved)
	require.NoError(t, err)
}

func TestInventoryRepository_FindByProduct_OrderedByWarehouse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLInventoryRepository(db)

	seedPair(t, db, 1, 3, 40, 0)
	seedPair(t, db, 1, 1, 80, 10)
	seedPair(t, db, 2, 1, 5, 0)

	records, err := repo.FindByProduct(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 1, records[0].WarehouseID)
	assert.Equal(t, 80, records[0].QtyOnHand)
	assert.Equal(t, 10, records[0].QtyReserved)
	assert.Equal(t, 70, records[0].Available())
	assert.Equal(t, 3, records[1].WarehouseID)
}

func TestInventoryRepository_FindByPairForUpdate_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLInventoryRepository(db)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	inv, err := repo.FindByPairForUpdate(ctx, tx, 42, 42)
	assert.Error(t, err)
	assert.Nil(t, inv)

	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestInventoryRepository_InsertAndUpdateQuantities(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLInventoryRepository(db)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	inv := &domain.Inventory{ProductID: 7, WarehouseID: 2, QtyOnHand: 50}
	id, err := repo.Insert(ctx, tx, inv)
	require.NoError(t, err)
	assert.Greater(t, id, 0)
	inv.ID = id

	inv.QtyOnHand = 30
	inv.QtyReserved = 12
	require.NoError(t, repo.UpdateQuantities(ctx, tx, inv))
	require.NoError(t, tx.Commit())

	records, err := repo.FindByProduct(ctx, 7)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 30, records[0].QtyOnHand)
	assert.Equal(t, 12, records[0].QtyReserved)
}
