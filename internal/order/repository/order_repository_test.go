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

func TestNewMySQLOrderRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func TestOrderRepository_FindByID_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	result, err := db.Exec(`
		INSERT INTO SalesOrders (clientRef, status, totalPrice)
		VALUES ('web-1001', 'RESERVED', 149.90)
	`)
	require.NoError(t, err)

	id, err := result.LastInsertId()
	require.NoError(t, err)

	order, err := repo.FindByID(context.Background(), uint(id))
	require.NoError(t, err)
	assert.NotNil(t, order)
	assert.Equal(t, uint(id), order.ID)
	assert.Equal(t, "web-1001", order.ClientRef)
	assert.Equal(t, domain.OrderStatusReserved, order.Status)
	assert.Equal(t, "149.9", order.TotalPrice.String())
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	order, err := repo.FindByID(context.Background(), uint(9999))
	assert.Error(t, err)
	assert.Nil(t, order)

	nfe, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, nfe)
}

func TestOrderRepository_InsertAndUpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	order := &domain.SalesOrder{
		ClientRef: "web-1002",
		Status:    domain.OrderStatusCreated,
	}

	id, err := repo.Insert(ctx, tx, order)
	require.NoError(t, err)
	assert.Greater(t, id, uint(0))

	err = repo.UpdateStatus(ctx, tx, id, domain.OrderStatusCanceled)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCanceled, found.Status)
}

func TestOrderRepository_UpdateStatus_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	err = repo.UpdateStatus(ctx, tx, uint(9999), domain.OrderStatusCanceled)
	assert.Error(t, err)

	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}
