package repository

import (
	"context"
	"database/sql"
	"fmt"

	"orthanc/internal/domain"
	"orthanc/internal/errors"
)

type MySQLInventoryRepository struct {
	db *sql.DB
}

func NewMySQLInventoryRepository(db *sql.DB) *MySQLInventoryRepository {
	return &MySQLInventoryRepository{db: db}
}

// FindByProductForUpdate locks and returns every inventory record for a
// product. Rows come back in warehouse-id order so concurrent allocations
// acquire locks in the same sequence.
func (r *MySQLInventoryRepository) FindByProductForUpdate(ctx context.Context, tx *sql.Tx, productID int) ([]*domain.Inventory, error) {
	query := `
		SELECT id, productId, warehouseId, qtyOnHand, qtyReserved, createdAt, updatedAt
		FROM Inventory
		WHERE productId = ?
		ORDER BY warehouseId
		FOR UPDATE
	`

	rows, err := tx.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("querying inventory for update: %w", err)
	}
	defer rows.Close()

	var records []*domain.Inventory
	for rows.Next() {
		var inv domain.Inventory
		err := rows.Scan(&inv.ID, &inv.ProductID, &inv.WarehouseID, &inv.QtyOnHand, &inv.QtyReserved, &inv.CreatedAt, &inv.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning inventory row: %w", err)
		}
		records = append(records, &inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating inventory rows: %w", err)
	}

	return records, nil
}

// FindByPairForUpdate locks the single record for a (product, warehouse)
// pair.
func (r *MySQLInventoryRepository) FindByPairForUpdate(ctx context.Context, tx *sql.Tx, productID, warehouseID int) (*domain.Inventory, error) {
	query := `
		SELECT id, productId, warehouseId, qtyOnHand, qtyReserved, createdAt, updatedAt
		FROM Inventory
		WHERE productId = ? AND warehouseId = ?
		FOR UPDATE
	`

	var inv domain.Inventory
	err := tx.QueryRowContext(ctx, query, productID, warehouseID).Scan(
		&inv.ID, &inv.ProductID, &inv.WarehouseID, &inv.QtyOnHand, &inv.QtyReserved, &inv.CreatedAt, &inv.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no inventory for product %d in warehouse %d", productID, warehouseID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying inventory by pair: %w", err)
	}

	return &inv, nil
}

func (r *MySQLInventoryRepository) FindByProduct(ctx context.Context, productID int) ([]domain.Inventory, error) {
	query := `
		SELECT id, productId, warehouseId, qtyOnHand, qtyReserved, createdAt, updatedAt
		FROM Inventory
		WHERE productId = ?
		ORDER BY warehouseId
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("querying inventory: %w", err)
	}
	defer rows.Close()

	var records []domain.Inventory
	for rows.Next() {
		var inv domain.Inventory
		err := rows.Scan(&inv.ID, &inv.ProductID, &inv.WarehouseID, &inv.QtyOnHand, &inv.QtyReserved, &inv.CreatedAt, &inv.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning inventory row: %w", err)
		}
		records = append(records, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating inventory rows: %w", err)
	}

	return records, nil
}

// Insert creates the record for a (product, warehouse) pair. Records are
// created lazily the first time stock touches the pair.
func (r *MySQLInventoryRepository) Insert(ctx context.Context, tx *sql.Tx, inv *domain.Inventory) (int, error) {
	query := `INSERT INTO Inventory (productId, warehouseId, qtyOnHand, qtyReserved) VALUES (?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query, inv.ProductID, inv.WarehouseID, inv.QtyOnHand, inv.QtyReserved)
	if err != nil {
		return 0, fmt.Errorf("inserting inventory: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return int(lastInsertID), nil
}

// UpdateQuantities persists both counters. RowsAffected is not checked
// here: a clamped release can legally leave the row byte-identical, which
// MySQL reports as zero rows affected.
func (r *MySQLInventoryRepository) UpdateQuantities(ctx context.Context, tx *sql.Tx, inv *domain.Inventory) error {
	query := `UPDATE Inventory SET qtyOnHand = ?, qtyReserved = ? WHERE id = ?`

	if _, err := tx.ExecContext(ctx, query, inv.QtyOnHand, inv.QtyReserved, inv.ID); err != nil {
		return fmt.Errorf("updating inventory quantities: %w", err)
	}

	return nil
}

// UpdateQuantitiesBatch persists a set of mutated records in one pass, at
// the end of the operation that mutated them.
func (r *MySQLInventoryRepository) UpdateQuantitiesBatch(ctx context.Context, tx *sql.Tx, records []*domain.Inventory) error {
	for _, inv := range records {
		if err := r.UpdateQuantities(ctx, tx, inv); err != nil {
			return err
		}
	}
	return nil
}
