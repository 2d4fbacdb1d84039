package repository

import (
	"context"
	"database/sql"
	"fmt"

	"orthanc/internal/domain"
)

// MySQLMovementRepository appends to and reads the movement ledger. The
// ledger is append-only: there are deliberately no update or delete
// methods.
type MySQLMovementRepository struct {
	db *sql.DB
}

func NewMySQLMovementRepository(db *sql.DB) *MySQLMovementRepository {
	return &MySQLMovementRepository{db: db}
}

func (r *MySQLMovementRepository) Insert(ctx context.Context, tx *sql.Tx, m domain.InventoryMovement) (int, error) {
	query := `
		INSERT INTO InventoryMovements (productId, warehouseId, movementType, quantity, reference, occurredAt)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query, m.ProductID, m.WarehouseID, string(m.Type), m.Quantity, m.Reference, m.OccurredAt)
	if err != nil {
		return 0, fmt.Errorf("inserting inventory movement: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return int(lastInsertID), nil
}

func (r *MySQLMovementRepository) InsertBatch(ctx context.Context, tx *sql.Tx, movements []domain.InventoryMovement) error {
	for _, m := range movements {
		if _, err := r.Insert(ctx, tx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *MySQLMovementRepository) ListByProduct(ctx context.Context, productID int) ([]domain.InventoryMovement, error) {
	query := `
		SELECT id, productId, warehouseId, movementType, quantity, reference, occurredAt
		FROM InventoryMovements
		WHERE productId = ?
		ORDER BY occurredAt DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("querying inventory movements: %w", err)
	}
	defer rows.Close()

	var movements []domain.InventoryMovement
	for rows.Next() {
		var m domain.InventoryMovement
		var movementType string
		err := rows.Scan(&m.ID, &m.ProductID, &m.WarehouseID, &movementType, &m.Quantity, &m.Reference, &m.OccurredAt)
		if err != nil {
			return nil, fmt.Errorf("scanning movement row: %w", err)
		}
		m.Type = domain.MovementType(movementType)
		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating movement rows: %w", err)
	}

	return movements, nil
}
