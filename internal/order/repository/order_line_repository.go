package repository

import (
	"context"
	"database/sql"
	"fmt"

	"orthanc/internal/domain"
)

type MySQLOrderLineRepository struct {
	db *sql.DB
}

func NewMySQLOrderLineRepository(db *sql.DB) *MySQLOrderLineRepository {
	return &MySQLOrderLineRepository{db: db}
}

const lineColumns = `id, orderId, productId, warehouseId, quantity, qtyReserved, qtyBackordered, unitPrice`

func (r *MySQLOrderLineRepository) Insert(ctx context.Context, tx *sql.Tx, line domain.SalesOrderLine) (uint, error) {
	query := `
		INSERT INTO SalesOrderLines (orderId, productId, warehouseId, quantity, qtyReserved, qtyBackordered, unitPrice)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		line.OrderID, line.ProductID, line.WarehouseID, line.Quantity, line.QtyReserved, line.QtyBackordered, line.UnitPrice,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order line: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLOrderLineRepository) InsertBatch(ctx context.Context, tx *sql.Tx, lines []domain.SalesOrderLine) error {
	for _, line := range lines {
		if _, err := r.Insert(ctx, tx, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *MySQLOrderLineRepository) FindByOrderID(ctx context.Context, orderID uint) ([]domain.SalesOrderLine, error) {
	query := `SELECT ` + lineColumns + ` FROM SalesOrderLines WHERE orderId = ? ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order lines: %w", err)
	}
	defer rows.Close()

	return scanLines(rows)
}

// FindByOrderIDForUpdate locks an order's lines alongside the order row.
func (r *MySQLOrderLineRepository) FindByOrderIDForUpdate(ctx context.Context, tx *sql.Tx, orderID uint) ([]domain.SalesOrderLine, error) {
	query := `SELECT ` + lineColumns + ` FROM SalesOrderLines WHERE orderId = ? ORDER BY id FOR UPDATE`

	rows, err := tx.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order lines for update: %w", err)
	}
	defer rows.Close()

	return scanLines(rows)
}

// FindBackorderedByProductForUpdate returns every live backordered line for
// a product, oldest order first so replenishment is FIFO-fair. Lines of
// canceled orders are excluded: their backorder is void.
func (r *MySQLOrderLineRepository) FindBackorderedByProductForUpdate(ctx context.Context, tx *sql.Tx, productID int) ([]*domain.SalesOrderLine, error) {
	query := `
		SELECT l.id, l.orderId, l.productId, l.warehouseId, l.quantity, l.qtyReserved, l.qtyBackordered, l.unitPrice
		FROM SalesOrderLines l
		JOIN SalesOrders o ON o.id = l.orderId
		WHERE l.productId = ?
		  AND l.qtyBackordered > 0
		  AND o.status NOT IN (?, ?)
		ORDER BY o.createdAt, o.id, l.id
		FOR UPDATE
	`

	rows, err := tx.QueryContext(ctx, query, productID, domain.OrderStatusCanceled, domain.OrderStatusDelivered)
	if err != nil {
		return nil, fmt.Errorf("querying backordered lines: %w", err)
	}
	defer rows.Close()

	var lines []*domain.SalesOrderLine
	for rows.Next() {
		var line domain.SalesOrderLine
		err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.WarehouseID,
			&line.Quantity, &line.QtyReserved, &line.QtyBackordered, &line.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("scanning order line row: %w", err)
		}
		lines = append(lines, &line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order line rows: %w", err)
	}

	return lines, nil
}

// UpdateQuantities persists a line's reserved/backordered split together
// with its warehouse and quantity, which reconciliation may re-point or
// shrink when stock clears at a different warehouse.
func (r *MySQLOrderLineRepository) UpdateQuantities(ctx context.Context, tx *sql.Tx, line *domain.SalesOrderLine) error {
	query := `UPDATE SalesOrderLines SET warehouseId = ?, quantity = ?, qtyReserved = ?, qtyBackordered = ? WHERE id = ?`

	if _, err := tx.ExecContext(ctx, query, line.WarehouseID, line.Quantity, line.QtyReserved, line.QtyBackordered, line.ID); err != nil {
		return fmt.Errorf("updating order line quantities: %w", err)
	}

	return nil
}

func (r *MySQLOrderLineRepository) UpdateQuantitiesBatch(ctx context.Context, tx *sql.Tx, lines []*domain.SalesOrderLine) error {
	for _, line := range lines {
		if err := r.UpdateQuantities(ctx, tx, line); err != nil {
			return err
		}
	}
	return nil
}

func scanLines(rows *sql.Rows) ([]domain.SalesOrderLine, error) {
	var lines []domain.SalesOrderLine
	for rows.Next() {
		var line domain.SalesOrderLine
		err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.WarehouseID,
			&line.Quantity, &line.QtyReserved, &line.QtyBackordered, &line.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("scanning order line row: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order line rows: %w", err)
	}

	return lines, nil
}
