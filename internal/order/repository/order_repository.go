package repository

import (
	"context"
	"database/sql"
	"fmt"

	"orthanc/internal/domain"
	"orthanc/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderColumns = `id, clientRef, status, totalPrice, createdAt, updatedAt`

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.SalesOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM SalesOrders WHERE id = ?`

	var order domain.SalesOrder
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.ClientRef, &order.Status, &order.TotalPrice, &order.CreatedAt, &order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return &order, nil
}

// FindByIDForUpdate locks the order row for the duration of the
// transaction, serializing concurrent operations on the same order.
func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.SalesOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM SalesOrders WHERE id = ? FOR UPDATE`

	var order domain.SalesOrder
	err := tx.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.ClientRef, &order.Status, &order.TotalPrice, &order.CreatedAt, &order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order for update: %w", err)
	}

	return &order, nil
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order *domain.SalesOrder) (uint, error) {
	query := `INSERT INTO SalesOrders (clientRef, status, totalPrice) VALUES (?, ?, ?)`

	result, err := tx.ExecContext(ctx, query, order.ClientRef, order.Status, order.TotalPrice)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id uint, status string) error {
	query := `UPDATE SalesOrders SET status = ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}

	return nil
}
