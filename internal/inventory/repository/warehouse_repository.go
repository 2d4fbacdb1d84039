package repository

import (
	"context"
	"database/sql"
	"fmt"

	"orthanc/internal/domain"
	"orthanc/internal/errors"
)

type MySQLWarehouseRepository struct {
	db *sql.DB
}

func NewMySQLWarehouseRepository(db *sql.DB) *MySQLWarehouseRepository {
	return &MySQLWarehouseRepository{db: db}
}

func (r *MySQLWarehouseRepository) FindByID(ctx context.Context, id int) (*domain.Warehouse, error) {
	query := `SELECT id, code, name, createdAt FROM Warehouses WHERE id = ?`

	var w domain.Warehouse
	err := r.db.QueryRowContext(ctx, query, id).Scan(&w.ID, &w.Code, &w.Name, &w.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("warehouse with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying warehouse by id: %w", err)
	}

	return &w, nil
}

// FirstWarehouseID returns the lowest warehouse id in the system, used as
// the last-resort fallback location for backorder lines. Returns 0 when no
// warehouse exists at all.
func (r *MySQLWarehouseRepository) FirstWarehouseID(ctx context.Context) (int, error) {
	query := `SELECT id FROM Warehouses ORDER BY id LIMIT 1`

	var id int
	err := r.db.QueryRowContext(ctx, query).Scan(&id)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("querying first warehouse: %w", err)
	}

	return id, nil
}
