package repository

import (
	"context"
	"database/sql"
	"fmt"

	"orthanc/internal/domain"
	"orthanc/internal/errors"
)

type MySQLCarrierRepository struct {
	db *sql.DB
}

func NewMySQLCarrierRepository(db *sql.DB) *MySQLCarrierRepository {
	return &MySQLCarrierRepository{db: db}
}

func (r *MySQLCarrierRepository) FindByID(ctx context.Context, id int) (*domain.Carrier, error) {
	query := `SELECT id, name, isActive FROM Carriers WHERE id = ?`

	var c domain.Carrier
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.IsActive)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("carrier with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying carrier by id: %w", err)
	}

	return &c, nil
}
