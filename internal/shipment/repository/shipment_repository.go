package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"orthanc/internal/domain"
	"orthanc/internal/errors"
)

type MySQLShipmentRepository struct {
	db *sql.DB
}

func NewMySQLShipmentRepository(db *sql.DB) *MySQLShipmentRepository {
	return &MySQLShipmentRepository{db: db}
}

const shipmentColumns = `id, orderId, carrierId, status, trackingNumber, plannedDeparture, actualDeparture, deliveredAt, cutoffHour, createdAt`

func (r *MySQLShipmentRepository) Insert(ctx context.Context, tx *sql.Tx, s *domain.Shipment) (uint, error) {
	query := `
		INSERT INTO Shipments (orderId, carrierId, status, trackingNumber, plannedDeparture, cutoffHour)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query, s.OrderID, s.CarrierID, s.Status, s.TrackingNumber, s.PlannedDeparture, s.CutoffHour)
	if err != nil {
		return 0, fmt.Errorf("inserting shipment: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLShipmentRepository) FindByID(ctx context.Context, id uint) (*domain.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM Shipments WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), id)
}

func (r *MySQLShipmentRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM Shipments WHERE id = ? FOR UPDATE`
	return r.scanOne(tx.QueryRowContext(ctx, query, id), id)
}

func (r *MySQLShipmentRepository) FindByOrderID(ctx context.Context, orderID uint) ([]domain.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM Shipments WHERE orderId = ? ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying shipments by order: %w", err)
	}
	defer rows.Close()

	var shipments []domain.Shipment
	for rows.Next() {
		var s domain.Shipment
		err := rows.Scan(&s.ID, &s.OrderID, &s.CarrierID, &s.Status, &s.TrackingNumber,
			&s.PlannedDeparture, &s.ActualDeparture, &s.DeliveredAt, &s.CutoffHour, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning shipment row: %w", err)
		}
		shipments = append(shipments, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating shipment rows: %w", err)
	}

	return shipments, nil
}

// CountPlannedForDay counts shipments whose planned departure falls inside
// the given calendar day, for the per-day capacity check.
func (r *MySQLShipmentRepository) CountPlannedForDay(ctx context.Context, tx *sql.Tx, day time.Time) (int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	query := `SELECT COUNT(*) FROM Shipments WHERE plannedDeparture >= ? AND plannedDeparture < ?`

	var count int
	if err := tx.QueryRowContext(ctx, query, start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting planned shipments: %w", err)
	}

	return count, nil
}

func (r *MySQLShipmentRepository) MarkShipped(ctx context.Context, tx *sql.Tx, id uint, departedAt time.Time) error {
	query := `UPDATE Shipments SET status = ?, actualDeparture = ? WHERE id = ?`

	if _, err := tx.ExecContext(ctx, query, domain.ShipmentStatusShipped, departedAt, id); err != nil {
		return fmt.Errorf("marking shipment shipped: %w", err)
	}

	return nil
}

func (r *MySQLShipmentRepository) MarkDelivered(ctx context.Context, tx *sql.Tx, id uint, deliveredAt time.Time) error {
	query := `UPDATE Shipments SET status = ?, deliveredAt = ? WHERE id = ?`

	if _, err := tx.ExecContext(ctx, query, domain.ShipmentStatusDelivered, deliveredAt, id); err != nil {
		return fmt.Errorf("marking shipment delivered: %w", err)
	}

	return nil
}

func (r *MySQLShipmentRepository) scanOne(row *sql.Row, id uint) (*domain.Shipment, error) {
	var s domain.Shipment
	err := row.Scan(&s.ID, &s.OrderID, &s.CarrierID, &s.Status, &s.TrackingNumber,
		&s.PlannedDeparture, &s.ActualDeparture, &s.DeliveredAt, &s.CutoffHour, &s.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("shipment with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying shipment by id: %w", err)
	}

	return &s, nil
}
