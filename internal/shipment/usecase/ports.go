package usecase

import (
	"context"
	"database/sql"
	"time"

	"orthanc/internal/domain"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type ShipmentRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, s *domain.Shipment) (uint, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Shipment, error)
	CountPlannedForDay(ctx context.Context, tx *sql.Tx, day time.Time) (int, error)
	MarkShipped(ctx context.Context, tx *sql.Tx, id uint, departedAt time.Time) error
	MarkDelivered(ctx context.Context, tx *sql.Tx, id uint, deliveredAt time.Time) error
}

type CarrierRepository interface {
	FindByID(ctx context.Context, id int) (*domain.Carrier, error)
}

type OrderRepository interface {
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.SalesOrder, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id uint, status string) error
}

type OrderLineRepository interface {
	FindByOrderIDForUpdate(ctx context.Context, tx *sql.Tx, orderID uint) ([]domain.SalesOrderLine, error)
	UpdateQuantitiesBatch(ctx context.Context, tx *sql.Tx, lines []*domain.SalesOrderLine) error
}

type InventoryRepository interface {
	FindByPairForUpdate(ctx context.Context, tx *sql.Tx, productID, warehouseID int) (*domain.Inventory, error)
	UpdateQuantitiesBatch(ctx context.Context, tx *sql.Tx, records []*domain.Inventory) error
}

type MovementRepository interface {
	InsertBatch(ctx context.Context, tx *sql.Tx, movements []domain.InventoryMovement) error
}

type Scheduler interface {
	DefaultCutoffHour() int
	PlanDeparture(now time.Time, cutoffHour int) time.Time
	AtCapacity(plannedCount int) bool
	BumpForCapacity(planned time.Time) time.Time
	TrackingNumber(supplied, carrierName string, now time.Time) string
}
