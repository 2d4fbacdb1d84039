package usecase

import (
	"context"
	"database/sql"

	"orthanc/internal/domain"
	"orthanc/internal/inventory/service"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.SalesOrder, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.SalesOrder, error)
	Insert(ctx context.Context, tx *sql.Tx, order *domain.SalesOrder) (uint, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id uint, status string) error
}

type OrderLineRepository interface {
	InsertBatch(ctx context.Context, tx *sql.Tx, lines []domain.SalesOrderLine) error
	FindByOrderID(ctx context.Context, orderID uint) ([]domain.SalesOrderLine, error)
	FindByOrderIDForUpdate(ctx context.Context, tx *sql.Tx, orderID uint) ([]domain.SalesOrderLine, error)
	UpdateQuantitiesBatch(ctx context.Context, tx *sql.Tx, lines []*domain.SalesOrderLine) error
}

type ProductRepository interface {
	FindByID(ctx context.Context, id int) (*domain.Product, error)
}

type WarehouseRepository interface {
	FirstWarehouseID(ctx context.Context) (int, error)
}

type InventoryRepository interface {
	FindByProductForUpdate(ctx context.Context, tx *sql.Tx, productID int) ([]*domain.Inventory, error)
	FindByPairForUpdate(ctx context.Context, tx *sql.Tx, productID, warehouseID int) (*domain.Inventory, error)
	UpdateQuantitiesBatch(ctx context.Context, tx *sql.Tx, records []*domain.Inventory) error
}

type MovementRepository interface {
	InsertBatch(ctx context.Context, tx *sql.Tx, movements []domain.InventoryMovement) error
}

type ShipmentRepository interface {
	FindByOrderID(ctx context.Context, orderID uint) ([]domain.Shipment, error)
}

type StockAllocator interface {
	Allocate(product domain.Product, requestedQty int, records []*domain.Inventory, fallbackWarehouseID int) (*service.AllocationResult, error)
}
