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

type InventoryRepository interface {
	FindByProduct(ctx context.Context, productID int) ([]domain.Inventory, error)
	FindByPairForUpdate(ctx context.Context, tx *sql.Tx, productID, warehouseID int) (*domain.Inventory, error)
	Insert(ctx context.Context, tx *sql.Tx, inv *domain.Inventory) (int, error)
	UpdateQuantities(ctx context.Context, tx *sql.Tx, inv *domain.Inventory) error
}

type MovementRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, m domain.InventoryMovement) (int, error)
	ListByProduct(ctx context.Context, productID int) ([]domain.InventoryMovement, error)
}

type ProductRepository interface {
	FindByID(ctx context.Context, id int) (*domain.Product, error)
}

type WarehouseRepository interface {
	FindByID(ctx context.Context, id int) (*domain.Warehouse, error)
}

type OrderRepository interface {
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.SalesOrder, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id uint, status string) error
}

type OrderLineRepository interface {
	FindBackorderedByProductForUpdate(ctx context.Context, tx *sql.Tx, productID int) ([]*domain.SalesOrderLine, error)
	FindByOrderIDForUpdate(ctx context.Context, tx *sql.Tx, orderID uint) ([]domain.SalesOrderLine, error)
	InsertBatch(ctx context.Context, tx *sql.Tx, lines []domain.SalesOrderLine) error
	UpdateQuantitiesBatch(ctx context.Context, tx *sql.Tx, lines []*domain.SalesOrderLine) error
}

type BackorderReconciler interface {
	Replenish(inv *domain.Inventory, lines []*domain.SalesOrderLine) service.ReplenishResult
}
