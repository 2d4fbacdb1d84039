package order

import (
	"database/sql"

	"go.uber.org/zap"

	"orthanc/internal/config"
	invrepo "orthanc/internal/inventory/repository"
	invservice "orthanc/internal/inventory/service"
	"orthanc/internal/order/controller"
	orderrepo "orthanc/internal/order/repository"
	"orthanc/internal/order/usecase"
	shiprepo "orthanc/internal/shipment/repository"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *controller.OrderController {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	lineRepo := orderrepo.NewMySQLOrderLineRepository(db)
	productRepo := orderrepo.NewMySQLProductRepository(db)
	warehouseRepo := invrepo.NewMySQLWarehouseRepository(db)
	inventoryRepo := invrepo.NewMySQLInventoryRepository(db)
	movementRepo := invrepo.NewMySQLMovementRepository(db)
	shipmentRepo := shiprepo.NewMySQLShipmentRepository(db)

	allocator := invservice.NewAllocationService(logger)

	createUC := usecase.NewCreateOrderUseCase(
		db,
		orderRepo,
		lineRepo,
		productRepo,
		warehouseRepo,
		inventoryRepo,
		allocator,
		logger,
		cfg.Order.ReservationTxTimeout,
		cfg.Order.MaxRetryAttempts,
	)
	cancelUC := usecase.NewCancelOrderUseCase(
		db,
		orderRepo,
		lineRepo,
		inventoryRepo,
		logger,
		cfg.Order.ReservationTxTimeout,
	)
	shipUC := usecase.NewShipOrderUseCase(
		db,
		orderRepo,
		lineRepo,
		inventoryRepo,
		movementRepo,
		logger,
		cfg.Order.ReservationTxTimeout,
	)
	getUC := usecase.NewGetOrderUseCase(orderRepo, lineRepo, shipmentRepo)

	return controller.NewOrderController(createUC, cancelUC, shipUC, getUC, logger)
}
