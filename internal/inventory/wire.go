package inventory

import (
	"database/sql"

	"go.uber.org/zap"

	"orthanc/internal/config"
	"orthanc/internal/inventory/controller"
	invrepo "orthanc/internal/inventory/repository"
	"orthanc/internal/inventory/service"
	"orthanc/internal/inventory/usecase"
	orderrepo "orthanc/internal/order/repository"
)

// NewModule wires the stock side of the system. The receive use case is
// returned separately because the Kafka consumer drives it directly,
// bypassing HTTP.
func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) (*controller.StockController, *usecase.ReceiveStockUseCase) {
	inventoryRepo := invrepo.NewMySQLInventoryRepository(db)
	movementRepo := invrepo.NewMySQLMovementRepository(db)
	warehouseRepo := invrepo.NewMySQLWarehouseRepository(db)
	productRepo := orderrepo.NewMySQLProductRepository(db)
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	lineRepo := orderrepo.NewMySQLOrderLineRepository(db)

	reconciler := service.NewReconciliationService(logger)

	receiveUC := usecase.NewReceiveStockUseCase(
		db,
		inventoryRepo,
		movementRepo,
		productRepo,
		warehouseRepo,
		orderRepo,
		lineRepo,
		reconciler,
		logger,
		cfg.Order.ReservationTxTimeout,
		cfg.Order.MaxRetryAttempts,
	)
	adjustUC := usecase.NewAdjustStockUseCase(
		db,
		inventoryRepo,
		movementRepo,
		productRepo,
		warehouseRepo,
		logger,
		cfg.Order.ReservationTxTimeout,
	)
	queryUC := usecase.NewStockQueryUseCase(inventoryRepo, movementRepo, productRepo)

	ctrl := controller.NewStockController(receiveUC, adjustUC, queryUC, logger)
	return ctrl, receiveUC
}
