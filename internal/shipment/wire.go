package shipment

import (
	"database/sql"

	"go.uber.org/zap"

	"orthanc/internal/config"
	invrepo "orthanc/internal/inventory/repository"
	orderrepo "orthanc/internal/order/repository"
	"orthanc/internal/shipment/controller"
	shiprepo "orthanc/internal/shipment/repository"
	"orthanc/internal/shipment/service"
	"orthanc/internal/shipment/usecase"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *controller.ShipmentController {
	shipmentRepo := shiprepo.NewMySQLShipmentRepository(db)
	carrierRepo := shiprepo.NewMySQLCarrierRepository(db)
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	lineRepo := orderrepo.NewMySQLOrderLineRepository(db)
	inventoryRepo := invrepo.NewMySQLInventoryRepository(db)
	movementRepo := invrepo.NewMySQLMovementRepository(db)

	scheduler := service.NewSchedulingService(cfg.Fulfillment)

	createUC := usecase.NewCreateShipmentUseCase(
		db,
		shipmentRepo,
		carrierRepo,
		orderRepo,
		scheduler,
		logger,
		cfg.Order.ReservationTxTimeout,
	)
	shippedUC := usecase.NewMarkShippedUseCase(
		db,
		shipmentRepo,
		orderRepo,
		lineRepo,
		inventoryRepo,
		movementRepo,
		logger,
		cfg.Order.ReservationTxTimeout,
	)
	deliveredUC := usecase.NewMarkDeliveredUseCase(
		db,
		shipmentRepo,
		orderRepo,
		logger,
		cfg.Order.ReservationTxTimeout,
	)

	return controller.NewShipmentController(createUC, shippedUC, deliveredUC, logger)
}
