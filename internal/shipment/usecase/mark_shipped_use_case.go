package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"orthanc/internal/domain"
	apperrors "orthanc/internal/errors"
)

// MarkShippedUseCase dispatches a planned shipment: stock leaves the
// building, OUTBOUND movements are appended, and the order moves to
// SHIPPED. Unlike cancellation this path does not clamp: insufficient
// on-hand or reserved stock at dispatch time is a real inconsistency and
// must surface as an error before anything is written.
type MarkShippedUseCase struct {
	db            TransactionManager
	shipmentRepo  ShipmentRepository
	orderRepo     OrderRepository
	lineRepo      OrderLineRepository
	inventoryRepo InventoryRepository
	movementRepo  MovementRepository
	logger        *zap.Logger
	txTimeout     time.Duration
}

func NewMarkShippedUseCase(
	db TransactionManager,
	shipmentRepo ShipmentRepository,
	orderRepo OrderRepository,
	lineRepo OrderLineRepository,
	inventoryRepo InventoryRepository,
	movementRepo MovementRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *MarkShippedUseCase {
	return &MarkShippedUseCase{
		db:            db,
		shipmentRepo:  shipmentRepo,
		orderRepo:     orderRepo,
		lineRepo:      lineRepo,
		inventoryRepo: inventoryRepo,
		movementRepo:  movementRepo,
		logger:        logger,
		txTimeout:     txTimeout,
	}
}

func (uc *MarkShippedUseCase) MarkShipped(ctx context.Context, shipmentID uint) (*domain.Shipment, error) {
	txCtx, cancel := context.WithTimeout(ctx, uc.txTimeout)
	defer cancel()

	tx, err := uc.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		uc.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	shipment, err := uc.shipmentRepo.FindByIDForUpdate(txCtx, tx, shipmentID)
	if err != nil {
		return nil, err
	}
	if shipment.Status != domain.ShipmentStatusPlanned {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("shipment %d is %s; only PLANNED shipments can be dispatched", shipmentID, shipment.Status))
	}

	order, err := uc.orderRepo.FindByIDForUpdate(txCtx, tx, shipment.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusReserved {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("order %d is %s; only RESERVED orders can be dispatched", order.ID, order.Status))
	}

	lines, err := uc.lineRepo.FindByOrderIDForUpdate(txCtx, tx, shipment.OrderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var (
		movements []domain.InventoryMovement
		mutated   []*domain.Inventory
		shipped   []*domain.SalesOrderLine
	)

	// All deductions happen in memory first so any failure leaves nothing
	// half-written.
	for i := range lines {
		line := &lines[i]
		if line.QtyReserved <= 0 {
			continue
		}

		inv, err := uc.inventoryRepo.FindByPairForUpdate(txCtx, tx, line.ProductID, line.WarehouseID)
		if err != nil {
			if _, ok := apperrors.IsNotFoundError(err); ok {
				return nil, apperrors.NewBusinessRuleError(
					fmt.Sprintf("no inventory record for product %d in warehouse %d at dispatch", line.ProductID, line.WarehouseID))
			}
			return nil, err
		}

		if !inv.DeductStrict(line.QtyReserved) {
			return nil, apperrors.NewBusinessRuleError(
				fmt.Sprintf("insufficient stock for product %d in warehouse %d at dispatch", line.ProductID, line.WarehouseID))
		}
		mutated = append(mutated, inv)

		movements = append(movements, domain.InventoryMovement{
			ProductID:   line.ProductID,
			WarehouseID: line.WarehouseID,
			Type:        domain.MovementOutbound,
			Quantity:    -line.QtyReserved,
			Reference:   fmt.Sprintf("shipment:%d", shipmentID),
			OccurredAt:  now,
		})

		line.QtyReserved = 0
		shipped = append(shipped, line)
	}

	if err := uc.movementRepo.InsertBatch(txCtx, tx, movements); err != nil {
		return nil, err
	}
	if err := uc.inventoryRepo.UpdateQuantitiesBatch(txCtx, tx, mutated); err != nil {
		return nil, err
	}
	if err := uc.lineRepo.UpdateQuantitiesBatch(txCtx, tx, shipped); err != nil {
		return nil, err
	}
	if err := uc.shipmentRepo.MarkShipped(txCtx, tx, shipmentID, now); err != nil {
		return nil, err
	}
	if err := uc.orderRepo.UpdateStatus(txCtx, tx, shipment.OrderID, domain.OrderStatusShipped); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		uc.logger.Error("failed to commit transaction", zap.Error(err))
		return nil, err
	}

	shipment.Status = domain.ShipmentStatusShipped
	shipment.ActualDeparture = &now

	uc.logger.Info("shipment dispatched",
		zap.Uint("shipmentId", shipmentID),
		zap.Uint("orderId", shipment.OrderID),
		zap.Int("movementCount", len(movements)),
	)

	return shipment, nil
}
