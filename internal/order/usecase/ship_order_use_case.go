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

// ShipOrderUseCase dispatches an order's reserved stock directly, without a
// planned shipment, taking the order straight to DELIVERED. The
// shipment-based flow in the shipment module is the alternate entry point.
type ShipOrderUseCase struct {
	db            TransactionManager
	orderRepo     OrderRepository
	lineRepo      OrderLineRepository
	inventoryRepo InventoryRepository
	movementRepo  MovementRepository
	logger        *zap.Logger
	txTimeout     time.Duration
}

func NewShipOrderUseCase(
	db TransactionManager,
	orderRepo OrderRepository,
	lineRepo OrderLineRepository,
	inventoryRepo InventoryRepository,
	movementRepo MovementRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *ShipOrderUseCase {
	return &ShipOrderUseCase{
		db:            db,
		orderRepo:     orderRepo,
		lineRepo:      lineRepo,
		inventoryRepo: inventoryRepo,
		movementRepo:  movementRepo,
		logger:        logger,
		txTimeout:     txTimeout,
	}
}

func (uc *ShipOrderUseCase) ShipOrder(ctx context.Context, orderID uint) (*domain.SalesOrder, error) {
	txCtx, cancel := context.WithTimeout(ctx, uc.txTimeout)
	defer cancel()

	tx, err := uc.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		uc.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	order, err := uc.orderRepo.FindByIDForUpdate(txCtx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if !domain.CanShip(order.Status) {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("order %d is %s; only RESERVED or PARTIALLY_RESERVED orders can ship", orderID, order.Status))
	}

	lines, err := uc.lineRepo.FindByOrderIDForUpdate(txCtx, tx, orderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var (
		movements []domain.InventoryMovement
		mutated   []*domain.Inventory
		shipped   []*domain.SalesOrderLine
	)

	for i := range lines {
		line := &lines[i]
		if line.QtyReserved <= 0 {
			continue
		}

		inv, err := uc.inventoryRepo.FindByPairForUpdate(txCtx, tx, line.ProductID, line.WarehouseID)
		if err != nil {
			if _, ok := apperrors.IsNotFoundError(err); ok {
				uc.logger.Warn("no inventory record for reserved line, skipping deduction",
					zap.Uint("orderId", orderID),
					zap.Int("productId", line.ProductID),
				)
			} else {
				return nil, err
			}
		} else {
			inv.DeductClamped(line.QtyReserved)
			mutated = append(mutated, inv)
		}

		movements = append(movements, domain.InventoryMovement{
			ProductID:   line.ProductID,
			WarehouseID: line.WarehouseID,
			Type:        domain.MovementOutbound,
			Quantity:    -line.QtyReserved,
			Reference:   fmt.Sprintf("order:%d", orderID),
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
	if err := uc.orderRepo.UpdateStatus(txCtx, tx, orderID, domain.OrderStatusDelivered); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		uc.logger.Error("failed to commit transaction", zap.Error(err))
		return nil, err
	}

	order.Status = domain.OrderStatusDelivered
	order.Lines = lines

	uc.logger.Info("order shipped and delivered",
		zap.Uint("orderId", orderID),
		zap.Int("movementCount", len(movements)),
	)

	return order, nil
}
