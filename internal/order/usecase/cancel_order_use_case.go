package usecase

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"orthanc/internal/domain"
	apperrors "orthanc/internal/errors"
)

// CancelOrderUseCase cancels an order and returns its reserved stock to
// availability. Canceling an already-canceled order is a no-op; canceling a
// shipped or delivered order is a conflict.
type CancelOrderUseCase struct {
	db            TransactionManager
	orderRepo     OrderRepository
	lineRepo      OrderLineRepository
	inventoryRepo InventoryRepository
	logger        *zap.Logger
	txTimeout     time.Duration
}

func NewCancelOrderUseCase(
	db TransactionManager,
	orderRepo OrderRepository,
	lineRepo OrderLineRepository,
	inventoryRepo InventoryRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *CancelOrderUseCase {
	return &CancelOrderUseCase{
		db:            db,
		orderRepo:     orderRepo,
		lineRepo:      lineRepo,
		inventoryRepo: inventoryRepo,
		logger:        logger,
		txTimeout:     txTimeout,
	}
}

func (uc *CancelOrderUseCase) CancelOrder(ctx context.Context, orderID uint) (*domain.SalesOrder, error) {
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

	if order.Status == domain.OrderStatusCanceled {
		uc.logger.Info("cancel on already-canceled order, no-op", zap.Uint("orderId", orderID))
		return order, nil
	}

	if !domain.CanCancel(order.Status) {
		return nil, apperrors.NewConflictError("cannot cancel a shipped or delivered order")
	}

	lines, err := uc.lineRepo.FindByOrderIDForUpdate(txCtx, tx, orderID)
	if err != nil {
		return nil, err
	}

	// Release each line's reservation, clamped at zero so drifted
	// bookkeeping can never push qtyReserved negative.
	var released []*domain.Inventory
	for _, line := range lines {
		if line.QtyReserved <= 0 {
			continue
		}

		inv, err := uc.inventoryRepo.FindByPairForUpdate(txCtx, tx, line.ProductID, line.WarehouseID)
		if err != nil {
			if _, ok := apperrors.IsNotFoundError(err); ok {
				uc.logger.Warn("no inventory record for reserved line, skipping release",
					zap.Uint("orderId", orderID),
					zap.Int("productId", line.ProductID),
					zap.Int("warehouseId", line.WarehouseID),
				)
				continue
			}
			return nil, err
		}

		inv.Release(line.QtyReserved)
		released = append(released, inv)
	}

	if err := uc.inventoryRepo.UpdateQuantitiesBatch(txCtx, tx, released); err != nil {
		return nil, err
	}

	if err := uc.orderRepo.UpdateStatus(txCtx, tx, orderID, domain.OrderStatusCanceled); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		uc.logger.Error("failed to commit transaction", zap.Error(err))
		return nil, err
	}

	order.Status = domain.OrderStatusCanceled
	order.Lines = lines

	uc.logger.Info("order canceled", zap.Uint("orderId", orderID), zap.Int("releasedRecords", len(released)))

	return order, nil
}
