package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"orthanc/internal/commons"
	"orthanc/internal/domain"
	"orthanc/internal/dto"
	apperrors "orthanc/internal/errors"
)

// ReceiveStockUseCase handles the stock-received signal: it books the
// inbound quantity into the ledger, appends an INBOUND movement, and
// replays the new availability against outstanding backorders, promoting
// order statuses when a backorder clears. Everything happens in one
// transaction so a received quantity can never be double-promised.
type ReceiveStockUseCase struct {
	db               TransactionManager
	inventoryRepo    InventoryRepository
	movementRepo     MovementRepository
	productRepo      ProductRepository
	warehouseRepo    WarehouseRepository
	orderRepo        OrderRepository
	lineRepo         OrderLineRepository
	reconciler       BackorderReconciler
	logger           *zap.Logger
	txTimeout        time.Duration
	maxRetryAttempts int
}

func NewReceiveStockUseCase(
	db TransactionManager,
	inventoryRepo InventoryRepository,
	movementRepo MovementRepository,
	productRepo ProductRepository,
	warehouseRepo WarehouseRepository,
	orderRepo OrderRepository,
	lineRepo OrderLineRepository,
	reconciler BackorderReconciler,
	logger *zap.Logger,
	txTimeout time.Duration,
	maxRetryAttempts int,
) *ReceiveStockUseCase {
	return &ReceiveStockUseCase{
		db:               db,
		inventoryRepo:    inventoryRepo,
		movementRepo:     movementRepo,
		productRepo:      productRepo,
		warehouseRepo:    warehouseRepo,
		orderRepo:        orderRepo,
		lineRepo:         lineRepo,
		reconciler:       reconciler,
		logger:           logger,
		txTimeout:        txTimeout,
		maxRetryAttempts: maxRetryAttempts,
	}
}

type ReceiveStockResult struct {
	Inventory        *domain.Inventory
	LinesReplenished int
	OrdersPromoted   []uint
}

func (uc *ReceiveStockUseCase) ReceiveStock(ctx context.Context, receipt dto.StockReceipt) (*ReceiveStockResult, error) {
	uc.logger.Info("stock receipt started",
		zap.Int("productId", receipt.ProductID),
		zap.Int("warehouseId", receipt.WarehouseID),
		zap.Int("quantity", receipt.Quantity),
	)

	if _, err := uc.productRepo.FindByID(ctx, receipt.ProductID); err != nil {
		return nil, err
	}
	if _, err := uc.warehouseRepo.FindByID(ctx, receipt.WarehouseID); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= uc.maxRetryAttempts; attempt++ {
		result, err := uc.receiveStockTx(ctx, receipt)
		if err == nil {
			return result, nil
		}

		if commons.IsDeadlockError(err) {
			if attempt < uc.maxRetryAttempts {
				uc.logger.Warn("deadlock detected, retrying", zap.Int("attempt", attempt))
				time.Sleep(commons.RetryBackoff(attempt))
				continue
			}
			return nil, apperrors.NewDeadlockError("max retries exceeded")
		}

		return nil, err
	}

	return nil, apperrors.NewDeadlockError("max retries exceeded")
}

func (uc *ReceiveStockUseCase) receiveStockTx(ctx context.Context, receipt dto.StockReceipt) (*ReceiveStockResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, uc.txTimeout)
	defer cancel()

	tx, err := uc.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		uc.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	// The record is created lazily the first time stock touches the pair.
	inv, err := uc.inventoryRepo.FindByPairForUpdate(txCtx, tx, receipt.ProductID, receipt.WarehouseID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); !ok {
			return nil, err
		}
		inv = &domain.Inventory{ProductID: receipt.ProductID, WarehouseID: receipt.WarehouseID}
		id, err := uc.inventoryRepo.Insert(txCtx, tx, inv)
		if err != nil {
			return nil, err
		}
		inv.ID = id
	}

	inv.QtyOnHand += receipt.Quantity

	reference := receipt.Reference
	if reference == "" {
		reference = fmt.Sprintf("receipt:%s", uuid.New().String())
	}

	movement := domain.InventoryMovement{
		ProductID:   receipt.ProductID,
		WarehouseID: receipt.WarehouseID,
		Type:        domain.MovementInbound,
		Quantity:    receipt.Quantity,
		Reference:   reference,
		OccurredAt:  time.Now(),
	}
	if _, err := uc.movementRepo.Insert(txCtx, tx, movement); err != nil {
		return nil, err
	}

	// Replay the new availability against outstanding backorders, oldest
	// order first.
	backordered, err := uc.lineRepo.FindBackorderedByProductForUpdate(txCtx, tx, receipt.ProductID)
	if err != nil {
		return nil, err
	}
	replenished := uc.reconciler.Replenish(inv, backordered)

	if err := uc.inventoryRepo.UpdateQuantities(txCtx, tx, inv); err != nil {
		return nil, err
	}
	if err := uc.lineRepo.UpdateQuantitiesBatch(txCtx, tx, replenished.Updated); err != nil {
		return nil, err
	}
	if len(replenished.Created) > 0 {
		// Cross-warehouse splits become new rows under the same order.
		created := make([]domain.SalesOrderLine, len(replenished.Created))
		for i, line := range replenished.Created {
			created[i] = *line
		}
		if err := uc.lineRepo.InsertBatch(txCtx, tx, created); err != nil {
			return nil, err
		}
	}

	promoted, err := uc.promoteOrders(txCtx, tx, append(replenished.Updated, replenished.Created...))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		uc.logger.Error("failed to commit transaction", zap.Error(err))
		return nil, err
	}

	uc.logger.Info("stock receipt committed",
		zap.Int("productId", receipt.ProductID),
		zap.Int("warehouseId", receipt.WarehouseID),
		zap.Int("linesReplenished", replenished.Replenished),
		zap.Int("ordersPromoted", len(promoted)),
	)

	return &ReceiveStockResult{
		Inventory:        inv,
		LinesReplenished: replenished.Replenished,
		OrdersPromoted:   promoted,
	}, nil
}

// promoteOrders recomputes the aggregate reservation state of every order a
// replenished line belongs to and persists status changes.
func (uc *ReceiveStockUseCase) promoteOrders(ctx context.Context, tx *sql.Tx, replenished []*domain.SalesOrderLine) ([]uint, error) {
	touched := make(map[uint]bool)
	var orderIDs []uint
	for _, line := range replenished {
		if !touched[line.OrderID] {
			touched[line.OrderID] = true
			orderIDs = append(orderIDs, line.OrderID)
		}
	}

	var promoted []uint
	for _, orderID := range orderIDs {
		order, err := uc.orderRepo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return nil, err
		}

		lines, err := uc.lineRepo.FindByOrderIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return nil, err
		}

		newStatus := domain.StatusFromLines(lines)
		if newStatus == order.Status {
			continue
		}

		if err := uc.orderRepo.UpdateStatus(ctx, tx, orderID, newStatus); err != nil {
			return nil, err
		}
		promoted = append(promoted, orderID)

		uc.logger.Info("order promoted",
			zap.Uint("orderId", orderID),
			zap.String("from", order.Status),
			zap.String("to", newStatus),
		)
	}

	return promoted, nil
}
