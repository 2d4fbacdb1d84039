package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"orthanc/internal/domain"
	"orthanc/internal/dto"
	apperrors "orthanc/internal/errors"
)

// AdjustStockUseCase applies a signed manual correction to on-hand stock
// and records it as an ADJUSTMENT movement. Adjustments never touch
// reservations and never trigger backorder reconciliation; only received
// stock does that.
type AdjustStockUseCase struct {
	db            TransactionManager
	inventoryRepo InventoryRepository
	movementRepo  MovementRepository
	productRepo   ProductRepository
	warehouseRepo WarehouseRepository
	logger        *zap.Logger
	txTimeout     time.Duration
}

func NewAdjustStockUseCase(
	db TransactionManager,
	inventoryRepo InventoryRepository,
	movementRepo MovementRepository,
	productRepo ProductRepository,
	warehouseRepo WarehouseRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *AdjustStockUseCase {
	return &AdjustStockUseCase{
		db:            db,
		inventoryRepo: inventoryRepo,
		movementRepo:  movementRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		logger:        logger,
		txTimeout:     txTimeout,
	}
}

func (uc *AdjustStockUseCase) AdjustStock(ctx context.Context, adjustment dto.StockAdjustment) (*domain.Inventory, error) {
	if _, err := uc.productRepo.FindByID(ctx, adjustment.ProductID); err != nil {
		return nil, err
	}
	if _, err := uc.warehouseRepo.FindByID(ctx, adjustment.WarehouseID); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, uc.txTimeout)
	defer cancel()

	tx, err := uc.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		uc.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	inv, err := uc.inventoryRepo.FindByPairForUpdate(txCtx, tx, adjustment.ProductID, adjustment.WarehouseID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); !ok {
			return nil, err
		}
		if adjustment.Quantity < 0 {
			// Nothing exists to write down.
			return nil, err
		}
		inv = &domain.Inventory{ProductID: adjustment.ProductID, WarehouseID: adjustment.WarehouseID}
		id, err := uc.inventoryRepo.Insert(txCtx, tx, inv)
		if err != nil {
			return nil, err
		}
		inv.ID = id
	}

	newOnHand := inv.QtyOnHand + adjustment.Quantity
	if newOnHand < 0 {
		return nil, apperrors.NewBusinessRuleError("adjustment would drive on-hand stock negative")
	}
	if newOnHand < inv.QtyReserved {
		return nil, apperrors.NewBusinessRuleError("adjustment would drop on-hand stock below the reserved quantity")
	}
	inv.QtyOnHand = newOnHand

	reference := adjustment.Reference
	if reference == "" {
		reference = fmt.Sprintf("adjustment:%s", uuid.New().String())
	}

	movement := domain.InventoryMovement{
		ProductID:   adjustment.ProductID,
		WarehouseID: adjustment.WarehouseID,
		Type:        domain.MovementAdjustment,
		Quantity:    adjustment.Quantity,
		Reference:   reference,
		OccurredAt:  time.Now(),
	}
	if _, err := uc.movementRepo.Insert(txCtx, tx, movement); err != nil {
		return nil, err
	}

	if err := uc.inventoryRepo.UpdateQuantities(txCtx, tx, inv); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		uc.logger.Error("failed to commit transaction", zap.Error(err))
		return nil, err
	}

	uc.logger.Info("stock adjusted",
		zap.Int("productId", adjustment.ProductID),
		zap.Int("warehouseId", adjustment.WarehouseID),
		zap.Int("quantity", adjustment.Quantity),
	)

	return inv, nil
}
