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

// MarkDeliveredUseCase closes out a dispatched shipment. Stock was already
// deducted at dispatch, so delivery only moves statuses and stamps the
// time.
type MarkDeliveredUseCase struct {
	db           TransactionManager
	shipmentRepo ShipmentRepository
	orderRepo    OrderRepository
	logger       *zap.Logger
	txTimeout    time.Duration
}

func NewMarkDeliveredUseCase(
	db TransactionManager,
	shipmentRepo ShipmentRepository,
	orderRepo OrderRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *MarkDeliveredUseCase {
	return &MarkDeliveredUseCase{
		db:           db,
		shipmentRepo: shipmentRepo,
		orderRepo:    orderRepo,
		logger:       logger,
		txTimeout:    txTimeout,
	}
}

func (uc *MarkDeliveredUseCase) MarkDelivered(ctx context.Context, shipmentID uint) (*domain.Shipment, error) {
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
	if shipment.Status != domain.ShipmentStatusShipped {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("shipment %d is %s; only SHIPPED shipments can be delivered", shipmentID, shipment.Status))
	}

	now := time.Now()
	if err := uc.shipmentRepo.MarkDelivered(txCtx, tx, shipmentID, now); err != nil {
		return nil, err
	}
	if err := uc.orderRepo.UpdateStatus(txCtx, tx, shipment.OrderID, domain.OrderStatusDelivered); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		uc.logger.Error("failed to commit transaction", zap.Error(err))
		return nil, err
	}

	shipment.Status = domain.ShipmentStatusDelivered
	shipment.DeliveredAt = &now

	uc.logger.Info("shipment delivered", zap.Uint("shipmentId", shipmentID), zap.Uint("orderId", shipment.OrderID))

	return shipment, nil
}
