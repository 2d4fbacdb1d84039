package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"orthanc/internal/domain"
	"orthanc/internal/dto"
	apperrors "orthanc/internal/errors"
)

// CreateShipmentUseCase plans a shipment for a fully reserved order:
// departure from the cutoff hour and the per-day capacity, tracking number
// from the caller or the carrier prefix. Planning is not a stock operation;
// the order stays RESERVED.
type CreateShipmentUseCase struct {
	db           TransactionManager
	shipmentRepo ShipmentRepository
	carrierRepo  CarrierRepository
	orderRepo    OrderRepository
	scheduler    Scheduler
	logger       *zap.Logger
	txTimeout    time.Duration
	now          func() time.Time
}

func NewCreateShipmentUseCase(
	db TransactionManager,
	shipmentRepo ShipmentRepository,
	carrierRepo CarrierRepository,
	orderRepo OrderRepository,
	scheduler Scheduler,
	logger *zap.Logger,
	txTimeout time.Duration,
) *CreateShipmentUseCase {
	return &CreateShipmentUseCase{
		db:           db,
		shipmentRepo: shipmentRepo,
		carrierRepo:  carrierRepo,
		orderRepo:    orderRepo,
		scheduler:    scheduler,
		logger:       logger,
		txTimeout:    txTimeout,
		now:          time.Now,
	}
}

func (uc *CreateShipmentUseCase) CreateShipment(ctx context.Context, req dto.CreateShipmentRequest) (*domain.Shipment, error) {
	carrier, err := uc.carrierRepo.FindByID(ctx, req.CarrierID)
	if err != nil {
		return nil, err
	}
	if !carrier.IsActive {
		return nil, apperrors.NewBusinessRuleError(fmt.Sprintf("carrier %q is inactive", carrier.Name))
	}

	cutoffHour := uc.scheduler.DefaultCutoffHour()
	if req.CutoffHour != nil {
		cutoffHour = *req.CutoffHour
	}

	txCtx, cancel := context.WithTimeout(ctx, uc.txTimeout)
	defer cancel()

	tx, err := uc.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		uc.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	order, err := uc.orderRepo.FindByIDForUpdate(txCtx, tx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusReserved {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("order %d is %s; only RESERVED orders can be planned for shipment", order.ID, order.Status))
	}

	now := uc.now()
	planned := uc.scheduler.PlanDeparture(now, cutoffHour)

	count, err := uc.shipmentRepo.CountPlannedForDay(txCtx, tx, planned)
	if err != nil {
		return nil, err
	}
	if uc.scheduler.AtCapacity(count) {
		// One bump only; the next day's capacity is not re-checked.
		planned = uc.scheduler.BumpForCapacity(planned)
	}

	shipment := &domain.Shipment{
		OrderID:          req.OrderID,
		CarrierID:        req.CarrierID,
		Status:           domain.ShipmentStatusPlanned,
		TrackingNumber:   uc.scheduler.TrackingNumber(req.TrackingNumber, carrier.Name, now),
		PlannedDeparture: planned,
		CutoffHour:       cutoffHour,
	}

	id, err := uc.shipmentRepo.Insert(txCtx, tx, shipment)
	if err != nil {
		return nil, err
	}
	shipment.ID = id

	if err := tx.Commit(); err != nil {
		uc.logger.Error("failed to commit transaction", zap.Error(err))
		return nil, err
	}

	uc.logger.Info("shipment planned",
		zap.Uint("shipmentId", id),
		zap.Uint("orderId", req.OrderID),
		zap.Time("plannedDeparture", planned),
		zap.String("trackingNumber", shipment.TrackingNumber),
	)

	return shipment, nil
}
