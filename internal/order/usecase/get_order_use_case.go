package usecase

import (
	"context"

	"orthanc/internal/domain"
)

// GetOrderUseCase reads an order with its lines and shipments for the
// presentation boundary.
type GetOrderUseCase struct {
	orderRepo    OrderRepository
	lineRepo     OrderLineRepository
	shipmentRepo ShipmentRepository
}

func NewGetOrderUseCase(orderRepo OrderRepository, lineRepo OrderLineRepository, shipmentRepo ShipmentRepository) *GetOrderUseCase {
	return &GetOrderUseCase{
		orderRepo:    orderRepo,
		lineRepo:     lineRepo,
		shipmentRepo: shipmentRepo,
	}
}

func (uc *GetOrderUseCase) GetOrder(ctx context.Context, orderID uint) (*domain.SalesOrder, error) {
	order, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	lines, err := uc.lineRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines

	shipments, err := uc.shipmentRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Shipments = shipments

	return order, nil
}
