package usecase

import (
	"context"

	"orthanc/internal/domain"
)

// StockQueryUseCase serves the read side of the ledger: per-warehouse
// levels and the movement audit trail.
type StockQueryUseCase struct {
	inventoryRepo InventoryRepository
	movementRepo  MovementRepository
	productRepo   ProductRepository
}

func NewStockQueryUseCase(inventoryRepo InventoryRepository, movementRepo MovementRepository, productRepo ProductRepository) *StockQueryUseCase {
	return &StockQueryUseCase{
		inventoryRepo: inventoryRepo,
		movementRepo:  movementRepo,
		productRepo:   productRepo,
	}
}

func (uc *StockQueryUseCase) GetStockLevels(ctx context.Context, productID int) ([]domain.Inventory, error) {
	if _, err := uc.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	return uc.inventoryRepo.FindByProduct(ctx, productID)
}

func (uc *StockQueryUseCase) GetMovements(ctx context.Context, productID int) ([]domain.InventoryMovement, error) {
	if _, err := uc.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	return uc.movementRepo.ListByProduct(ctx, productID)
}
