package service

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"orthanc/internal/domain"
	apperrors "orthanc/internal/errors"
)

// AllocationService distributes a requested quantity across the warehouses
// holding stock for a product. It mutates the in-memory inventory records
// it is handed; persisting them, batched, is the caller's job.
type AllocationService struct {
	logger *zap.Logger
}

func NewAllocationService(logger *zap.Logger) *AllocationService {
	return &AllocationService{logger: logger}
}

type AllocationResult struct {
	Lines        []domain.SalesOrderLine
	Mutated      []*domain.Inventory
	HasReserved  bool
	HasBackorder bool
}

// Allocate reserves requestedQty against the given inventory records,
// drawing from the warehouse with the most availability first (ties broken
// by warehouse id for reproducibility). Any remainder becomes a single
// backorder line against a fallback warehouse: the first warehouse holding
// an inventory record for the product, else fallbackWarehouseID (the first
// warehouse in the system, 0 when none exists).
func (s *AllocationService) Allocate(
	product domain.Product,
	requestedQty int,
	records []*domain.Inventory,
	fallbackWarehouseID int,
) (*AllocationResult, error) {
	if !product.HasPrice() {
		return nil, apperrors.NewBusinessRuleError(fmt.Sprintf("product %d has no price", product.ID))
	}

	// First warehouse with any inventory record, before re-sorting.
	productFallback := 0
	for _, rec := range records {
		if productFallback == 0 || rec.WarehouseID < productFallback {
			productFallback = rec.WarehouseID
		}
	}

	sorted := make([]*domain.Inventory, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		ai, aj := sorted[i].Available(), sorted[j].Available()
		if ai != aj {
			return ai > aj
		}
		return sorted[i].WarehouseID < sorted[j].WarehouseID
	})

	result := &AllocationResult{}
	remaining := requestedQty

	for _, rec := range sorted {
		if remaining == 0 {
			break
		}
		available := rec.Available()
		if available <= 0 {
			continue
		}

		reserve := available
		if remaining < reserve {
			reserve = remaining
		}

		rec.Reserve(reserve)
		remaining -= reserve

		result.Lines = append(result.Lines, domain.SalesOrderLine{
			ProductID:   product.ID,
			WarehouseID: rec.WarehouseID,
			Quantity:    reserve,
			QtyReserved: reserve,
			UnitPrice:   *product.Price,
		})
		result.Mutated = append(result.Mutated, rec)
		result.HasReserved = true

		s.logger.Debug("stock reserved",
			zap.Int("productId", product.ID),
			zap.Int("warehouseId", rec.WarehouseID),
			zap.Int("quantity", reserve),
		)
	}

	if remaining > 0 {
		warehouseID := productFallback
		if warehouseID == 0 {
			warehouseID = fallbackWarehouseID
		}
		if warehouseID == 0 {
			return nil, apperrors.NewNotFoundError("no warehouse available to hold the backorder")
		}

		result.Lines = append(result.Lines, domain.SalesOrderLine{
			ProductID:      product.ID,
			WarehouseID:    warehouseID,
			Quantity:       remaining,
			QtyBackordered: remaining,
			UnitPrice:      *product.Price,
		})
		result.HasBackorder = true

		s.logger.Debug("stock backordered",
			zap.Int("productId", product.ID),
			zap.Int("warehouseId", warehouseID),
			zap.Int("quantity", remaining),
		)
	}

	return result, nil
}
