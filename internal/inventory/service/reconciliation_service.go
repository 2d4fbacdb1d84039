package service

import (
	"go.uber.org/zap"

	"orthanc/internal/domain"
)

// ReconciliationService replays newly available stock against outstanding
// backordered lines, oldest order first. Like the allocator it works on
// in-memory records; the caller persists what changed.
type ReconciliationService struct {
	logger *zap.Logger
}

func NewReconciliationService(logger *zap.Logger) *ReconciliationService {
	return &ReconciliationService{logger: logger}
}

// ReplenishResult separates rows the caller must update from rows it must
// insert. Replenished counts the lines that gained a reservation.
type ReplenishResult struct {
	Updated     []*domain.SalesOrderLine
	Created     []*domain.SalesOrderLine
	Replenished int
}

// Replenish moves availability from inv onto the given lines, which must be
// sorted oldest-order-first, stopping when the availability runs out. A
// reservation always lands on the warehouse whose ledger backs it: a
// backordered line assigned elsewhere is re-pointed to inv's warehouse when
// it clears in full, and split into a new line there when it clears in
// part, so line.WarehouseID never claims stock a ledger does not hold.
func (s *ReconciliationService) Replenish(inv *domain.Inventory, lines []*domain.SalesOrderLine) ReplenishResult {
	available := inv.Available()
	if available <= 0 {
		return ReplenishResult{}
	}

	var result ReplenishResult
	for _, line := range lines {
		if available == 0 {
			break
		}
		if line.QtyBackordered <= 0 {
			continue
		}

		take := line.QtyBackordered
		if available < take {
			take = available
		}

		inv.Reserve(take)
		available -= take
		result.Replenished++

		switch {
		case line.WarehouseID == inv.WarehouseID:
			line.QtyReserved += take
			line.QtyBackordered -= take
			result.Updated = append(result.Updated, line)

		case line.QtyReserved == 0 && take == line.QtyBackordered:
			// The whole line clears here; move it wholesale.
			line.WarehouseID = inv.WarehouseID
			line.QtyReserved = take
			line.QtyBackordered = 0
			result.Updated = append(result.Updated, line)

		default:
			// Part of the line clears at a different warehouse: carve the
			// cleared quantity into its own line so each line's warehouse
			// matches the ledger holding its reservation.
			line.Quantity -= take
			line.QtyBackordered -= take
			result.Updated = append(result.Updated, line)
			result.Created = append(result.Created, &domain.SalesOrderLine{
				OrderID:     line.OrderID,
				ProductID:   line.ProductID,
				WarehouseID: inv.WarehouseID,
				Quantity:    take,
				QtyReserved: take,
				UnitPrice:   line.UnitPrice,
			})
		}

		s.logger.Debug("backordered line replenished",
			zap.Uint("orderId", line.OrderID),
			zap.Uint("lineId", line.ID),
			zap.Int("warehouseId", inv.WarehouseID),
			zap.Int("quantity", take),
		)
	}

	return result
}
