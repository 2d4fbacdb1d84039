package service

import (
	"testing"

	"go.uber.org/zap"

	"orthanc/internal/domain"
)

func TestReplenish_ClearsBackorderFully(t *testing.T) {
	svc := NewReconciliationService(zap.NewNop())
	inv := &domain.Inventory{ProductID: 7, WarehouseID: 1, QtyOnHand: 100, QtyReserved: 0}
	lines := []*domain.SalesOrderLine{
		{ID: 1, OrderID: 10, ProductID: 7, WarehouseID: 1, Quantity: 70, QtyBackordered: 70},
	}

	result := svc.Replenish(inv, lines)

	if len(result.Updated) != 1 || len(result.Created) != 0 || result.Replenished != 1 {
		t.Fatalf("result = %d updated / %d created / %d replenished, want 1/0/1",
			len(result.Updated), len(result.Created), result.Replenished)
	}
	line := lines[0]
	if line.QtyReserved != 70 || line.QtyBackordered != 0 {
		t.Errorf("line = reserved %d / backordered %d, want 70/0", line.QtyReserved, line.QtyBackordered)
	}
	if inv.QtyReserved != 70 {
		t.Errorf("inventory qtyReserved = %d, want 70", inv.QtyReserved)
	}
}

func TestReplenish_OldestOrderFirst(t *testing.T) {
	svc := NewReconciliationService(zap.NewNop())
	inv := &domain.Inventory{ProductID: 7, WarehouseID: 1, QtyOnHand: 50, QtyReserved: 0}
	lines := []*domain.SalesOrderLine{
		{ID: 1, OrderID: 10, WarehouseID: 1, Quantity: 40, QtyBackordered: 40},
		{ID: 2, OrderID: 11, WarehouseID: 1, Quantity: 40, QtyBackordered: 40},
	}

	svc.Replenish(inv, lines)

	if lines[0].QtyBackordered != 0 || lines[0].QtyReserved != 40 {
		t.Errorf("oldest line = %+v, want fully replenished", lines[0])
	}
	if lines[1].QtyReserved != 10 || lines[1].QtyBackordered != 30 {
		t.Errorf("newer line = %+v, want 10 reserved / 30 backordered", lines[1])
	}
	if inv.QtyReserved != 50 {
		t.Errorf("inventory qtyReserved = %d, want 50", inv.QtyReserved)
	}
}

func TestReplenish_NoAvailabilityIsNoOp(t *testing.T) {
	svc := NewReconciliationService(zap.NewNop())
	inv := &domain.Inventory{ProductID: 7, WarehouseID: 1, QtyOnHand: 30, QtyReserved: 30}
	lines := []*domain.SalesOrderLine{
		{ID: 1, OrderID: 10, WarehouseID: 1, Quantity: 10, QtyBackordered: 10},
	}

	result := svc.Replenish(inv, lines)

	if result.Updated != nil || result.Created != nil || result.Replenished != 0 {
		t.Errorf("got %+v, want empty result", result)
	}
	if lines[0].QtyBackordered != 10 {
		t.Errorf("line mutated without availability: %+v", lines[0])
	}
}

func TestReplenish_SkipsLinesWithoutBackorder(t *testing.T) {
	svc := NewReconciliationService(zap.NewNop())
	inv := &domain.Inventory{ProductID: 7, WarehouseID: 1, QtyOnHand: 20, QtyReserved: 0}
	lines := []*domain.SalesOrderLine{
		{ID: 1, OrderID: 10, WarehouseID: 1, Quantity: 10, QtyReserved: 10},
		{ID: 2, OrderID: 11, WarehouseID: 1, Quantity: 15, QtyBackordered: 15},
	}

	result := svc.Replenish(inv, lines)

	if len(result.Updated) != 1 || result.Updated[0].ID != 2 {
		t.Fatalf("updated = %+v, want only line 2", result.Updated)
	}
	if lines[1].QtyReserved != 15 || lines[1].QtyBackordered != 0 {
		t.Errorf("line 2 = %+v, want fully replenished", lines[1])
	}
	if inv.QtyReserved != 15 {
		t.Errorf("inventory qtyReserved = %d, want 15", inv.QtyReserved)
	}
}

// Stock can arrive at a warehouse other than the one a backordered line was
// assigned to. The cleared reservation must live at the receiving
// warehouse, or dispatch would later deduct against a ledger holding
// nothing.
func TestReplenish_CrossWarehouseRepointsLine(t *testing.T) {
	svc := NewReconciliationService(zap.NewNop())
	w2 := &domain.Inventory{ProductID: 7, WarehouseID: 2, QtyOnHand: 100, QtyReserved: 0}
	lines := []*domain.SalesOrderLine{
		{ID: 1, OrderID: 10, ProductID: 7, WarehouseID: 1, Quantity: 70, QtyBackordered: 70},
	}

	result := svc.Replenish(w2, lines)

	if len(result.Updated) != 1 || len(result.Created) != 0 {
		t.Fatalf("result = %d updated / %d created, want 1/0", len(result.Updated), len(result.Created))
	}
	line := lines[0]
	if line.WarehouseID != 2 {
		t.Errorf("line warehouseId = %d, want 2 (the receiving warehouse)", line.WarehouseID)
	}
	if line.QtyReserved != 70 || line.QtyBackordered != 0 {
		t.Errorf("line = reserved %d / backordered %d, want 70/0", line.QtyReserved, line.QtyBackordered)
	}
	if w2.QtyReserved != 70 {
		t.Errorf("w2 qtyReserved = %d, want 70", w2.QtyReserved)
	}
	if !w2.DeductStrict(line.QtyReserved) {
		t.Errorf("dispatch deduction at warehouse %d failed for %d reserved", line.WarehouseID, line.QtyReserved)
	}
}

func TestReplenish_CrossWarehousePartialSplitsLine(t *testing.T) {
	svc := NewReconciliationService(zap.NewNop())
	w2 := &domain.Inventory{ProductID: 7, WarehouseID: 2, QtyOnHand: 30, QtyReserved: 0}
	lines := []*domain.SalesOrderLine{
		{ID: 1, OrderID: 10, ProductID: 7, WarehouseID: 1, Quantity: 70, QtyBackordered: 70},
	}

	result := svc.Replenish(w2, lines)

	if len(result.Updated) != 1 || len(result.Created) != 1 || result.Replenished != 1 {
		t.Fatalf("result = %d updated / %d created / %d replenished, want 1/1/1",
			len(result.Updated), len(result.Created), result.Replenished)
	}

	original := lines[0]
	if original.WarehouseID != 1 || original.Quantity != 40 || original.QtyBackordered != 40 || original.QtyReserved != 0 {
		t.Errorf("original line = %+v, want 40 still backordered at warehouse 1", original)
	}

	split := result.Created[0]
	if split.OrderID != 10 || split.ProductID != 7 {
		t.Errorf("split line = %+v, want same order and product", split)
	}
	if split.WarehouseID != 2 || split.Quantity != 30 || split.QtyReserved != 30 || split.QtyBackordered != 0 {
		t.Errorf("split line = %+v, want 30 reserved at warehouse 2", split)
	}
	if w2.QtyReserved != 30 {
		t.Errorf("w2 qtyReserved = %d, want 30", w2.QtyReserved)
	}

	for _, line := range []*domain.SalesOrderLine{original, split} {
		if line.QtyReserved+line.QtyBackordered != line.Quantity {
			t.Errorf("line %+v violates qtyReserved + qtyBackordered == quantity", line)
		}
	}
}

// A line that already holds a reservation at its own warehouse keeps it
// there; only the backordered remainder moves to the receiving warehouse.
func TestReplenish_CrossWarehouseKeepsExistingReservation(t *testing.T) {
	svc := NewReconciliationService(zap.NewNop())
	w2 := &domain.Inventory{ProductID: 7, WarehouseID: 2, QtyOnHand: 80, QtyReserved: 0}
	lines := []*domain.SalesOrderLine{
		{ID: 1, OrderID: 10, ProductID: 7, WarehouseID: 1, Quantity: 100, QtyReserved: 30, QtyBackordered: 70},
	}

	result := svc.Replenish(w2, lines)

	original := lines[0]
	if original.WarehouseID != 1 || original.Quantity != 30 || original.QtyReserved != 30 || original.QtyBackordered != 0 {
		t.Errorf("original line = %+v, want its 30 reserved left at warehouse 1", original)
	}

	if len(result.Created) != 1 {
		t.Fatalf("created = %+v, want one split line", result.Created)
	}
	split := result.Created[0]
	if split.WarehouseID != 2 || split.Quantity != 70 || split.QtyReserved != 70 {
		t.Errorf("split line = %+v, want 70 reserved at warehouse 2", split)
	}
	if w2.QtyReserved != 70 {
		t.Errorf("w2 qtyReserved = %d, want 70", w2.QtyReserved)
	}
}

func TestReplenish_InvariantHolds(t *testing.T) {
	svc := NewReconciliationService(zap.NewNop())
	inv := &domain.Inventory{ProductID: 7, WarehouseID: 1, QtyOnHand: 25, QtyReserved: 5}
	lines := []*domain.SalesOrderLine{
		{ID: 1, OrderID: 10, WarehouseID: 1, Quantity: 30, QtyReserved: 12, QtyBackordered: 18},
		{ID: 2, OrderID: 11, WarehouseID: 1, Quantity: 9, QtyBackordered: 9},
	}

	svc.Replenish(inv, lines)

	for _, line := range lines {
		if line.QtyReserved+line.QtyBackordered != line.Quantity {
			t.Errorf("line %+v violates qtyReserved + qtyBackordered == quantity", line)
		}
	}
	if inv.QtyReserved > inv.QtyOnHand {
		t.Errorf("inventory over-reserved: %d > %d", inv.QtyReserved, inv.QtyOnHand)
	}
}
