package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"orthanc/internal/domain"
	apperrors "orthanc/internal/errors"
)

func pricedProduct(id int) domain.Product {
	price := decimal.NewFromFloat(9.99)
	return domain.Product{ID: id, SKU: "SKU-1", Price: &price}
}

func TestAllocate_SingleWarehouseFullReservation(t *testing.T) {
	svc := NewAllocationService(zap.NewNop())
	records := []*domain.Inventory{
		{ID: 1, ProductID: 7, WarehouseID: 1, QtyOnHand: 100, QtyReserved: 0},
	}

	result, err := svc.Allocate(pricedProduct(7), 100, records, 0)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}

	if len(result.Lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(result.Lines))
	}
	line := result.Lines[0]
	if line.QtyReserved != 100 || line.QtyBackordered != 0 || line.Quantity != 100 {
		t.Errorf("line = %+v, want 100 reserved / 0 backordered", line)
	}
	if !result.HasReserved || result.HasBackorder {
		t.Errorf("flags = reserved=%v backorder=%v, want true/false", result.HasReserved, result.HasBackorder)
	}
	if records[0].QtyReserved != 100 {
		t.Errorf("inventory qtyReserved = %d, want 100", records[0].QtyReserved)
	}
}

func TestAllocate_DrawsFromMostAvailableFirst(t *testing.T) {
	svc := NewAllocationService(zap.NewNop())
	records := []*domain.Inventory{
		{ID: 1, ProductID: 7, WarehouseID: 1, QtyOnHand: 40, QtyReserved: 0},
		{ID: 2, ProductID: 7, WarehouseID: 2, QtyOnHand: 80, QtyReserved: 0},
	}

	result, err := svc.Allocate(pricedProduct(7), 100, records, 0)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}

	if len(result.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(result.Lines))
	}
	if result.Lines[0].WarehouseID != 2 || result.Lines[0].QtyReserved != 80 {
		t.Errorf("first line = %+v, want 80 from warehouse 2", result.Lines[0])
	}
	if result.Lines[1].WarehouseID != 1 || result.Lines[1].QtyReserved != 20 {
		t.Errorf("second line = %+v, want 20 from warehouse 1", result.Lines[1])
	}
	if result.HasBackorder {
		t.Error("HasBackorder = true, want false: 120 available covers 100")
	}
}

func TestAllocate_PartialAvailabilityProducesBackorderLine(t *testing.T) {
	svc := NewAllocationService(zap.NewNop())
	records := []*domain.Inventory{
		{ID: 1, ProductID: 7, WarehouseID: 3, QtyOnHand: 50, QtyReserved: 20},
	}

	result, err := svc.Allocate(pricedProduct(7), 100, records, 0)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}

	if len(result.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(result.Lines))
	}
	reserved, backordered := result.Lines[0], result.Lines[1]
	if reserved.QtyReserved != 30 || reserved.Quantity != 30 {
		t.Errorf("reserved line = %+v, want 30/30", reserved)
	}
	if backordered.QtyBackordered != 70 || backordered.Quantity != 70 || backordered.QtyReserved != 0 {
		t.Errorf("backorder line = %+v, want 70 backordered", backordered)
	}
	if backordered.WarehouseID != 3 {
		t.Errorf("backorder warehouse = %d, want 3 (first warehouse with a record)", backordered.WarehouseID)
	}
	if !result.HasReserved || !result.HasBackorder {
		t.Errorf("flags = reserved=%v backorder=%v, want true/true", result.HasReserved, result.HasBackorder)
	}
}

func TestAllocate_LineInvariantHolds(t *testing.T) {
	svc := NewAllocationService(zap.NewNop())
	records := []*domain.Inventory{
		{ID: 1, ProductID: 7, WarehouseID: 1, QtyOnHand: 25, QtyReserved: 0},
		{ID: 2, ProductID: 7, WarehouseID: 2, QtyOnHand: 10, QtyReserved: 5},
	}

	result, err := svc.Allocate(pricedProduct(7), 60, records, 0)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}

	total := 0
	for _, line := range result.Lines {
		if line.QtyReserved+line.QtyBackordered != line.Quantity {
			t.Errorf("line %+v violates qtyReserved + qtyBackordered == quantity", line)
		}
		total += line.Quantity
	}
	if total != 60 {
		t.Errorf("lines sum to %d, want 60", total)
	}
}

func TestAllocate_NoRecordsUsesSystemFallback(t *testing.T) {
	svc := NewAllocationService(zap.NewNop())

	result, err := svc.Allocate(pricedProduct(7), 10, nil, 4)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}

	if len(result.Lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(result.Lines))
	}
	if result.Lines[0].WarehouseID != 4 || result.Lines[0].QtyBackordered != 10 {
		t.Errorf("line = %+v, want 10 backordered against warehouse 4", result.Lines[0])
	}
}

func TestAllocate_NoWarehouseAnywhereFails(t *testing.T) {
	svc := NewAllocationService(zap.NewNop())

	_, err := svc.Allocate(pricedProduct(7), 10, nil, 0)
	if err == nil {
		t.Fatal("Allocate returned nil error, want not-found")
	}
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Errorf("error = %v, want NotFoundError", err)
	}
}

func TestAllocate_ProductWithoutPriceFails(t *testing.T) {
	svc := NewAllocationService(zap.NewNop())
	records := []*domain.Inventory{
		{ID: 1, ProductID: 7, WarehouseID: 1, QtyOnHand: 100},
	}

	_, err := svc.Allocate(domain.Product{ID: 7}, 10, records, 0)
	if err == nil {
		t.Fatal("Allocate returned nil error, want business-rule error")
	}
	if _, ok := apperrors.IsBusinessRuleError(err); !ok {
		t.Errorf("error = %v, want BusinessRuleError", err)
	}
	if records[0].QtyReserved != 0 {
		t.Errorf("inventory mutated on failed allocation: qtyReserved = %d", records[0].QtyReserved)
	}
}

func TestAllocate_TieBrokenByWarehouseID(t *testing.T) {
	svc := NewAllocationService(zap.NewNop())
	records := []*domain.Inventory{
		{ID: 2, ProductID: 7, WarehouseID: 5, QtyOnHand: 50, QtyReserved: 0},
		{ID: 1, ProductID: 7, WarehouseID: 2, QtyOnHand: 50, QtyReserved: 0},
	}

	result, err := svc.Allocate(pricedProduct(7), 10, records, 0)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}

	if result.Lines[0].WarehouseID != 2 {
		t.Errorf("drew from warehouse %d, want 2 (lowest id on tie)", result.Lines[0].WarehouseID)
	}
}
