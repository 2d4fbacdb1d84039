package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SalesOrder struct {
	ID         uint
	ClientRef  string
	Status     string
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Lines      []SalesOrderLine
	Shipments  []Shipment
}

// SalesOrderLine is one allocation of a requested quantity against a single
// warehouse. Invariant: QtyReserved + QtyBackordered == Quantity, both >= 0.
type SalesOrderLine struct {
	ID             uint
	OrderID        uint
	ProductID      int
	WarehouseID    int
	Quantity       int
	QtyReserved    int
	QtyBackordered int
	UnitPrice      decimal.Decimal
}

const (
	OrderStatusCreated           = "CREATED"
	OrderStatusReserved          = "RESERVED"
	OrderStatusPartiallyReserved = "PARTIALLY_RESERVED"
	OrderStatusBackordered       = "BACKORDERED"
	OrderStatusShipped           = "SHIPPED"
	OrderStatusDelivered         = "DELIVERED"
	OrderStatusCanceled          = "CANCELED"
)

// DeriveOrderStatus maps an allocation outcome to the order status set at
// creation time. An order with nothing backordered is RESERVED, which also
// covers the empty-order edge case.
func DeriveOrderStatus(hasReserved, hasBackorder bool) string {
	switch {
	case hasBackorder && hasReserved:
		return OrderStatusPartiallyReserved
	case hasBackorder:
		return OrderStatusBackordered
	default:
		return OrderStatusReserved
	}
}

// StatusFromLines recomputes the reservation status from the line-level
// split. Used after backorder reconciliation to promote an order.
func StatusFromLines(lines []SalesOrderLine) string {
	hasReserved := false
	hasBackorder := false
	for _, line := range lines {
		if line.QtyReserved > 0 {
			hasReserved = true
		}
		if line.QtyBackordered > 0 {
			hasBackorder = true
		}
	}
	return DeriveOrderStatus(hasReserved, hasBackorder)
}

// CanCancel reports whether an order in the given status may be canceled.
// Shipped and delivered orders may not; an already-canceled order is a
// legal no-op handled by the caller.
func CanCancel(status string) bool {
	switch status {
	case OrderStatusCreated, OrderStatusReserved, OrderStatusPartiallyReserved, OrderStatusBackordered:
		return true
	default:
		return false
	}
}

// CanShip reports whether an order in the given status may be shipped
// directly. Only fully or partially reserved orders hold stock to dispatch.
func CanShip(status string) bool {
	return status == OrderStatusReserved || status == OrderStatusPartiallyReserved
}

// IsTerminal reports whether no further transition is possible.
func IsTerminal(status string) bool {
	return status == OrderStatusCanceled || status == OrderStatusDelivered
}
