package domain

import "time"

// MovementType classifies an inventory movement.
type MovementType string

const (
	MovementInbound    MovementType = "INBOUND"
	MovementOutbound   MovementType = "OUTBOUND"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// InventoryMovement is an immutable audit record of a signed on-hand
// change. Movements are append-only: they are never updated or deleted.
type InventoryMovement struct {
	ID          int
	ProductID   int
	WarehouseID int
	Type        MovementType
	Quantity    int // signed: positive inbound, negative outbound
	Reference   string
	OccurredAt  time.Time
}
