package domain

import "time"

// Inventory is the per (product, warehouse) stock record. It is the single
// source of truth for availability: qtyReserved is the authoritative
// aggregate of all live order-line reservations against the pair.
type Inventory struct {
	ID          int
	ProductID   int
	WarehouseID int
	QtyOnHand   int
	QtyReserved int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Available returns the quantity that can still be reserved.
func (i Inventory) Available() int {
	available := i.QtyOnHand - i.QtyReserved
	if available < 0 {
		return 0
	}
	return available
}

// Reserve commits qty units of on-hand stock to an order line.
func (i *Inventory) Reserve(qty int) {
	i.QtyReserved += qty
}

// Release returns qty units to availability, clamped at zero so a release
// can never drive qtyReserved negative even if bookkeeping drifted.
func (i *Inventory) Release(qty int) {
	i.QtyReserved -= qty
	if i.QtyReserved < 0 {
		i.QtyReserved = 0
	}
}

// DeductClamped removes qty from both on-hand and reserved, flooring both
// at zero. Used by the direct order-ship path.
func (i *Inventory) DeductClamped(qty int) {
	i.QtyOnHand -= qty
	if i.QtyOnHand < 0 {
		i.QtyOnHand = 0
	}
	i.QtyReserved -= qty
	if i.QtyReserved < 0 {
		i.QtyReserved = 0
	}
}

// DeductStrict removes qty from both on-hand and reserved and reports
// whether the record held enough of each. Insufficient stock at dispatch
// time is a real inconsistency that must surface, so this path does not
// clamp; on false the record is unchanged.
func (i *Inventory) DeductStrict(qty int) bool {
	if i.QtyOnHand < qty || i.QtyReserved < qty {
		return false
	}
	i.QtyOnHand -= qty
	i.QtyReserved -= qty
	return true
}
