package domain

import "time"

type Shipment struct {
	ID               uint
	OrderID          uint
	CarrierID        int
	Status           string
	TrackingNumber   string
	PlannedDeparture time.Time
	ActualDeparture  *time.Time
	DeliveredAt      *time.Time
	CutoffHour       int
	CreatedAt        time.Time
}

const (
	ShipmentStatusPlanned   = "PLANNED"
	ShipmentStatusShipped   = "SHIPPED"
	ShipmentStatusDelivered = "DELIVERED"
)
