package dto

import "time"

type CreateShipmentRequest struct {
	OrderID        uint   `json:"orderId"`
	CarrierID      int    `json:"carrierId"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	CutoffHour     *int   `json:"cutoffHour,omitempty"`
}

type ShipmentDTO struct {
	ShipmentID       uint       `json:"shipmentId"`
	OrderID          uint       `json:"orderId"`
	CarrierID        int        `json:"carrierId"`
	Status           string     `json:"status"`
	TrackingNumber   string     `json:"trackingNumber"`
	PlannedDeparture time.Time  `json:"plannedDeparture"`
	ActualDeparture  *time.Time `json:"actualDeparture,omitempty"`
	DeliveredAt      *time.Time `json:"deliveredAt,omitempty"`
	CutoffHour       int        `json:"cutoffHour"`
}

type ShipmentResponse struct {
	TraceID   string      `json:"traceId,omitempty"`
	Shipment  ShipmentDTO `json:"shipment"`
	Timestamp time.Time   `json:"timestamp"`
}
