package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	ClientRef string            `json:"clientRef"`
	Items     []CreateOrderItem `json:"items"`
}

type CreateOrderItem struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type OrderResponse struct {
	TraceID    string          `json:"traceId,omitempty"`
	OrderID    uint            `json:"orderId"`
	ClientRef  string          `json:"clientRef"`
	Status     string          `json:"status"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Lines      []OrderLineDTO  `json:"lines"`
	Shipments  []ShipmentDTO   `json:"shipments,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type OrderLineDTO struct {
	LineID         uint            `json:"lineId"`
	ProductID      int             `json:"productId"`
	WarehouseID    int             `json:"warehouseId"`
	Quantity       int             `json:"quantity"`
	QtyReserved    int             `json:"qtyReserved"`
	QtyBackordered int             `json:"qtyBackordered"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
}
