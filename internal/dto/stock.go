package dto

import "time"

// StockReceipt is the stock-received signal emitted by the purchase
// workflow, arriving over HTTP or Kafka.
type StockReceipt struct {
	ProductID   int    `json:"productId"`
	WarehouseID int    `json:"warehouseId"`
	Quantity    int    `json:"quantity"`
	Reference   string `json:"reference,omitempty"`
}

type StockReceiptResponse struct {
	TraceID          string    `json:"traceId"`
	ProductID        int       `json:"productId"`
	WarehouseID      int       `json:"warehouseId"`
	QuantityReceived int       `json:"quantityReceived"`
	LinesReplenished int       `json:"linesReplenished"`
	OrdersPromoted   []uint    `json:"ordersPromoted,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

type StockAdjustment struct {
	ProductID   int    `json:"productId"`
	WarehouseID int    `json:"warehouseId"`
	Quantity    int    `json:"quantity"` // signed
	Reference   string `json:"reference,omitempty"`
}

type StockAdjustmentResponse struct {
	TraceID     string    `json:"traceId"`
	ProductID   int       `json:"productId"`
	WarehouseID int       `json:"warehouseId"`
	QtyOnHand   int       `json:"qtyOnHand"`
	QtyReserved int       `json:"qtyReserved"`
	Timestamp   time.Time `json:"timestamp"`
}

type StockLevelDTO struct {
	WarehouseID int `json:"warehouseId"`
	QtyOnHand   int `json:"qtyOnHand"`
	QtyReserved int `json:"qtyReserved"`
	Available   int `json:"available"`
}

type StockLevelsResponse struct {
	ProductID int             `json:"productId"`
	Levels    []StockLevelDTO `json:"levels"`
}

type MovementDTO struct {
	ID          int       `json:"id"`
	WarehouseID int       `json:"warehouseId"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	Reference   string    `json:"reference"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type MovementsResponse struct {
	ProductID int           `json:"productId"`
	Movements []MovementDTO `json:"movements"`
}
