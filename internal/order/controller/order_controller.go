package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"orthanc/internal/domain"
	"orthanc/internal/dto"
	apperrors "orthanc/internal/errors"
)

type CreateOrderUseCase interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*domain.SalesOrder, error)
}

type CancelOrderUseCase interface {
	CancelOrder(ctx context.Context, orderID uint) (*domain.SalesOrder, error)
}

type ShipOrderUseCase interface {
	ShipOrder(ctx context.Context, orderID uint) (*domain.SalesOrder, error)
}

type GetOrderUseCase interface {
	GetOrder(ctx context.Context, orderID uint) (*domain.SalesOrder, error)
}

type OrderController struct {
	createUC CreateOrderUseCase
	cancelUC CancelOrderUseCase
	shipUC   ShipOrderUseCase
	getUC    GetOrderUseCase
	logger   *zap.Logger
}

func NewOrderController(createUC CreateOrderUseCase, cancelUC CancelOrderUseCase, shipUC ShipOrderUseCase, getUC GetOrderUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		createUC: createUC,
		cancelUC: cancelUC,
		shipUC:   shipUC,
		getUC:    getUC,
		logger:   logger,
	}
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := c.validateCreateRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	order, err := c.createUC.CreateOrder(r.Context(), req)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	resp := orderToResponse(order)
	resp.TraceID = traceID
	c.writeJSON(w, http.StatusCreated, resp)
}

func (c *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, ok := c.parseOrderID(w, r, logger)
	if !ok {
		return
	}

	order, err := c.cancelUC.CancelOrder(r.Context(), orderID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	resp := orderToResponse(order)
	resp.TraceID = traceID
	c.writeJSON(w, http.StatusOK, resp)
}

func (c *OrderController) Ship(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, ok := c.parseOrderID(w, r, logger)
	if !ok {
		return
	}

	order, err := c.shipUC.ShipOrder(r.Context(), orderID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	resp := orderToResponse(order)
	resp.TraceID = traceID
	c.writeJSON(w, http.StatusOK, resp)
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, ok := c.parseOrderID(w, r, logger)
	if !ok {
		return
	}

	order, err := c.getUC.GetOrder(r.Context(), orderID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, orderToResponse(order))
}

func (c *OrderController) parseOrderID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uint, bool) {
	orderIDStr := chi.URLParam(r, "orderId")
	orderID, err := strconv.ParseUint(orderIDStr, 10, 64)
	if err != nil || orderID == 0 {
		logger.Warn("invalid orderId in path", zap.String("orderId", orderIDStr))
		c.writeValidationError(w, "invalid orderId", apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId must be a positive integer",
		})
		return 0, false
	}
	return uint(orderID), true
}

func (c *OrderController) validateCreateRequest(req dto.CreateOrderRequest) error {
	var details []apperrors.ValidationDetail

	if req.ClientRef == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "clientRef",
			Message: "clientRef is required",
		})
	}

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	if len(req.Items) > 100 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items exceeds maximum of 100",
		})
	}

	productIDMap := make(map[int]bool)

	for idx, item := range req.Items {
		if item.ProductID <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].productId",
				Message: "each productId must be a positive integer",
			})
		}

		if productIDMap[item.ProductID] {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].productId",
				Message: "productId must not be duplicated",
			})
		}
		productIDMap[item.ProductID] = true

		if item.Quantity < 1 || item.Quantity > 10000 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].quantity",
				Message: "quantity must be between 1 and 10000",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func (c *OrderController) handleUseCaseError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "CONFLICT", err.Error())
		return
	}
	if _, ok := apperrors.IsBusinessRuleError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusUnprocessableEntity, "BUSINESS_RULE", err.Error())
		return
	}
	if _, ok := apperrors.IsDeadlockError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "DEADLOCK", err.Error())
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

func orderToResponse(order *domain.SalesOrder) dto.OrderResponse {
	lines := make([]dto.OrderLineDTO, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = dto.OrderLineDTO{
			LineID:         line.ID,
			ProductID:      line.ProductID,
			WarehouseID:    line.WarehouseID,
			Quantity:       line.Quantity,
			QtyReserved:    line.QtyReserved,
			QtyBackordered: line.QtyBackordered,
			UnitPrice:      line.UnitPrice,
		}
	}

	shipments := make([]dto.ShipmentDTO, len(order.Shipments))
	for i, s := range order.Shipments {
		shipments[i] = dto.ShipmentDTO{
			ShipmentID:       s.ID,
			OrderID:          s.OrderID,
			CarrierID:        s.CarrierID,
			Status:           s.Status,
			TrackingNumber:   s.TrackingNumber,
			PlannedDeparture: s.PlannedDeparture,
			ActualDeparture:  s.ActualDeparture,
			DeliveredAt:      s.DeliveredAt,
			CutoffHour:       s.CutoffHour,
		}
	}

	return dto.OrderResponse{
		OrderID:    order.ID,
		ClientRef:  order.ClientRef,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
		Lines:      lines,
		Shipments:  shipments,
		CreatedAt:  order.CreatedAt,
	}
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *OrderController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *OrderController) writeErrorResponse(w http.ResponseWriter, traceID string, status int, code, message string) {
	c.writeJSON(w, status, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
