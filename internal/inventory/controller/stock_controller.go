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
	"orthanc/internal/inventory/usecase"
)

type ReceiveStockUseCase interface {
	ReceiveStock(ctx context.Context, receipt dto.StockReceipt) (*usecase.ReceiveStockResult, error)
}

type AdjustStockUseCase interface {
	AdjustStock(ctx context.Context, adjustment dto.StockAdjustment) (*domain.Inventory, error)
}

type StockQueryUseCase interface {
	GetStockLevels(ctx context.Context, productID int) ([]domain.Inventory, error)
	GetMovements(ctx context.Context, productID int) ([]domain.InventoryMovement, error)
}

type StockController struct {
	receiveUC ReceiveStockUseCase
	adjustUC  AdjustStockUseCase
	queryUC   StockQueryUseCase
	logger    *zap.Logger
}

func NewStockController(receiveUC ReceiveStockUseCase, adjustUC AdjustStockUseCase, queryUC StockQueryUseCase, logger *zap.Logger) *StockController {
	return &StockController{
		receiveUC: receiveUC,
		adjustUC:  adjustUC,
		queryUC:   queryUC,
		logger:    logger,
	}
}

func (c *StockController) Receive(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var receipt dto.StockReceipt
	if err := json.NewDecoder(r.Body).Decode(&receipt); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := validateReceipt(receipt); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	result, err := c.receiveUC.ReceiveStock(r.Context(), receipt)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.StockReceiptResponse{
		TraceID:          traceID,
		ProductID:        receipt.ProductID,
		WarehouseID:      receipt.WarehouseID,
		QuantityReceived: receipt.Quantity,
		LinesReplenished: result.LinesReplenished,
		OrdersPromoted:   result.OrdersPromoted,
		Timestamp:        time.Now().UTC(),
	})
}

func (c *StockController) Adjust(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var adjustment dto.StockAdjustment
	if err := json.NewDecoder(r.Body).Decode(&adjustment); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := validateAdjustment(adjustment); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	inv, err := c.adjustUC.AdjustStock(r.Context(), adjustment)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.StockAdjustmentResponse{
		TraceID:     traceID,
		ProductID:   inv.ProductID,
		WarehouseID: inv.WarehouseID,
		QtyOnHand:   inv.QtyOnHand,
		QtyReserved: inv.QtyReserved,
		Timestamp:   time.Now().UTC(),
	})
}

func (c *StockController) GetLevels(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	productID, ok := c.parseProductID(w, r, logger)
	if !ok {
		return
	}

	records, err := c.queryUC.GetStockLevels(r.Context(), productID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	levels := make([]dto.StockLevelDTO, len(records))
	for i, inv := range records {
		levels[i] = dto.StockLevelDTO{
			WarehouseID: inv.WarehouseID,
			QtyOnHand:   inv.QtyOnHand,
			QtyReserved: inv.QtyReserved,
			Available:   inv.Available(),
		}
	}

	c.writeJSON(w, http.StatusOK, dto.StockLevelsResponse{
		ProductID: productID,
		Levels:    levels,
	})
}

func (c *StockController) GetMovements(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	productID, ok := c.parseProductID(w, r, logger)
	if !ok {
		return
	}

	movements, err := c.queryUC.GetMovements(r.Context(), productID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	out := make([]dto.MovementDTO, len(movements))
	for i, m := range movements {
		out[i] = dto.MovementDTO{
			ID:          m.ID,
			WarehouseID: m.WarehouseID,
			Type:        string(m.Type),
			Quantity:    m.Quantity,
			Reference:   m.Reference,
			OccurredAt:  m.OccurredAt,
		}
	}

	c.writeJSON(w, http.StatusOK, dto.MovementsResponse{
		ProductID: productID,
		Movements: out,
	})
}

func (c *StockController) parseProductID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int, bool) {
	productIDStr := chi.URLParam(r, "productId")
	productID, err := strconv.Atoi(productIDStr)
	if err != nil || productID <= 0 {
		logger.Warn("invalid productId in path", zap.String("productId", productIDStr))
		c.writeValidationError(w, "invalid productId", apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId must be a positive integer",
		})
		return 0, false
	}
	return productID, true
}

func validateReceipt(receipt dto.StockReceipt) error {
	var details []apperrors.ValidationDetail

	if receipt.ProductID <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId must be a positive integer",
		})
	}
	if receipt.WarehouseID <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "warehouseId",
			Message: "warehouseId must be a positive integer",
		})
	}
	if receipt.Quantity <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be a positive integer",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func validateAdjustment(adjustment dto.StockAdjustment) error {
	var details []apperrors.ValidationDetail

	if adjustment.ProductID <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId must be a positive integer",
		})
	}
	if adjustment.WarehouseID <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "warehouseId",
			Message: "warehouseId must be a positive integer",
		})
	}
	if adjustment.Quantity == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be a non-zero signed integer",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func (c *StockController) handleUseCaseError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
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

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *StockController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *StockController) writeErrorResponse(w http.ResponseWriter, traceID string, status int, code, message string) {
	c.writeJSON(w, status, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func (c *StockController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
