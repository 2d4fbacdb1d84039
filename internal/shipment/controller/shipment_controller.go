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

type CreateShipmentUseCase interface {
	CreateShipment(ctx context.Context, req dto.CreateShipmentRequest) (*domain.Shipment, error)
}

type MarkShippedUseCase interface {
	MarkShipped(ctx context.Context, shipmentID uint) (*domain.Shipment, error)
}

type MarkDeliveredUseCase interface {
	MarkDelivered(ctx context.Context, shipmentID uint) (*domain.Shipment, error)
}

type ShipmentController struct {
	createUC    CreateShipmentUseCase
	shippedUC   MarkShippedUseCase
	deliveredUC MarkDeliveredUseCase
	logger      *zap.Logger
}

func NewShipmentController(createUC CreateShipmentUseCase, shippedUC MarkShippedUseCase, deliveredUC MarkDeliveredUseCase, logger *zap.Logger) *ShipmentController {
	return &ShipmentController{
		createUC:    createUC,
		shippedUC:   shippedUC,
		deliveredUC: deliveredUC,
		logger:      logger,
	}
}

func (c *ShipmentController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateShipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := validateCreateShipmentRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	shipment, err := c.createUC.CreateShipment(r.Context(), req)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, dto.ShipmentResponse{
		TraceID:   traceID,
		Shipment:  shipmentToDTO(shipment),
		Timestamp: time.Now().UTC(),
	})
}

func (c *ShipmentController) MarkShipped(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	shipmentID, ok := c.parseShipmentID(w, r, logger)
	if !ok {
		return
	}

	shipment, err := c.shippedUC.MarkShipped(r.Context(), shipmentID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.ShipmentResponse{
		TraceID:   traceID,
		Shipment:  shipmentToDTO(shipment),
		Timestamp: time.Now().UTC(),
	})
}

func (c *ShipmentController) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	shipmentID, ok := c.parseShipmentID(w, r, logger)
	if !ok {
		return
	}

	shipment, err := c.deliveredUC.MarkDelivered(r.Context(), shipmentID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.ShipmentResponse{
		TraceID:   traceID,
		Shipment:  shipmentToDTO(shipment),
		Timestamp: time.Now().UTC(),
	})
}

func (c *ShipmentController) parseShipmentID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uint, bool) {
	shipmentIDStr := chi.URLParam(r, "shipmentId")
	shipmentID, err := strconv.ParseUint(shipmentIDStr, 10, 64)
	if err != nil || shipmentID == 0 {
		logger.Warn("invalid shipmentId in path", zap.String("shipmentId", shipmentIDStr))
		c.writeValidationError(w, "invalid shipmentId", apperrors.ValidationDetail{
			Field:   "shipmentId",
			Message: "shipmentId must be a positive integer",
		})
		return 0, false
	}
	return uint(shipmentID), true
}

func validateCreateShipmentRequest(req dto.CreateShipmentRequest) error {
	var details []apperrors.ValidationDetail

	if req.OrderID == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId must be a positive integer",
		})
	}
	if req.CarrierID <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "carrierId",
			Message: "carrierId must be a positive integer",
		})
	}
	if req.CutoffHour != nil && (*req.CutoffHour < 0 || *req.CutoffHour > 23) {
		details = append(details, apperrors.ValidationDetail{
			Field:   "cutoffHour",
			Message: "cutoffHour must be between 0 and 23",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func shipmentToDTO(s *domain.Shipment) dto.ShipmentDTO {
	return dto.ShipmentDTO{
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

func (c *ShipmentController) handleUseCaseError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
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

func (c *ShipmentController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *ShipmentController) writeErrorResponse(w http.ResponseWriter, traceID string, status int, code, message string) {
	c.writeJSON(w, status, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func (c *ShipmentController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
