package usecase

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"orthanc/internal/commons"
	"orthanc/internal/domain"
	"orthanc/internal/dto"
	apperrors "orthanc/internal/errors"
)

// CreateOrderUseCase builds a sales order by allocating each requested item
// across warehouse stock, deriving the order status from the aggregate
// reservation outcome.
type CreateOrderUseCase struct {
	db               TransactionManager
	orderRepo        OrderRepository
	lineRepo         OrderLineRepository
	productRepo      ProductRepository
	warehouseRepo    WarehouseRepository
	inventoryRepo    InventoryRepository
	allocator        StockAllocator
	logger           *zap.Logger
	txTimeout        time.Duration
	maxRetryAttempts int
}

func NewCreateOrderUseCase(
	db TransactionManager,
	orderRepo OrderRepository,
	lineRepo OrderLineRepository,
	productRepo ProductRepository,
	warehouseRepo WarehouseRepository,
	inventoryRepo InventoryRepository,
	allocator StockAllocator,
	logger *zap.Logger,
	txTimeout time.Duration,
	maxRetryAttempts int,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		db:               db,
		orderRepo:        orderRepo,
		lineRepo:         lineRepo,
		productRepo:      productRepo,
		warehouseRepo:    warehouseRepo,
		inventoryRepo:    inventoryRepo,
		allocator:        allocator,
		logger:           logger,
		txTimeout:        txTimeout,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *CreateOrderUseCase) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*domain.SalesOrder, error) {
	uc.logger.Info("create-order started", zap.String("clientRef", req.ClientRef), zap.Int("itemCount", len(req.Items)))

	// Pre-validation outside the transaction: every product must exist and
	// carry a price before any stock is touched.
	products := make(map[int]*domain.Product, len(req.Items))
	for _, item := range req.Items {
		product, err := uc.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.HasPrice() {
			return nil, apperrors.NewBusinessRuleError("product has no price and cannot be ordered")
		}
		products[item.ProductID] = product
	}

	fallbackWarehouseID, err := uc.warehouseRepo.FirstWarehouseID(ctx)
	if err != nil {
		return nil, err
	}

	// Lock inventory in product-id order across concurrent creations.
	items := make([]dto.CreateOrderItem, len(req.Items))
	copy(items, req.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	for attempt := 1; attempt <= uc.maxRetryAttempts; attempt++ {
		order, err := uc.createOrderTx(ctx, req.ClientRef, items, products, fallbackWarehouseID)
		if err == nil {
			return order, nil
		}

		if commons.IsDeadlockError(err) {
			if attempt < uc.maxRetryAttempts {
				uc.logger.Warn("deadlock detected, retrying", zap.Int("attempt", attempt), zap.String("clientRef", req.ClientRef))
				time.Sleep(commons.RetryBackoff(attempt))
				continue
			}
			return nil, apperrors.NewDeadlockError("max retries exceeded")
		}

		return nil, err
	}

	return nil, apperrors.NewDeadlockError("max retries exceeded")
}

func (uc *CreateOrderUseCase) createOrderTx(
	ctx context.Context,
	clientRef string,
	items []dto.CreateOrderItem,
	products map[int]*domain.Product,
	fallbackWarehouseID int,
) (*domain.SalesOrder, error) {
	txCtx, cancel := context.WithTimeout(ctx, uc.txTimeout)
	defer cancel()

	tx, err := uc.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		uc.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	// MySQL ignores the rollback once committed.
	defer tx.Rollback()

	var (
		lines        []domain.SalesOrderLine
		mutated      []*domain.Inventory
		hasReserved  bool
		hasBackorder bool
		totalPrice   decimal.Decimal
	)

	for _, item := range items {
		product := products[item.ProductID]

		records, err := uc.inventoryRepo.FindByProductForUpdate(txCtx, tx, item.ProductID)
		if err != nil {
			return nil, err
		}

		result, err := uc.allocator.Allocate(*product, item.Quantity, records, fallbackWarehouseID)
		if err != nil {
			return nil, err
		}

		lines = append(lines, result.Lines...)
		mutated = append(mutated, result.Mutated...)
		hasReserved = hasReserved || result.HasReserved
		hasBackorder = hasBackorder || result.HasBackorder
		totalPrice = totalPrice.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	order := &domain.SalesOrder{
		ClientRef:  clientRef,
		Status:     domain.DeriveOrderStatus(hasReserved, hasBackorder),
		TotalPrice: totalPrice,
	}

	orderID, err := uc.orderRepo.Insert(txCtx, tx, order)
	if err != nil {
		return nil, err
	}
	order.ID = orderID

	for i := range lines {
		lines[i].OrderID = orderID
	}
	if err := uc.lineRepo.InsertBatch(txCtx, tx, lines); err != nil {
		return nil, err
	}

	// Mutated inventory is persisted once, at the end of the walk.
	if err := uc.inventoryRepo.UpdateQuantitiesBatch(txCtx, tx, mutated); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		uc.logger.Error("failed to commit transaction", zap.Error(err))
		return nil, err
	}

	order.Lines = lines
	order.CreatedAt = time.Now()

	uc.logger.Info("order created",
		zap.Uint("orderId", orderID),
		zap.String("status", order.Status),
		zap.Int("lineCount", len(lines)),
		zap.String("totalPrice", totalPrice.String()),
	)

	return order, nil
}
