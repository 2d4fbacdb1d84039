package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"orthanc/internal/config"
	"orthanc/internal/dto"
	apperrors "orthanc/internal/errors"
	"orthanc/internal/inventory/usecase"
)

// StockReceiver is the slice of the receive use case the consumer needs.
type StockReceiver interface {
	ReceiveStock(ctx context.Context, receipt dto.StockReceipt) (*usecase.ReceiveStockResult, error)
}

// Consumer reads stock-received events and feeds them into the same use
// case the HTTP endpoint uses. Malformed or rejected events are logged
// and skipped; the offset is committed either way so a poison message
// cannot wedge the partition.
type Consumer struct {
	reader   *kafka.Reader
	receiver StockReceiver
	logger   *zap.Logger
}

func NewConsumer(cfg config.KafkaConfig, receiver StockReceiver, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
	})
	return &Consumer{
		reader:   reader,
		receiver: receiver,
		logger:   logger,
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("kafka consumer started",
		zap.String("topic", c.reader.Config().Topic),
		zap.String("groupId", c.reader.Config().GroupID))

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				c.logger.Info("kafka consumer stopping")
				return nil
			}
			c.logger.Error("reading from kafka", zap.Error(err))
			continue
		}

		c.handle(ctx, msg)
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	var receipt dto.StockReceipt
	if err := json.Unmarshal(msg.Value, &receipt); err != nil {
		c.logger.Warn("skipping malformed stock-received event",
			zap.Int64("offset", msg.Offset),
			zap.Error(err))
		return
	}

	if receipt.ProductID <= 0 || receipt.WarehouseID <= 0 || receipt.Quantity <= 0 {
		c.logger.Warn("skipping invalid stock-received event",
			zap.Int("productId", receipt.ProductID),
			zap.Int("warehouseId", receipt.WarehouseID),
			zap.Int("quantity", receipt.Quantity))
		return
	}

	result, err := c.receiver.ReceiveStock(ctx, receipt)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			c.logger.Warn("skipping stock-received event for unknown product or warehouse",
				zap.Int("productId", receipt.ProductID),
				zap.Int("warehouseId", receipt.WarehouseID),
				zap.Error(err))
			return
		}
		c.logger.Error("applying stock-received event",
			zap.Int("productId", receipt.ProductID),
			zap.Int("warehouseId", receipt.WarehouseID),
			zap.Error(err))
		return
	}

	c.logger.Info("stock-received event applied",
		zap.Int("productId", receipt.ProductID),
		zap.Int("warehouseId", receipt.WarehouseID),
		zap.Int("quantity", receipt.Quantity),
		zap.Int("linesReplenished", result.LinesReplenished),
		zap.Uints("ordersPromoted", result.OrdersPromoted))
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
