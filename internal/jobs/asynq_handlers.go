package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Task type definitions
const (
	TypeStockCheck = "inventory:stock_check"
)

// StockCheckPayload names the products whose stock just went down.
type StockCheckPayload struct {
	OrderID    uuid.UUID   `json:"order_id"`
	OrderCode  string      `json:"order_code"`
	ProductIDs []uuid.UUID `json:"product_ids"`
}

func NewStockCheckTask(orderID uuid.UUID, orderCode string, productIDs []uuid.UUID) (*asynq.Task, error) {
	data, err := json.Marshal(StockCheckPayload{
		OrderID:    orderID,
		OrderCode:  orderCode,
		ProductIDs: productIDs,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeStockCheck, data, asynq.MaxRetry(3)), nil
}

// TaskEnqueuer is the part of *asynq.Client used to publish tasks.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// StockEventPublisher enqueues stock check tasks after orders consume stock.
type StockEventPublisher struct {
	client TaskEnqueuer
}

func NewStockEventPublisher(client TaskEnqueuer) *StockEventPublisher {
	return &StockEventPublisher{client: client}
}

func (p *StockEventPublisher) PublishStockCheck(ctx context.Context, orderID uuid.UUID, orderCode string, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}
	task, err := NewStockCheckTask(orderID, orderCode, productIDs)
	if err != nil {
		return err
	}
	info, err := p.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeStockCheck, err)
	}
	log.Debug().Str("task_id", info.ID).Str("order", orderCode).Msg("stock check enqueued")
	return nil
}

// StockCheckHandler handles stock check tasks
func (a *InventoryAlertService) StockCheckHandler(ctx context.Context, t *asynq.Task) error {
	var payload StockCheckPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal stock check payload: %v: %w", err, asynq.SkipRetry)
	}
	if len(payload.ProductIDs) == 0 {
		return nil
	}

	alerts, err := a.CheckLowStock(ctx, payload.ProductIDs)
	if err != nil {
		return err
	}
	if len(alerts) > 0 {
		log.Info().Str("order", payload.OrderCode).Int("alerts", len(alerts)).Msg("order left products at low stock")
	}
	a.LogLowStockAlerts(alerts)
	return nil
}

// NewServeMux routes every task type to its handler.
func NewServeMux(alerts *InventoryAlertService) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeStockCheck, alerts.StockCheckHandler)
	return mux
}

// TaskLogger routes asynq's own log lines through zerolog.
type TaskLogger struct {
	logger zerolog.Logger
}

func NewTaskLogger() *TaskLogger {
	return &TaskLogger{logger: log.With().Str("component", "asynq").Logger()}
}

func (l *TaskLogger) Debug(args ...interface{}) { l.logger.Debug().Msg(fmt.Sprint(args...)) }
func (l *TaskLogger) Info(args ...interface{})  { l.logger.Info().Msg(fmt.Sprint(args...)) }
func (l *TaskLogger) Warn(args ...interface{})  { l.logger.Warn().Msg(fmt.Sprint(args...)) }
func (l *TaskLogger) Error(args ...interface{}) { l.logger.Error().Msg(fmt.Sprint(args...)) }
func (l *TaskLogger) Fatal(args ...interface{}) { l.logger.Fatal().Msg(fmt.Sprint(args...)) }
