package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/cache"
	"github.com/shaiso/Conveyor/internal/health"
	"github.com/shaiso/Conveyor/internal/mq"
	"github.com/shaiso/Conveyor/internal/telemetry"
)

// Default configuration values.
const (
	defaultPrefetch       = 5
	defaultHandlerName    = "passthrough"
	handlerAssignmentName = "handler"
)

// Data — операции с регионом кэша данных процессора.
type Data interface {
	Get(ctx context.Context, processorID uuid.UUID, key cache.DataKey) (string, error)
	Set(ctx context.Context, processorID uuid.UUID, key cache.DataKey, payload string) error
}

// EventPublisher — публикация событий о выполнении шага.
type EventPublisher interface {
	PublishStepExecuted(ctx context.Context, payload mq.StepExecutedPayload) error
	PublishStepFailed(ctx context.Context, payload mq.StepFailedPayload) error
}

// Runtime обслуживает один процессор.
//
// Runtime — stateless компонент, который:
//   - Потребляет execute-команды из очереди execute.<processorID>
//   - Читает вход из своего региона кэша по составному ключу команды
//   - Выполняет handler (имя — из assignment "handler" или из конфигурации)
//   - Пишет результат обратно под тем же ключом
//   - Публикует step.executed / step.failed
//   - Периодически публикует свой health record
type Runtime struct {
	processorID uuid.UUID
	handlerName string

	data      Data
	publisher EventPublisher
	registry  *Registry
	reporter  *health.Reporter

	// MQ
	conn     *mq.Connection
	consumer *mq.Consumer

	// Lifecycle
	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// Config — конфигурация Runtime.
type Config struct {
	// ProcessorID — идентификатор обслуживаемого процессора.
	ProcessorID uuid.UUID

	// HandlerName — handler по умолчанию (default: "passthrough").
	// Шаг может переопределить его assignment-ом "handler".
	HandlerName string

	// Data — кэш данных процессоров.
	Data Data

	// Publisher — publisher событий.
	Publisher EventPublisher

	// Registry — реестр handlers (опционально; если nil — DefaultRegistry()).
	Registry *Registry

	// Reporter — health reporter (опционально).
	Reporter *health.Reporter

	// Conn — соединение с RabbitMQ.
	Conn *mq.Connection

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Runtime.
func New(cfg Config) *Runtime {
	handlerName := cfg.HandlerName
	if handlerName == "" {
		handlerName = defaultHandlerName
	}

	registry := cfg.Registry
	if registry == nil {
		registry = DefaultRegistry()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Runtime{
		processorID: cfg.ProcessorID,
		handlerName: handlerName,
		data:        cfg.Data,
		publisher:   cfg.Publisher,
		registry:    registry,
		reporter:    cfg.Reporter,
		conn:        cfg.Conn,
		logger:      telemetry.WithProcessorID(logger, cfg.ProcessorID.String()),
	}
}

// Start объявляет очередь процессора и запускает consumer и reporter.
func (r *Runtime) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	r.cancelFunc = cancel

	r.logger.Info("starting processor runtime",
		"handler", r.handlerName,
		"available_handlers", r.registry.Names(),
	)

	if err := mq.DeclareProcessorQueue(ctx, r.conn, r.processorID); err != nil {
		return fmt.Errorf("declare processor queue: %w", err)
	}

	r.consumer = mq.NewConsumer(r.conn, r.logger, mq.ConsumerConfig{
		Queue:    string(mq.ProcessorQueue(r.processorID)),
		Handler:  r.handleExecuteStep,
		Prefetch: defaultPrefetch,
	})

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Error("execute consumer error", "error", err)
		}
	}()

	if r.reporter != nil {
		r.reporter.Start(ctx)
	}

	r.logger.Info("processor runtime started")
	return nil
}

// Stop останавливает Runtime.
func (r *Runtime) Stop() {
	r.logger.Info("stopping processor runtime...")

	if r.cancelFunc != nil {
		r.cancelFunc()
	}

	if r.consumer != nil {
		r.consumer.Stop()
	}
	if r.reporter != nil {
		r.reporter.Stop()
	}

	r.wg.Wait()

	r.logger.Info("processor runtime stopped")
}

// handleExecuteStep обрабатывает одну execute-команду.
//
// Ошибка handler-а — это step.failed, а не nack: команда считается
// доставленной, отказ сообщается оркестратору событием. Nack остаётся
// для транзиентных ошибок инфраструктуры (кэш, публикация).
func (r *Runtime) handleExecuteStep(ctx context.Context, msg *mq.Delivery) error {
	payload, err := mq.ParsePayload[mq.ExecuteStepPayload](&msg.Message)
	if err != nil {
		r.logger.Error("malformed execute command", "error", err)
		return nil
	}

	key := cache.DataKey{
		OrchestratedFlowID: payload.OrchestratedFlowID,
		StepID:             payload.StepID,
		ExecutionID:        payload.ExecutionID,
		CorrelationID:      payload.CorrelationID,
	}

	log := telemetry.WithStepID(
		telemetry.WithFlowID(r.logger, payload.OrchestratedFlowID.String()),
		payload.StepID.String(),
	)

	input, err := r.data.Get(ctx, r.processorID, key)
	if errors.Is(err, cache.ErrNotFound) {
		// Оркестратор предупредил об этом при переносе; работаем с пустым входом
		log.Warn("no input data for step", "execution_id", payload.ExecutionID)
		input = ""
	} else if err != nil {
		return fmt.Errorf("read step input: %w", err)
	}

	exec := Execution{
		OrchestratedFlowID: payload.OrchestratedFlowID,
		StepID:             payload.StepID,
		ExecutionID:        payload.ExecutionID,
		CorrelationID:      payload.CorrelationID,
		Input:              input,
		Assignments:        payload.Assignments,
	}

	output, execErr := r.execute(ctx, exec)
	if execErr != nil {
		log.Warn("step execution failed",
			"execution_id", payload.ExecutionID,
			"error", execErr,
		)
		return r.publisher.PublishStepFailed(ctx, mq.StepFailedPayload{
			ProcessorID:        r.processorID,
			OrchestratedFlowID: payload.OrchestratedFlowID,
			StepID:             payload.StepID,
			ExecutionID:        payload.ExecutionID,
			CorrelationID:      payload.CorrelationID,
			Error:              execErr.Error(),
		})
	}

	// Результат кладётся под тем же составным ключом: оркестратор
	// найдёт его там при fan-out
	if err := r.data.Set(ctx, r.processorID, key, output); err != nil {
		return fmt.Errorf("write step output: %w", err)
	}

	if err := r.publisher.PublishStepExecuted(ctx, mq.StepExecutedPayload{
		ProcessorID:        r.processorID,
		OrchestratedFlowID: payload.OrchestratedFlowID,
		StepID:             payload.StepID,
		ExecutionID:        payload.ExecutionID,
		CorrelationID:      payload.CorrelationID,
	}); err != nil {
		return fmt.Errorf("publish step.executed: %w", err)
	}

	log.Debug("step executed", "execution_id", payload.ExecutionID)

	return nil
}

// execute выбирает handler и выполняет его.
func (r *Runtime) execute(ctx context.Context, exec Execution) (string, error) {
	name := r.handlerName
	if override, ok := exec.Assignment(handlerAssignmentName); ok {
		name = override
	}

	handler, err := r.registry.Get(name)
	if err != nil {
		return "", err
	}

	return handler(ctx, exec)
}
