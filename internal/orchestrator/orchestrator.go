package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/cache"
	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/mq"
)

// Default configuration values.
const (
	defaultGraphTTL = time.Hour
)

// GraphCache — кэш графов оркестраций.
type GraphCache interface {
	Put(ctx context.Context, graph *domain.FlowGraph) error
	Get(ctx context.Context, flowID uuid.UUID) (*domain.FlowGraph, error)
	Delete(ctx context.Context, flowID uuid.UUID) error
	ExistsAndValid(ctx context.Context, flowID uuid.UUID) (bool, error)
}

// DataCache — кэш рабочих данных процессоров.
type DataCache interface {
	Get(ctx context.Context, processorID uuid.UUID, key cache.DataKey) (string, error)
	Set(ctx context.Context, processorID uuid.UUID, key cache.DataKey, payload string) error
	Delete(ctx context.Context, processorID uuid.UUID, key cache.DataKey) error
}

// HealthGate — предусловие старта: все процессоры графа здоровы.
type HealthGate interface {
	Gate(ctx context.Context, processorIDs []uuid.UUID) error
}

// Dispatcher — отправка execute-команд процессорам.
type Dispatcher interface {
	PublishExecuteStep(ctx context.Context, payload mq.ExecuteStepPayload) error
}

// Definitions — загрузчик определений потока.
type Definitions interface {
	GetFlow(ctx context.Context, id uuid.UUID) (*domain.OrchestratedFlow, error)
	GetStepGraph(ctx context.Context, workflowID uuid.UUID) (map[uuid.UUID]domain.StepEntity, error)
	GetAssignments(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]domain.Assignment, error)
}

// Orchestrator — ядро системы.
//
// Orchestrator:
//   - Обслуживает Start/Stop/Status оркестраций (HTTP control surface)
//   - Потребляет события step.executed и step.failed из RabbitMQ
//   - Разворачивает fan-out по графу и переносит данные между процессорами
//
// Обработчики событий не координируются между собой: граф только
// читается, а ключи кэша данных уникальны на экземпляр шага.
type Orchestrator struct {
	// Collaborators
	definitions Definitions
	graphs      GraphCache
	data        DataCache
	gate        HealthGate
	dispatcher  Dispatcher

	// MQ
	conn *mq.Connection

	// Consumers
	executedConsumer *mq.Consumer
	failedConsumer   *mq.Consumer

	// Configuration
	graphTTL time.Duration

	// Lifecycle
	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// Config — конфигурация Orchestrator.
type Config struct {
	// Definitions — загрузчик определений (репозитории).
	Definitions Definitions

	// Graphs — кэш графов.
	Graphs GraphCache

	// Data — кэш данных процессоров.
	Data DataCache

	// Gate — health gate.
	Gate HealthGate

	// Dispatcher — publisher execute-команд.
	Dispatcher Dispatcher

	// Conn — соединение с RabbitMQ (для consumers).
	Conn *mq.Connection

	// GraphTTL — время жизни кэшированного графа (default: 1h).
	GraphTTL time.Duration

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Orchestrator.
func New(cfg Config) *Orchestrator {
	graphTTL := cfg.GraphTTL
	if graphTTL <= 0 {
		graphTTL = defaultGraphTTL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		definitions: cfg.Definitions,
		graphs:      cfg.Graphs,
		data:        cfg.Data,
		gate:        cfg.Gate,
		dispatcher:  cfg.Dispatcher,
		conn:        cfg.Conn,
		graphTTL:    graphTTL,
		logger:      logger,
	}
}

// Start запускает consumers событий завершения шагов.
func (o *Orchestrator) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	o.cancelFunc = cancel

	o.logger.Info("starting orchestrator", "graph_ttl", o.graphTTL)

	o.executedConsumer = mq.NewConsumer(o.conn, o.logger, mq.ConsumerConfig{
		Queue:    string(mq.QueueStepsExecuted),
		Handler:  o.handleStepExecuted,
		Prefetch: 10,
	})

	o.failedConsumer = mq.NewConsumer(o.conn, o.logger, mq.ConsumerConfig{
		Queue:    string(mq.QueueStepsFailed),
		Handler:  o.handleStepFailed,
		Prefetch: 10,
	})

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		if err := o.executedConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			o.logger.Error("step.executed consumer error", "error", err)
		}
	}()

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		if err := o.failedConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			o.logger.Error("step.failed consumer error", "error", err)
		}
	}()

	o.logger.Info("orchestrator started")
	return nil
}

// Stop останавливает consumers. Уже запущенные оркестрации не трогает:
// их графы остаются в кэше и переживают рестарт процесса.
func (o *Orchestrator) Stop() {
	o.logger.Info("stopping orchestrator...")

	if o.cancelFunc != nil {
		o.cancelFunc()
	}

	if o.executedConsumer != nil {
		o.executedConsumer.Stop()
	}
	if o.failedConsumer != nil {
		o.failedConsumer.Stop()
	}

	o.wg.Wait()

	o.logger.Info("orchestrator stopped")
}
