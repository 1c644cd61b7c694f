package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/shaiso/Conveyor/internal/cache"
	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/engine"
	"github.com/shaiso/Conveyor/internal/mq"
	"github.com/shaiso/Conveyor/internal/repo"
	"github.com/shaiso/Conveyor/internal/telemetry"
)

// StartFlow запускает оркестрацию потока.
//
// Последовательность:
//  1. Если живой граф уже есть — успех без побочных эффектов (идемпотентно).
//  2. Загрузка определения потока; граф шагов и assignments — параллельно.
//  3. Сборка FlowGraph и запись в кэш с TTL. С этого момента оркестрация
//     считается активной, даже если ни один шаг ещё не выполнялся.
//  4. Health gate по всем процессорам графа. Отказ прерывает старт,
//     но граф остаётся в кэше: повторный вызов увидит "уже активна",
//     для чистого рестарта нужен явный Stop.
//  5. Поиск и валидация entry points. Отказ — тоже без отката графа.
//  6. Параллельный dispatch каждого entry point со свежей парой
//     executionId/correlationId и записью начальных данных.
//  7. Успех после приёма всех dispatch каналом (приём ≠ выполнение).
//     Частично записанные данные других entry points при ошибке
//     не откатываются.
func (o *Orchestrator) StartFlow(ctx context.Context, flowID uuid.UUID) (*domain.OrchestrationStatus, error) {
	log := telemetry.WithFlowID(o.logger, flowID.String())

	// 1. Идемпотентность: живая оркестрация — не ошибка
	existing, err := o.graphs.Get(ctx, flowID)
	if err == nil {
		log.Info("orchestration already active", "started_at", existing.CreatedAt)
		return statusFromGraph(existing), nil
	}
	if !errors.Is(err, cache.ErrNotFound) {
		return nil, fmt.Errorf("check active orchestration: %w", err)
	}

	// 2. Определение потока
	flow, err := o.definitions.GetFlow(ctx, flowID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrFlowNotFound, flowID)
		}
		return nil, fmt.Errorf("get orchestrated flow: %w", err)
	}

	// Граф шагов и assignments загружаются параллельно
	var (
		stepEntities map[uuid.UUID]domain.StepEntity
		assignments  map[uuid.UUID][]domain.Assignment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stepEntities, err = o.definitions.GetStepGraph(gctx, flow.WorkflowID)
		if err != nil {
			return fmt.Errorf("get step graph: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		assignments, err = o.definitions.GetAssignments(gctx, flow.AssignmentIDs)
		if err != nil {
			return fmt.Errorf("get assignments: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 3. Сборка и кэширование графа
	now := time.Now()
	graph := &domain.FlowGraph{
		OrchestratedFlowID: flowID,
		StepEntities:       stepEntities,
		Assignments:        assignments,
		Payload:            flow.Payload,
		CreatedAt:          now,
		ExpiresAt:          now.Add(o.graphTTL),
	}

	if err := o.graphs.Put(ctx, graph); err != nil {
		return nil, fmt.Errorf("cache flow graph: %w", err)
	}

	// 4. Health gate: старт целиком или никак
	if err := o.gate.Gate(ctx, graph.ProcessorIDs()); err != nil {
		return nil, err
	}

	// 5. Entry points
	entryPoints, err := engine.ValidateGraph(graph)
	if err != nil {
		return nil, err
	}

	// 6. Параллельный dispatch entry points
	eg, ectx := errgroup.WithContext(ctx)
	for _, stepID := range entryPoints {
		eg.Go(func() error {
			return o.dispatchEntryPoint(ectx, graph, stepID)
		})
	}
	if err := eg.Wait(); err != nil {
		// Частичный fan-out не считается успехом; записанные данные
		// других entry points остаются в кэше до TTL
		return nil, err
	}

	telemetry.OrchestrationsStarted.Inc()
	log.Info("orchestration started",
		"workflow_id", flow.WorkflowID,
		"steps", graph.StepCount(),
		"entry_points", len(entryPoints),
		"expires_at", graph.ExpiresAt,
	)

	return statusFromGraph(graph), nil
}

// dispatchEntryPoint запускает один entry point: минтит пару
// executionId/correlationId, записывает начальные данные в регион
// процессора и публикует execute-команду.
func (o *Orchestrator) dispatchEntryPoint(ctx context.Context, graph *domain.FlowGraph, stepID uuid.UUID) error {
	entity, ok := graph.StepEntities[stepID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrStepNotFound, stepID)
	}

	executionID := uuid.New()
	correlationID := uuid.New()

	key := cache.DataKey{
		OrchestratedFlowID: graph.OrchestratedFlowID,
		StepID:             stepID,
		ExecutionID:        executionID,
		CorrelationID:      correlationID,
	}

	if err := o.data.Set(ctx, entity.ProcessorID, key, graph.Payload); err != nil {
		return fmt.Errorf("write entry point payload for %s: %w", stepID, err)
	}

	if err := o.dispatcher.PublishExecuteStep(ctx, mq.ExecuteStepPayload{
		ProcessorID:        entity.ProcessorID,
		OrchestratedFlowID: graph.OrchestratedFlowID,
		StepID:             stepID,
		ExecutionID:        executionID,
		CorrelationID:      correlationID,
		Assignments:        graph.Assignments[stepID],
	}); err != nil {
		return fmt.Errorf("dispatch entry point %s: %w", stepID, err)
	}

	telemetry.StepsDispatched.Inc()
	log := telemetry.WithCorrelation(o.logger, executionID.String(), correlationID.String())
	log.Debug("entry point dispatched",
		"orchestrated_flow_id", graph.OrchestratedFlowID,
		"step_id", stepID,
		"processor_id", entity.ProcessorID,
	)

	return nil
}

// StopFlow останавливает оркестрацию: удаляет кэшированный граф.
//
// Уже отправленные команды не отзываются; последующие события завершения
// упадут на ErrOrchestrationNotFound при загрузке графа. Записи в кэше
// данных не выполнившихся шагов дочистит TTL. "Нечего останавливать" —
// не ошибка.
func (o *Orchestrator) StopFlow(ctx context.Context, flowID uuid.UUID) error {
	exists, err := o.graphs.ExistsAndValid(ctx, flowID)
	if err != nil {
		return fmt.Errorf("check orchestration: %w", err)
	}
	if !exists {
		o.logger.Debug("nothing to stop", "orchestrated_flow_id", flowID)
		return nil
	}

	if err := o.graphs.Delete(ctx, flowID); err != nil {
		return fmt.Errorf("delete flow graph: %w", err)
	}

	telemetry.OrchestrationsStopped.Inc()
	o.logger.Info("orchestration stopped", "orchestrated_flow_id", flowID)
	return nil
}

// FlowStatus возвращает состояние оркестрации. Только чтение;
// отсутствующий экземпляр — это isActive=false, а не ошибка.
func (o *Orchestrator) FlowStatus(ctx context.Context, flowID uuid.UUID) (*domain.OrchestrationStatus, error) {
	graph, err := o.graphs.Get(ctx, flowID)
	if errors.Is(err, cache.ErrNotFound) {
		return &domain.OrchestrationStatus{OrchestratedFlowID: flowID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get flow graph: %w", err)
	}

	return statusFromGraph(graph), nil
}

// statusFromGraph строит снимок состояния активной оркестрации.
func statusFromGraph(graph *domain.FlowGraph) *domain.OrchestrationStatus {
	startedAt := graph.CreatedAt
	expiresAt := graph.ExpiresAt
	return &domain.OrchestrationStatus{
		OrchestratedFlowID: graph.OrchestratedFlowID,
		IsActive:           true,
		StartedAt:          &startedAt,
		ExpiresAt:          &expiresAt,
		StepCount:          graph.StepCount(),
		AssignmentCount:    graph.AssignmentCount(),
	}
}
