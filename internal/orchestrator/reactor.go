package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/shaiso/Conveyor/internal/cache"
	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/mq"
	"github.com/shaiso/Conveyor/internal/telemetry"
)

// handleStepExecuted — обработчик событий завершения шага.
//
// Политика ошибок: nil на детерминированных отказах (оркестрация
// остановлена, шаг не найден в неизменяемом графе) — ack, повтор
// бесполезен; error на транзиентных (кэш, публикация) — nack и
// redelivery. Доставка at-least-once: повтор события породит повторный
// fan-out с дублирующими командами, процессоры обязаны это переживать.
func (o *Orchestrator) handleStepExecuted(ctx context.Context, msg *mq.Delivery) error {
	payload, err := mq.ParsePayload[mq.StepExecutedPayload](&msg.Message)
	if err != nil {
		o.logger.Error("malformed step.executed event", "error", err)
		return nil
	}

	err = o.processStepExecuted(ctx, payload)
	switch {
	case errors.Is(err, ErrOrchestrationNotFound):
		// Оркестрация остановлена или истекла между выполнением шага
		// и доставкой события. Событие гасим.
		o.logger.Info("completion event for inactive orchestration, dropping",
			"orchestrated_flow_id", payload.OrchestratedFlowID,
			"step_id", payload.StepID,
			"execution_id", payload.ExecutionID,
		)
		return nil
	case errors.Is(err, ErrStepNotFound):
		// Граф после старта неизменяем: повтор даст тот же отказ.
		o.logger.Error("completed step not present in flow graph",
			"orchestrated_flow_id", payload.OrchestratedFlowID,
			"step_id", payload.StepID,
		)
		return nil
	case err != nil:
		return err
	}

	telemetry.StepsCompleted.Inc()
	return nil
}

// processStepExecuted продвигает поток после завершения шага: загружает
// граф, находит завершившийся шаг и либо разветвляется на следующие
// шаги, либо завершает ветку.
func (o *Orchestrator) processStepExecuted(ctx context.Context, payload mq.StepExecutedPayload) error {
	graph, err := o.graphs.Get(ctx, payload.OrchestratedFlowID)
	if errors.Is(err, cache.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrOrchestrationNotFound, payload.OrchestratedFlowID)
	}
	if err != nil {
		return fmt.Errorf("get flow graph: %w", err)
	}

	entity, ok := graph.StepEntities[payload.StepID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrStepNotFound, payload.StepID)
	}

	key := cache.DataKey{
		OrchestratedFlowID: payload.OrchestratedFlowID,
		StepID:             payload.StepID,
		ExecutionID:        payload.ExecutionID,
		CorrelationID:      payload.CorrelationID,
	}

	// Ветка без продолжения завершается молча: результат удаляется,
	// событий не публикуется
	if len(entity.NextStepIDs) == 0 {
		if err := o.data.Delete(ctx, entity.ProcessorID, key); err != nil {
			return fmt.Errorf("delete terminal step data: %w", err)
		}
		telemetry.BranchesTerminated.Inc()
		o.logger.Debug("branch terminated",
			"orchestrated_flow_id", payload.OrchestratedFlowID,
			"step_id", payload.StepID,
			"execution_id", payload.ExecutionID,
		)
		return nil
	}

	// Источник читается один раз до разветвления: каждая ветка получает
	// собственную копию результата в своём регионе. Удаление источника
	// внутри веток съело бы данные у всех сиблингов, кроме первого.
	result, err := o.data.Get(ctx, entity.ProcessorID, key)
	hasResult := true
	if errors.Is(err, cache.ErrNotFound) {
		// Шаг не положил результат; следующие шаги стартуют без входных
		// данных
		hasResult = false
		o.logger.Warn("no data to move for completed step",
			"orchestrated_flow_id", payload.OrchestratedFlowID,
			"step_id", payload.StepID,
			"execution_id", payload.ExecutionID,
		)
	} else if err != nil {
		return fmt.Errorf("read step result: %w", err)
	}

	// Fan-out на все следующие шаги параллельно. Пара
	// executionId/correlationId наследуется без изменений.
	eg, ectx := errgroup.WithContext(ctx)
	for _, nextID := range entity.NextStepIDs {
		eg.Go(func() error {
			return o.fanOutStep(ectx, graph, key, nextID, result, hasResult)
		})
	}
	if err := eg.Wait(); err != nil {
		// Источник не удаляется: redelivery события повторит fan-out
		// с данными на месте. Уже записанные копии не откатываются.
		return err
	}

	// Move-семантика: после hand-off результат завершившегося шага
	// не должен быть читаем в его регионе
	if err := o.data.Delete(ctx, entity.ProcessorID, key); err != nil {
		return fmt.Errorf("delete moved step data: %w", err)
	}
	return nil
}

// fanOutStep вручает одной ветке копию результата завершившегося шага
// и публикует execute-команду. Ключ назначения — ключ источника с
// заменённым stepId.
func (o *Orchestrator) fanOutStep(ctx context.Context, graph *domain.FlowGraph, srcKey cache.DataKey, nextID uuid.UUID, result string, hasResult bool) error {
	next, ok := graph.StepEntities[nextID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrStepNotFound, nextID)
	}

	dstKey := srcKey
	dstKey.StepID = nextID

	if hasResult {
		if err := o.data.Set(ctx, next.ProcessorID, dstKey, result); err != nil {
			return fmt.Errorf("move step data to %s: %w", nextID, err)
		}
		telemetry.DataMoves.Inc()
	}

	if err := o.dispatcher.PublishExecuteStep(ctx, mq.ExecuteStepPayload{
		ProcessorID:        next.ProcessorID,
		OrchestratedFlowID: graph.OrchestratedFlowID,
		StepID:             nextID,
		ExecutionID:        srcKey.ExecutionID,
		CorrelationID:      srcKey.CorrelationID,
		Assignments:        graph.Assignments[nextID],
	}); err != nil {
		return fmt.Errorf("dispatch step %s: %w", nextID, err)
	}

	telemetry.StepsDispatched.Inc()
	o.logger.Debug("step dispatched",
		"orchestrated_flow_id", graph.OrchestratedFlowID,
		"step_id", nextID,
		"processor_id", next.ProcessorID,
		"execution_id", srcKey.ExecutionID,
		"correlation_id", srcKey.CorrelationID,
	)

	return nil
}

// handleStepFailed — обработчик событий отказа шага. Ветка на отказе
// обрывается: остаточные данные шага удаляются, продолжения нет,
// retry не предпринимается.
func (o *Orchestrator) handleStepFailed(ctx context.Context, msg *mq.Delivery) error {
	payload, err := mq.ParsePayload[mq.StepFailedPayload](&msg.Message)
	if err != nil {
		o.logger.Error("malformed step.failed event", "error", err)
		return nil
	}

	o.logger.Warn("step execution failed",
		"orchestrated_flow_id", payload.OrchestratedFlowID,
		"step_id", payload.StepID,
		"processor_id", payload.ProcessorID,
		"execution_id", payload.ExecutionID,
		"error", payload.Error,
	)

	key := cache.DataKey{
		OrchestratedFlowID: payload.OrchestratedFlowID,
		StepID:             payload.StepID,
		ExecutionID:        payload.ExecutionID,
		CorrelationID:      payload.CorrelationID,
	}
	if err := o.data.Delete(ctx, payload.ProcessorID, key); err != nil {
		return fmt.Errorf("delete failed step data: %w", err)
	}

	telemetry.StepsFailed.Inc()
	return nil
}
