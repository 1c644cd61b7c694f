package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/mq"
)

func executedDelivery(payload mq.StepExecutedPayload) *mq.Delivery {
	return &mq.Delivery{Message: mq.Message{
		ID:      uuid.NewString(),
		Type:    mq.MessageTypeStepExecuted,
		Payload: payload,
	}}
}

func failedDelivery(payload mq.StepFailedPayload) *mq.Delivery {
	return &mq.Delivery{Message: mq.Message{
		ID:      uuid.NewString(),
		Type:    mq.MessageTypeStepFailed,
		Payload: payload,
	}}
}

func executedPayload(flowID uuid.UUID, cmd mq.ExecuteStepPayload) mq.StepExecutedPayload {
	return mq.StepExecutedPayload{
		ProcessorID:        cmd.ProcessorID,
		OrchestratedFlowID: flowID,
		StepID:             cmd.StepID,
		ExecutionID:        cmd.ExecutionID,
		CorrelationID:      cmd.CorrelationID,
	}
}

func TestProcessStepExecuted_FanOut(t *testing.T) {
	env := newTestEnv()
	flowID := uuid.New()
	workflowID := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	procA, procB, procC := uuid.New(), uuid.New(), uuid.New()

	// A -> [B, C]
	env.defs.flows[flowID] = &domain.OrchestratedFlow{ID: flowID, WorkflowID: workflowID, Payload: "seed"}
	env.defs.steps[workflowID] = map[uuid.UUID]domain.StepEntity{
		a: {ProcessorID: procA, NextStepIDs: []uuid.UUID{b, c}},
		b: {ProcessorID: procB},
		c: {ProcessorID: procC},
	}

	if _, err := env.orc.StartFlow(context.Background(), flowID); err != nil {
		t.Fatalf("StartFlow() error = %v", err)
	}
	cmdA, ok := env.disp.forStep(a)
	if !ok {
		t.Fatal("entry point A not dispatched")
	}

	// Процессор A выполнил шаг: результат лежит под тем же ключом в его регионе
	keyA := dataKeyFromPayload(flowID, cmdA)
	if err := env.data.Set(context.Background(), procA, keyA, `{"result":"fromA"}`); err != nil {
		t.Fatal(err)
	}

	if err := env.orc.processStepExecuted(context.Background(), executedPayload(flowID, cmdA)); err != nil {
		t.Fatalf("processStepExecuted() error = %v", err)
	}

	// Каждая ветка отправлена с унаследованной парой идентификаторов
	// и собственной копией результата A в регионе своего процессора
	destinations := map[uuid.UUID]uuid.UUID{b: procB, c: procC}
	for nextID, proc := range destinations {
		cmd, ok := env.disp.forStep(nextID)
		if !ok {
			t.Fatalf("step %s not dispatched", nextID)
		}
		if cmd.ExecutionID != cmdA.ExecutionID {
			t.Errorf("step %s executionId = %s, want inherited %s", nextID, cmd.ExecutionID, cmdA.ExecutionID)
		}
		if cmd.CorrelationID != cmdA.CorrelationID {
			t.Errorf("step %s correlationId = %s, want inherited %s", nextID, cmd.CorrelationID, cmdA.CorrelationID)
		}

		got, ok := env.data.get(proc, dataKeyFromPayload(flowID, cmd))
		if !ok {
			t.Errorf("step %s region has no data, want copy of A's result", nextID)
		} else if got != `{"result":"fromA"}` {
			t.Errorf("step %s region data = %q, want A's result", nextID, got)
		}
	}

	// Источник удалён move-семантикой
	if _, ok := env.data.get(procA, keyA); ok {
		t.Error("source data survived move, want deleted")
	}
}

func TestProcessStepExecuted_BranchTermination(t *testing.T) {
	env := newTestEnv()
	flowID, steps, procs := env.seedLinearFlow("seed")

	if _, err := env.orc.StartFlow(context.Background(), flowID); err != nil {
		t.Fatalf("StartFlow() error = %v", err)
	}
	cmdA, _ := env.disp.forStep(steps[0])

	// Терминальный шаг C завершился: его данные надо удалить молча
	keyC := dataKeyFromPayload(flowID, cmdA)
	keyC.StepID = steps[2]
	if err := env.data.Set(context.Background(), procs[2], keyC, "final"); err != nil {
		t.Fatal(err)
	}

	payload := mq.StepExecutedPayload{
		ProcessorID:        procs[2],
		OrchestratedFlowID: flowID,
		StepID:             steps[2],
		ExecutionID:        cmdA.ExecutionID,
		CorrelationID:      cmdA.CorrelationID,
	}
	if err := env.orc.processStepExecuted(context.Background(), payload); err != nil {
		t.Fatalf("processStepExecuted() error = %v", err)
	}

	if _, ok := env.data.get(procs[2], keyC); ok {
		t.Error("terminal step data not cleaned up")
	}
	// Только изначальный dispatch entry point, продолжения нет
	if env.disp.count() != 1 {
		t.Errorf("dispatched %d commands, want 1 (no continuation after terminal step)", env.disp.count())
	}
}

// Полный прогон линейного потока A -> B -> C: от старта до завершения
// последней ветки, с проверкой переноса данных и стабильности
// идентификаторов на каждом переходе.
func TestOrchestration_LinearRoundTrip(t *testing.T) {
	env := newTestEnv()
	flowID, steps, procs := env.seedLinearFlow(`{"input":1}`)

	if _, err := env.orc.StartFlow(context.Background(), flowID); err != nil {
		t.Fatalf("StartFlow() error = %v", err)
	}

	cmd, _ := env.disp.forStep(steps[0])
	for i := 0; i < len(steps); i++ {
		// Процессор записывает результат под своим ключом
		key := dataKeyFromPayload(flowID, cmd)
		if err := env.data.Set(context.Background(), procs[i], key, "stage"); err != nil {
			t.Fatal(err)
		}
		if err := env.orc.processStepExecuted(context.Background(), executedPayload(flowID, cmd)); err != nil {
			t.Fatalf("step %d completion error = %v", i, err)
		}
		if i < len(steps)-1 {
			next, ok := env.disp.forStep(steps[i+1])
			if !ok {
				t.Fatalf("step %d not dispatched after step %d completed", i+1, i)
			}
			if next.ExecutionID != cmd.ExecutionID || next.CorrelationID != cmd.CorrelationID {
				t.Fatalf("identifiers changed on transition %d -> %d", i, i+1)
			}
			// Результат шага переехал в регион следующего процессора,
			// источник при этом исчез
			if got, ok := env.data.get(procs[i+1], dataKeyFromPayload(flowID, next)); !ok || got != "stage" {
				t.Fatalf("step %d region data = %q (present=%v), want moved %q", i+1, got, ok, "stage")
			}
			if _, ok := env.data.get(procs[i], key); ok {
				t.Fatalf("step %d source data survived hand-off, want deleted", i)
			}
			cmd = next
		}
	}

	// Все данные дочищены, оркестрация всё ещё активна
	if env.data.size() != 0 {
		t.Errorf("data cache has %d leftover entries, want 0", env.data.size())
	}
	status, err := env.orc.FlowStatus(context.Background(), flowID)
	if err != nil {
		t.Fatal(err)
	}
	if !status.IsActive {
		t.Error("orchestration inactive after branch completion, want active until explicit stop")
	}
}

func TestProcessStepExecuted_InactiveOrchestration(t *testing.T) {
	env := newTestEnv()

	payload := mq.StepExecutedPayload{
		OrchestratedFlowID: uuid.New(),
		StepID:             uuid.New(),
		ExecutionID:        uuid.New(),
		CorrelationID:      uuid.New(),
	}
	err := env.orc.processStepExecuted(context.Background(), payload)
	if !errors.Is(err, ErrOrchestrationNotFound) {
		t.Fatalf("processStepExecuted() error = %v, want ErrOrchestrationNotFound", err)
	}
}

func TestProcessStepExecuted_UnknownStep(t *testing.T) {
	env := newTestEnv()
	flowID, _, _ := env.seedLinearFlow("seed")

	if _, err := env.orc.StartFlow(context.Background(), flowID); err != nil {
		t.Fatalf("StartFlow() error = %v", err)
	}

	payload := mq.StepExecutedPayload{
		OrchestratedFlowID: flowID,
		StepID:             uuid.New(),
		ExecutionID:        uuid.New(),
		CorrelationID:      uuid.New(),
	}
	err := env.orc.processStepExecuted(context.Background(), payload)
	if !errors.Is(err, ErrStepNotFound) {
		t.Fatalf("processStepExecuted() error = %v, want ErrStepNotFound", err)
	}
}

func TestProcessStepExecuted_MissingSourceStillDispatches(t *testing.T) {
	env := newTestEnv()
	flowID, steps, _ := env.seedLinearFlow("seed")

	if _, err := env.orc.StartFlow(context.Background(), flowID); err != nil {
		t.Fatalf("StartFlow() error = %v", err)
	}
	cmdA, _ := env.disp.forStep(steps[0])

	// Забираем данные entry point: источник для move окажется пустым
	keyA := dataKeyFromPayload(flowID, cmdA)
	if err := env.data.Delete(context.Background(), cmdA.ProcessorID, keyA); err != nil {
		t.Fatal(err)
	}

	if err := env.orc.processStepExecuted(context.Background(), executedPayload(flowID, cmdA)); err != nil {
		t.Fatalf("processStepExecuted() error = %v", err)
	}

	// Следующий шаг всё равно отправлен, но без данных
	if _, ok := env.disp.forStep(steps[1]); !ok {
		t.Fatal("next step not dispatched when source data missing")
	}
	if env.data.size() != 0 {
		t.Errorf("data cache has %d entries, want 0", env.data.size())
	}
}

func TestProcessStepExecuted_TransientReadError(t *testing.T) {
	env := newTestEnv()
	flowID, steps, _ := env.seedLinearFlow("seed")

	if _, err := env.orc.StartFlow(context.Background(), flowID); err != nil {
		t.Fatalf("StartFlow() error = %v", err)
	}
	cmdA, _ := env.disp.forStep(steps[0])

	// Чтение результата падает: событие должно уйти в redelivery,
	// продолжение не отправляется
	env.data.readErr = errors.New("redis: connection refused")
	if err := env.orc.processStepExecuted(context.Background(), executedPayload(flowID, cmdA)); err == nil {
		t.Fatal("processStepExecuted() error = nil, want transient error for redelivery")
	}
	if _, ok := env.disp.forStep(steps[1]); ok {
		t.Error("next step dispatched despite failed result read")
	}
}

func TestHandleStepFailed_CleansResidualData(t *testing.T) {
	env := newTestEnv()
	flowID, steps, procs := env.seedLinearFlow("seed")

	if _, err := env.orc.StartFlow(context.Background(), flowID); err != nil {
		t.Fatalf("StartFlow() error = %v", err)
	}
	cmdA, _ := env.disp.forStep(steps[0])
	keyA := dataKeyFromPayload(flowID, cmdA)

	msg := failedDelivery(mq.StepFailedPayload{
		ProcessorID:        procs[0],
		OrchestratedFlowID: flowID,
		StepID:             steps[0],
		ExecutionID:        cmdA.ExecutionID,
		CorrelationID:      cmdA.CorrelationID,
		Error:              "boom",
	})
	if err := env.orc.handleStepFailed(context.Background(), msg); err != nil {
		t.Fatalf("handleStepFailed() error = %v", err)
	}

	// Остаточные данные удалены, продолжения нет
	if _, ok := env.data.get(procs[0], keyA); ok {
		t.Error("residual data survived step failure")
	}
	if env.disp.count() != 1 {
		t.Errorf("dispatched %d commands, want 1 (no continuation after failure)", env.disp.count())
	}
}

func TestHandleStepExecuted_DropsInactive(t *testing.T) {
	env := newTestEnv()

	msg := executedDelivery(mq.StepExecutedPayload{
		OrchestratedFlowID: uuid.New(),
		StepID:             uuid.New(),
		ExecutionID:        uuid.New(),
		CorrelationID:      uuid.New(),
	})
	// nil означает ack: событие для остановленной оркестрации гасится
	if err := env.orc.handleStepExecuted(context.Background(), msg); err != nil {
		t.Fatalf("handleStepExecuted() error = %v, want nil (ack)", err)
	}
}

func TestHandleStepExecuted_TransientCacheError(t *testing.T) {
	env := newTestEnv()
	env.graph.getErr = errors.New("redis: connection refused")

	msg := executedDelivery(mq.StepExecutedPayload{
		OrchestratedFlowID: uuid.New(),
		StepID:             uuid.New(),
		ExecutionID:        uuid.New(),
		CorrelationID:      uuid.New(),
	})
	// Транзиентная ошибка должна уйти в nack/redelivery
	if err := env.orc.handleStepExecuted(context.Background(), msg); err == nil {
		t.Fatal("handleStepExecuted() error = nil, want transient error for redelivery")
	}
}
