package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/engine"
	"github.com/shaiso/Conveyor/internal/health"
)

type testEnv struct {
	orc   *Orchestrator
	defs  *fakeDefinitions
	graph *fakeGraphCache
	data  *fakeDataCache
	gate  *fakeGate
	disp  *fakeDispatcher
}

func newTestEnv() *testEnv {
	env := &testEnv{
		defs:  newFakeDefinitions(),
		graph: newFakeGraphCache(),
		data:  newFakeDataCache(),
		gate:  &fakeGate{},
		disp:  &fakeDispatcher{},
	}
	env.orc = New(Config{
		Definitions: env.defs,
		Graphs:      env.graph,
		Data:        env.data,
		Gate:        env.gate,
		Dispatcher:  env.disp,
		Logger:      slog.New(slog.DiscardHandler),
	})
	return env
}

// seedLinearFlow регистрирует поток с графом A -> B -> C и возвращает
// (flowID, []stepID, []processorID).
func (env *testEnv) seedLinearFlow(payload string) (uuid.UUID, []uuid.UUID, []uuid.UUID) {
	flowID := uuid.New()
	workflowID := uuid.New()
	steps := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	procs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	env.defs.flows[flowID] = &domain.OrchestratedFlow{
		ID:         flowID,
		Name:       "linear",
		WorkflowID: workflowID,
		Payload:    payload,
		IsActive:   true,
	}
	env.defs.steps[workflowID] = map[uuid.UUID]domain.StepEntity{
		steps[0]: {ProcessorID: procs[0], NextStepIDs: []uuid.UUID{steps[1]}},
		steps[1]: {ProcessorID: procs[1], NextStepIDs: []uuid.UUID{steps[2]}},
		steps[2]: {ProcessorID: procs[2]},
	}
	return flowID, steps, procs
}

func TestStartFlow(t *testing.T) {
	env := newTestEnv()
	flowID, steps, procs := env.seedLinearFlow(`{"order":42}`)

	status, err := env.orc.StartFlow(context.Background(), flowID)
	if err != nil {
		t.Fatalf("StartFlow() error = %v", err)
	}

	if !status.IsActive {
		t.Error("status.IsActive = false, want true")
	}
	if status.OrchestratedFlowID != flowID {
		t.Errorf("status.OrchestratedFlowID = %s, want %s", status.OrchestratedFlowID, flowID)
	}
	if status.StepCount != 3 {
		t.Errorf("status.StepCount = %d, want 3", status.StepCount)
	}
	if status.StartedAt == nil || status.ExpiresAt == nil {
		t.Fatal("StartedAt/ExpiresAt not set for active orchestration")
	}

	// Граф закэширован
	if _, err := env.graph.Get(context.Background(), flowID); err != nil {
		t.Fatalf("graph not cached: %v", err)
	}

	// Health gate получил все процессоры графа
	if len(env.gate.calls) != 1 {
		t.Fatalf("gate called %d times, want 1", len(env.gate.calls))
	}
	if len(env.gate.calls[0]) != 3 {
		t.Errorf("gate received %d processors, want 3", len(env.gate.calls[0]))
	}

	// Единственный entry point A отправлен
	if env.disp.count() != 1 {
		t.Fatalf("dispatched %d commands, want 1", env.disp.count())
	}
	cmd, ok := env.disp.forStep(steps[0])
	if !ok {
		t.Fatal("entry point A not dispatched")
	}
	if cmd.ProcessorID != procs[0] {
		t.Errorf("cmd.ProcessorID = %s, want %s", cmd.ProcessorID, procs[0])
	}
	if cmd.ExecutionID == uuid.Nil || cmd.CorrelationID == uuid.Nil {
		t.Error("executionId/correlationId not minted")
	}

	// Начальные данные лежат в регионе процессора A под полным ключом
	key := dataKeyFromPayload(flowID, cmd)
	got, ok := env.data.get(procs[0], key)
	if !ok {
		t.Fatal("initial payload not written to processor region")
	}
	if got != `{"order":42}` {
		t.Errorf("payload = %q, want %q", got, `{"order":42}`)
	}
}

func TestStartFlow_Idempotent(t *testing.T) {
	env := newTestEnv()
	flowID, _, _ := env.seedLinearFlow("payload")

	first, err := env.orc.StartFlow(context.Background(), flowID)
	if err != nil {
		t.Fatalf("first StartFlow() error = %v", err)
	}

	second, err := env.orc.StartFlow(context.Background(), flowID)
	if err != nil {
		t.Fatalf("second StartFlow() error = %v", err)
	}

	if env.disp.count() != 1 {
		t.Errorf("dispatched %d commands after double start, want 1", env.disp.count())
	}
	if !second.StartedAt.Equal(*first.StartedAt) {
		t.Error("second start changed StartedAt")
	}
}

func TestStartFlow_FlowNotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.orc.StartFlow(context.Background(), uuid.New())
	if !errors.Is(err, ErrFlowNotFound) {
		t.Fatalf("StartFlow() error = %v, want ErrFlowNotFound", err)
	}
	if env.disp.count() != 0 {
		t.Error("dispatched commands for unknown flow")
	}
}

func TestStartFlow_UnhealthyGateBlocksDispatch(t *testing.T) {
	env := newTestEnv()
	flowID, _, procs := env.seedLinearFlow("payload")
	env.gate.err = &health.UnhealthyProcessorsError{
		Processors: []health.UnhealthyProcessor{
			{ProcessorID: procs[1], Reason: "expired health record"},
		},
	}

	_, err := env.orc.StartFlow(context.Background(), flowID)
	if !errors.Is(err, health.ErrProcessorsUnhealthy) {
		t.Fatalf("StartFlow() error = %v, want ErrProcessorsUnhealthy", err)
	}

	// Ни одной команды и ни одной записи данных
	if env.disp.count() != 0 {
		t.Errorf("dispatched %d commands despite unhealthy gate, want 0", env.disp.count())
	}
	if env.data.size() != 0 {
		t.Errorf("wrote %d data entries despite unhealthy gate, want 0", env.data.size())
	}

	// Граф остаётся в кэше: для рестарта нужен явный Stop
	exists, _ := env.graph.ExistsAndValid(context.Background(), flowID)
	if !exists {
		t.Error("graph evicted after failed gate, want kept")
	}
}

func TestStartFlow_CyclicGraphRejected(t *testing.T) {
	env := newTestEnv()
	flowID := uuid.New()
	workflowID := uuid.New()
	a, b := uuid.New(), uuid.New()
	proc := uuid.New()

	env.defs.flows[flowID] = &domain.OrchestratedFlow{ID: flowID, WorkflowID: workflowID}
	env.defs.steps[workflowID] = map[uuid.UUID]domain.StepEntity{
		a: {ProcessorID: proc, NextStepIDs: []uuid.UUID{b}},
		b: {ProcessorID: proc, NextStepIDs: []uuid.UUID{a}},
	}

	_, err := env.orc.StartFlow(context.Background(), flowID)
	if !errors.Is(err, engine.ErrGraphInvalid) {
		t.Fatalf("StartFlow() error = %v, want ErrGraphInvalid", err)
	}
	if env.disp.count() != 0 {
		t.Error("dispatched commands for invalid graph")
	}
}

func TestStartFlow_MultipleEntryPoints(t *testing.T) {
	env := newTestEnv()
	flowID := uuid.New()
	workflowID := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	proc := uuid.New()

	// A и B — независимые entry points, оба ведут в C
	env.defs.flows[flowID] = &domain.OrchestratedFlow{ID: flowID, WorkflowID: workflowID, Payload: "seed"}
	env.defs.steps[workflowID] = map[uuid.UUID]domain.StepEntity{
		a: {ProcessorID: proc, NextStepIDs: []uuid.UUID{c}},
		b: {ProcessorID: proc, NextStepIDs: []uuid.UUID{c}},
		c: {ProcessorID: proc},
	}

	if _, err := env.orc.StartFlow(context.Background(), flowID); err != nil {
		t.Fatalf("StartFlow() error = %v", err)
	}

	if env.disp.count() != 2 {
		t.Fatalf("dispatched %d commands, want 2", env.disp.count())
	}

	// У каждого entry point своя пара executionId/correlationId
	cmdA, _ := env.disp.forStep(a)
	cmdB, _ := env.disp.forStep(b)
	if cmdA.ExecutionID == cmdB.ExecutionID {
		t.Error("entry points share executionId, want distinct")
	}
	if cmdA.CorrelationID == cmdB.CorrelationID {
		t.Error("entry points share correlationId, want distinct")
	}
}

func TestStopFlow(t *testing.T) {
	env := newTestEnv()
	flowID, _, _ := env.seedLinearFlow("payload")

	if _, err := env.orc.StartFlow(context.Background(), flowID); err != nil {
		t.Fatalf("StartFlow() error = %v", err)
	}

	if err := env.orc.StopFlow(context.Background(), flowID); err != nil {
		t.Fatalf("StopFlow() error = %v", err)
	}

	status, err := env.orc.FlowStatus(context.Background(), flowID)
	if err != nil {
		t.Fatalf("FlowStatus() error = %v", err)
	}
	if status.IsActive {
		t.Error("orchestration still active after stop")
	}
}

func TestStopFlow_NothingToStop(t *testing.T) {
	env := newTestEnv()

	// Stop без активной оркестрации — не ошибка
	if err := env.orc.StopFlow(context.Background(), uuid.New()); err != nil {
		t.Fatalf("StopFlow() error = %v, want nil", err)
	}
}

func TestFlowStatus_Inactive(t *testing.T) {
	env := newTestEnv()
	flowID := uuid.New()

	status, err := env.orc.FlowStatus(context.Background(), flowID)
	if err != nil {
		t.Fatalf("FlowStatus() error = %v", err)
	}
	if status.IsActive {
		t.Error("status.IsActive = true for unknown orchestration")
	}
	if status.OrchestratedFlowID != flowID {
		t.Errorf("status.OrchestratedFlowID = %s, want %s", status.OrchestratedFlowID, flowID)
	}
	if status.StartedAt != nil {
		t.Error("StartedAt set for inactive orchestration")
	}
}
