package processor

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/cache"
	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/mq"
)

type fakeData struct {
	mu      sync.Mutex
	entries map[string]string
	getErr  error
}

func newFakeData() *fakeData {
	return &fakeData{entries: make(map[string]string)}
}

func (f *fakeData) key(processorID uuid.UUID, key cache.DataKey) string {
	return processorID.String() + "/" + key.String()
}

func (f *fakeData) Get(_ context.Context, processorID uuid.UUID, key cache.DataKey) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.entries[f.key(processorID, key)]
	if !ok {
		return "", cache.ErrNotFound
	}
	return payload, nil
}

func (f *fakeData) Set(_ context.Context, processorID uuid.UUID, key cache.DataKey, payload string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[f.key(processorID, key)] = payload
	return nil
}

type fakePublisher struct {
	executed []mq.StepExecutedPayload
	failed   []mq.StepFailedPayload
}

func (f *fakePublisher) PublishStepExecuted(_ context.Context, payload mq.StepExecutedPayload) error {
	f.executed = append(f.executed, payload)
	return nil
}

func (f *fakePublisher) PublishStepFailed(_ context.Context, payload mq.StepFailedPayload) error {
	f.failed = append(f.failed, payload)
	return nil
}

func executeDelivery(payload mq.ExecuteStepPayload) *mq.Delivery {
	return &mq.Delivery{Message: mq.Message{
		ID:      uuid.NewString(),
		Type:    mq.MessageTypeExecuteStep,
		Payload: payload,
	}}
}

func newTestRuntime(data *fakeData, pub *fakePublisher, processorID uuid.UUID) *Runtime {
	return New(Config{
		ProcessorID: processorID,
		HandlerName: "uppercase",
		Data:        data,
		Publisher:   pub,
		Logger:      slog.New(slog.DiscardHandler),
	})
}

func TestHandleExecuteStep(t *testing.T) {
	processorID := uuid.New()
	data := newFakeData()
	pub := &fakePublisher{}
	rt := newTestRuntime(data, pub, processorID)

	payload := mq.ExecuteStepPayload{
		ProcessorID:        processorID,
		OrchestratedFlowID: uuid.New(),
		StepID:             uuid.New(),
		ExecutionID:        uuid.New(),
		CorrelationID:      uuid.New(),
	}
	key := cache.DataKey{
		OrchestratedFlowID: payload.OrchestratedFlowID,
		StepID:             payload.StepID,
		ExecutionID:        payload.ExecutionID,
		CorrelationID:      payload.CorrelationID,
	}
	if err := data.Set(context.Background(), processorID, key, "hello"); err != nil {
		t.Fatal(err)
	}

	if err := rt.handleExecuteStep(context.Background(), executeDelivery(payload)); err != nil {
		t.Fatalf("handleExecuteStep() error = %v", err)
	}

	// Результат записан под тем же ключом в том же регионе
	output, err := data.Get(context.Background(), processorID, key)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if output != "HELLO" {
		t.Errorf("output = %q, want %q", output, "HELLO")
	}

	// Событие несёт идентификаторы команды без изменений
	if len(pub.executed) != 1 {
		t.Fatalf("published %d step.executed events, want 1", len(pub.executed))
	}
	evt := pub.executed[0]
	if evt.ExecutionID != payload.ExecutionID || evt.CorrelationID != payload.CorrelationID {
		t.Error("event identifiers differ from command identifiers")
	}
	if evt.ProcessorID != processorID {
		t.Errorf("evt.ProcessorID = %s, want %s", evt.ProcessorID, processorID)
	}
	if len(pub.failed) != 0 {
		t.Errorf("published %d step.failed events, want 0", len(pub.failed))
	}
}

func TestHandleExecuteStep_MissingInput(t *testing.T) {
	processorID := uuid.New()
	data := newFakeData()
	pub := &fakePublisher{}
	rt := newTestRuntime(data, pub, processorID)

	payload := mq.ExecuteStepPayload{
		ProcessorID:        processorID,
		OrchestratedFlowID: uuid.New(),
		StepID:             uuid.New(),
		ExecutionID:        uuid.New(),
		CorrelationID:      uuid.New(),
	}

	// Входных данных нет: шаг выполняется с пустым входом, не падает
	if err := rt.handleExecuteStep(context.Background(), executeDelivery(payload)); err != nil {
		t.Fatalf("handleExecuteStep() error = %v", err)
	}
	if len(pub.executed) != 1 {
		t.Fatalf("published %d step.executed events, want 1", len(pub.executed))
	}
}

func TestHandleExecuteStep_HandlerFailure(t *testing.T) {
	processorID := uuid.New()
	data := newFakeData()
	pub := &fakePublisher{}

	registry := NewRegistry()
	registry.Register("boom", func(_ context.Context, _ Execution) (string, error) {
		return "", errors.New("handler exploded")
	})

	rt := New(Config{
		ProcessorID: processorID,
		HandlerName: "boom",
		Data:        data,
		Publisher:   pub,
		Registry:    registry,
		Logger:      slog.New(slog.DiscardHandler),
	})

	payload := mq.ExecuteStepPayload{
		ProcessorID:        processorID,
		OrchestratedFlowID: uuid.New(),
		StepID:             uuid.New(),
		ExecutionID:        uuid.New(),
		CorrelationID:      uuid.New(),
	}

	// Отказ handler-а — это step.failed с ack, не nack
	if err := rt.handleExecuteStep(context.Background(), executeDelivery(payload)); err != nil {
		t.Fatalf("handleExecuteStep() error = %v, want nil (failure reported via event)", err)
	}
	if len(pub.failed) != 1 {
		t.Fatalf("published %d step.failed events, want 1", len(pub.failed))
	}
	if !strings.Contains(pub.failed[0].Error, "handler exploded") {
		t.Errorf("failed event error = %q, want handler error text", pub.failed[0].Error)
	}
	if len(pub.executed) != 0 {
		t.Errorf("published %d step.executed events, want 0", len(pub.executed))
	}
}

func TestHandleExecuteStep_AssignmentOverridesHandler(t *testing.T) {
	processorID := uuid.New()
	data := newFakeData()
	pub := &fakePublisher{}
	rt := newTestRuntime(data, pub, processorID) // default: uppercase

	payload := mq.ExecuteStepPayload{
		ProcessorID:        processorID,
		OrchestratedFlowID: uuid.New(),
		StepID:             uuid.New(),
		ExecutionID:        uuid.New(),
		CorrelationID:      uuid.New(),
		Assignments: []domain.Assignment{
			{Name: "handler", Value: "passthrough"},
		},
	}
	key := cache.DataKey{
		OrchestratedFlowID: payload.OrchestratedFlowID,
		StepID:             payload.StepID,
		ExecutionID:        payload.ExecutionID,
		CorrelationID:      payload.CorrelationID,
	}
	if err := data.Set(context.Background(), processorID, key, "hello"); err != nil {
		t.Fatal(err)
	}

	if err := rt.handleExecuteStep(context.Background(), executeDelivery(payload)); err != nil {
		t.Fatalf("handleExecuteStep() error = %v", err)
	}

	output, _ := data.Get(context.Background(), processorID, key)
	if output != "hello" {
		t.Errorf("output = %q, want passthrough %q", output, "hello")
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	for _, name := range []string{"passthrough", "uppercase", "annotate"} {
		if _, err := r.Get(name); err != nil {
			t.Errorf("Get(%q) error = %v", name, err)
		}
	}

	if _, err := r.Get("unknown"); !errors.Is(err, ErrHandlerNotFound) {
		t.Errorf("Get(unknown) error = %v, want ErrHandlerNotFound", err)
	}

	names := r.Names()
	if len(names) != 3 {
		t.Errorf("Names() = %v, want 3 entries", names)
	}
}

func TestAnnotate(t *testing.T) {
	exec := Execution{
		StepID:      uuid.New(),
		ExecutionID: uuid.New(),
		Input:       "data",
		Assignments: []domain.Assignment{{Name: "label", Value: "stage-1"}},
	}

	out, err := Annotate(context.Background(), exec)
	if err != nil {
		t.Fatalf("Annotate() error = %v", err)
	}
	if !strings.Contains(out, `"label":"stage-1"`) {
		t.Errorf("Annotate() = %q, missing label", out)
	}
	if !strings.Contains(out, `"payload":"data"`) {
		t.Errorf("Annotate() = %q, missing payload", out)
	}
}
