package orchestrator

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/cache"
	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/mq"
	"github.com/shaiso/Conveyor/internal/repo"
)

// In-memory фейки коллабораторов Orchestrator.

// dataKeyFromPayload восстанавливает ключ кэша данных из отправленной
// execute-команды.
func dataKeyFromPayload(flowID uuid.UUID, cmd mq.ExecuteStepPayload) cache.DataKey {
	return cache.DataKey{
		OrchestratedFlowID: flowID,
		StepID:             cmd.StepID,
		ExecutionID:        cmd.ExecutionID,
		CorrelationID:      cmd.CorrelationID,
	}
}

type fakeGraphCache struct {
	mu     sync.Mutex
	graphs map[uuid.UUID]*domain.FlowGraph
	putErr error
	getErr error
}

func newFakeGraphCache() *fakeGraphCache {
	return &fakeGraphCache{graphs: make(map[uuid.UUID]*domain.FlowGraph)}
}

func (f *fakeGraphCache) Put(_ context.Context, graph *domain.FlowGraph) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.graphs[graph.OrchestratedFlowID] = graph
	return nil
}

func (f *fakeGraphCache) Get(_ context.Context, flowID uuid.UUID) (*domain.FlowGraph, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	graph, ok := f.graphs[flowID]
	if !ok {
		return nil, cache.ErrNotFound
	}
	return graph, nil
}

func (f *fakeGraphCache) Delete(_ context.Context, flowID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.graphs, flowID)
	return nil
}

func (f *fakeGraphCache) ExistsAndValid(ctx context.Context, flowID uuid.UUID) (bool, error) {
	_, err := f.Get(ctx, flowID)
	if err == cache.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type fakeDataCache struct {
	mu      sync.Mutex
	entries map[string]string // "<processorID>/<key>" -> payload
	setErr  error
	readErr error
}

func newFakeDataCache() *fakeDataCache {
	return &fakeDataCache{entries: make(map[string]string)}
}

func dataEntryKey(processorID uuid.UUID, key cache.DataKey) string {
	return processorID.String() + "/" + key.String()
}

func (f *fakeDataCache) Set(_ context.Context, processorID uuid.UUID, key cache.DataKey, payload string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[dataEntryKey(processorID, key)] = payload
	return nil
}

func (f *fakeDataCache) Delete(_ context.Context, processorID uuid.UUID, key cache.DataKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, dataEntryKey(processorID, key))
	return nil
}

func (f *fakeDataCache) Get(_ context.Context, processorID uuid.UUID, key cache.DataKey) (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.entries[dataEntryKey(processorID, key)]
	if !ok {
		return "", cache.ErrNotFound
	}
	return payload, nil
}

func (f *fakeDataCache) get(processorID uuid.UUID, key cache.DataKey) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.entries[dataEntryKey(processorID, key)]
	return payload, ok
}

func (f *fakeDataCache) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

type fakeGate struct {
	err   error
	calls [][]uuid.UUID
}

func (f *fakeGate) Gate(_ context.Context, processorIDs []uuid.UUID) error {
	f.calls = append(f.calls, processorIDs)
	return f.err
}

type fakeDispatcher struct {
	mu         sync.Mutex
	published  []mq.ExecuteStepPayload
	publishErr error
}

func (f *fakeDispatcher) PublishExecuteStep(_ context.Context, payload mq.ExecuteStepPayload) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, payload)
	return nil
}

func (f *fakeDispatcher) forStep(stepID uuid.UUID) (mq.ExecuteStepPayload, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.published {
		if p.StepID == stepID {
			return p, true
		}
	}
	return mq.ExecuteStepPayload{}, false
}

func (f *fakeDispatcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}

type fakeDefinitions struct {
	flows       map[uuid.UUID]*domain.OrchestratedFlow
	steps       map[uuid.UUID]map[uuid.UUID]domain.StepEntity // workflowID -> graph
	assignments map[uuid.UUID][]domain.Assignment             // stepID -> assignments
	flowErr     error
}

func newFakeDefinitions() *fakeDefinitions {
	return &fakeDefinitions{
		flows:       make(map[uuid.UUID]*domain.OrchestratedFlow),
		steps:       make(map[uuid.UUID]map[uuid.UUID]domain.StepEntity),
		assignments: make(map[uuid.UUID][]domain.Assignment),
	}
}

func (f *fakeDefinitions) GetFlow(_ context.Context, id uuid.UUID) (*domain.OrchestratedFlow, error) {
	if f.flowErr != nil {
		return nil, f.flowErr
	}
	flow, ok := f.flows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return flow, nil
}

func (f *fakeDefinitions) GetStepGraph(_ context.Context, workflowID uuid.UUID) (map[uuid.UUID]domain.StepEntity, error) {
	return f.steps[workflowID], nil
}

func (f *fakeDefinitions) GetAssignments(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]domain.Assignment, error) {
	result := make(map[uuid.UUID][]domain.Assignment)
	for stepID, list := range f.assignments {
		result[stepID] = list
	}
	_ = ids
	return result, nil
}
