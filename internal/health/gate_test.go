package health

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
)

// fakeStore — RecordStore в памяти.
type fakeStore struct {
	records map[uuid.UUID]*domain.HealthRecord
	errs    map[uuid.UUID]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: make(map[uuid.UUID]*domain.HealthRecord),
		errs:    make(map[uuid.UUID]error),
	}
}

func (s *fakeStore) Get(_ context.Context, processorID uuid.UUID) (*domain.HealthRecord, error) {
	if err, ok := s.errs[processorID]; ok {
		return nil, err
	}
	record, ok := s.records[processorID]
	if !ok {
		return nil, errors.New("cache entry not found")
	}
	return record, nil
}

func (s *fakeStore) put(processorID uuid.UUID, status domain.HealthStatus, ttl time.Duration) {
	now := time.Now()
	s.records[processorID] = &domain.HealthRecord{
		ProcessorID: processorID,
		Status:      status,
		LastUpdated: now,
		ExpiresAt:   now.Add(ttl),
	}
}

func testGate(store RecordStore) *Gate {
	return NewGate(store, slog.Default())
}

func TestGate_AllHealthy(t *testing.T) {
	store := newFakeStore()
	p1, p2 := uuid.New(), uuid.New()
	store.put(p1, domain.HealthStatusHealthy, time.Minute)
	store.put(p2, domain.HealthStatusHealthy, time.Minute)

	if err := testGate(store).Gate(context.Background(), []uuid.UUID{p1, p2}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGate_OneUnhealthyFailsWhole(t *testing.T) {
	store := newFakeStore()
	p1, p2 := uuid.New(), uuid.New()
	store.put(p1, domain.HealthStatusHealthy, time.Minute)
	store.put(p2, domain.HealthStatusUnhealthy, time.Minute)

	err := testGate(store).Gate(context.Background(), []uuid.UUID{p1, p2})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrProcessorsUnhealthy) {
		t.Errorf("expected ErrProcessorsUnhealthy, got %v", err)
	}

	// Ошибка должна называть нарушителя
	var unhealthyErr *UnhealthyProcessorsError
	if !errors.As(err, &unhealthyErr) {
		t.Fatalf("expected UnhealthyProcessorsError, got %T", err)
	}
	if len(unhealthyErr.Processors) != 1 || unhealthyErr.Processors[0].ProcessorID != p2 {
		t.Errorf("expected offender %s, got %v", p2, unhealthyErr.Processors)
	}
}

func TestGate_ListsEveryOffender(t *testing.T) {
	store := newFakeStore()
	p1, p2, p3 := uuid.New(), uuid.New(), uuid.New()
	store.put(p1, domain.HealthStatusDegraded, time.Minute)
	// p2 — записи нет вовсе
	store.put(p3, domain.HealthStatusUnhealthy, time.Minute)

	err := testGate(store).Gate(context.Background(), []uuid.UUID{p1, p2, p3})

	var unhealthyErr *UnhealthyProcessorsError
	if !errors.As(err, &unhealthyErr) {
		t.Fatalf("expected UnhealthyProcessorsError, got %v", err)
	}
	if len(unhealthyErr.Processors) != 3 {
		t.Errorf("expected 3 offenders, got %d", len(unhealthyErr.Processors))
	}
}

func TestCheckProcessor_ExpiredRecord(t *testing.T) {
	store := newFakeStore()
	p1 := uuid.New()
	store.put(p1, domain.HealthStatusHealthy, -time.Minute)

	check := testGate(store).CheckProcessor(context.Background(), p1)

	if check.Healthy {
		t.Error("expired record must classify as unhealthy")
	}
	if !strings.Contains(check.Reason, "expired") {
		t.Errorf("reason should mention expiry, got %q", check.Reason)
	}
}

func TestCheckProcessor_MissingRecord(t *testing.T) {
	store := newFakeStore()
	p1 := uuid.New()

	check := testGate(store).CheckProcessor(context.Background(), p1)

	if check.Healthy {
		t.Error("missing record must classify as unhealthy")
	}
}

func TestCheckProcessor_DegradedIsUnhealthy(t *testing.T) {
	store := newFakeStore()
	p1 := uuid.New()
	store.put(p1, domain.HealthStatusDegraded, time.Minute)

	check := testGate(store).CheckProcessor(context.Background(), p1)

	if check.Healthy {
		t.Error("degraded processor must not pass the gate")
	}
	if !strings.Contains(check.Reason, string(domain.HealthStatusDegraded)) {
		t.Errorf("reason should mention status, got %q", check.Reason)
	}
}
