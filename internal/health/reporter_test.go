package health

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
)

// fakeWriter — RecordWriter в памяти, сигналит о каждой записи.
type fakeWriter struct {
	mu      sync.Mutex
	records []*domain.HealthRecord
	written chan struct{}
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{written: make(chan struct{}, 16)}
}

func (w *fakeWriter) Put(_ context.Context, record *domain.HealthRecord) error {
	w.mu.Lock()
	w.records = append(w.records, record)
	w.mu.Unlock()
	w.written <- struct{}{}
	return nil
}

func (w *fakeWriter) last(t *testing.T) *domain.HealthRecord {
	t.Helper()
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.records) == 0 {
		t.Fatal("no health records published")
	}
	return w.records[len(w.records)-1]
}

func TestReporter_PublishesCurrentStatus(t *testing.T) {
	writer := newFakeWriter()
	processorID := uuid.New()
	r := NewReporter(ReporterConfig{
		Store:       writer,
		ProcessorID: processorID,
		RecordTTL:   time.Minute,
		Logger:      slog.New(slog.DiscardHandler),
	})

	r.report(context.Background())

	record := writer.last(t)
	if record.ProcessorID != processorID {
		t.Errorf("processor id = %s, want %s", record.ProcessorID, processorID)
	}
	if record.Status != domain.HealthStatusHealthy {
		t.Errorf("status = %s, want %s", record.Status, domain.HealthStatusHealthy)
	}
	if !record.ExpiresAt.Equal(record.LastUpdated.Add(time.Minute)) {
		t.Errorf("expires_at = %s, want last_updated + 1m", record.ExpiresAt)
	}

	r.SetStatus(domain.HealthStatusDegraded)
	if got := r.Status(); got != domain.HealthStatusDegraded {
		t.Fatalf("status after SetStatus = %s, want %s", got, domain.HealthStatusDegraded)
	}

	r.report(context.Background())
	if record := writer.last(t); record.Status != domain.HealthStatusDegraded {
		t.Errorf("published status = %s, want %s", record.Status, domain.HealthStatusDegraded)
	}
}

func TestReporter_StartPublishesImmediately(t *testing.T) {
	writer := newFakeWriter()
	r := NewReporter(ReporterConfig{
		Store:       writer,
		ProcessorID: uuid.New(),
		Interval:    time.Hour, // только немедленная публикация
		Logger:      slog.New(slog.DiscardHandler),
	})

	r.Start(context.Background())
	defer r.Stop()

	select {
	case <-writer.written:
	case <-time.After(2 * time.Second):
		t.Fatal("no record published on start")
	}

	record := writer.last(t)
	if record.Status != domain.HealthStatusHealthy {
		t.Errorf("status = %s, want %s", record.Status, domain.HealthStatusHealthy)
	}
}
