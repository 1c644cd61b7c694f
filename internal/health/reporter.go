package health

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
)

// Default configuration values.
const (
	defaultReportInterval = 10 * time.Second
	defaultRecordTTL      = 30 * time.Second
)

// RecordWriter — приёмник записей о здоровье.
type RecordWriter interface {
	Put(ctx context.Context, record *domain.HealthRecord) error
}

// Reporter периодически публикует запись о здоровье одного процессора.
//
// TTL записи заметно больше интервала публикации, поэтому пара пропущенных
// публикаций не роняет процессор в глазах health gate; умерший процессор
// перестаёт публиковаться, и его запись истекает сама.
type Reporter struct {
	store       RecordWriter
	processorID uuid.UUID
	interval    time.Duration
	recordTTL   time.Duration
	logger      *slog.Logger

	mu     sync.RWMutex
	status domain.HealthStatus

	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// ReporterConfig — конфигурация Reporter.
type ReporterConfig struct {
	// Store — приёмник записей.
	Store RecordWriter

	// ProcessorID — процессор, о котором публикуются записи.
	ProcessorID uuid.UUID

	// Interval — интервал публикации (default: 10s).
	Interval time.Duration

	// RecordTTL — время жизни записи (default: 30s).
	RecordTTL time.Duration

	// Logger
	Logger *slog.Logger
}

// NewReporter создаёт новый Reporter. Начальный статус — Healthy.
func NewReporter(cfg ReporterConfig) *Reporter {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultReportInterval
	}

	recordTTL := cfg.RecordTTL
	if recordTTL <= 0 {
		recordTTL = defaultRecordTTL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reporter{
		store:       cfg.Store,
		processorID: cfg.ProcessorID,
		interval:    interval,
		recordTTL:   recordTTL,
		logger:      logger,
		status:      domain.HealthStatusHealthy,
	}
}

// SetStatus меняет публикуемый статус (например, на Degraded
// при проблемах с зависимостями процессора).
func (r *Reporter) SetStatus(status domain.HealthStatus) {
	r.mu.Lock()
	r.status = status
	r.mu.Unlock()
}

// Status возвращает текущий публикуемый статус.
func (r *Reporter) Status() domain.HealthStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Start запускает цикл публикации.
func (r *Reporter) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	r.cancelFunc = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(ctx)
	}()
}

// Stop останавливает цикл публикации.
func (r *Reporter) Stop() {
	if r.cancelFunc != nil {
		r.cancelFunc()
	}
	r.wg.Wait()
}

// run — основной цикл публикации.
func (r *Reporter) run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Первая публикация сразу при старте
	r.report(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.report(ctx)
		}
	}
}

// report публикует одну запись.
func (r *Reporter) report(ctx context.Context) {
	now := time.Now()
	record := &domain.HealthRecord{
		ProcessorID: r.processorID,
		Status:      r.Status(),
		LastUpdated: now,
		ExpiresAt:   now.Add(r.recordTTL),
	}

	if err := r.store.Put(ctx, record); err != nil {
		r.logger.Warn("failed to publish health record",
			"processor_id", r.processorID,
			"error", err,
		)
	}
}
