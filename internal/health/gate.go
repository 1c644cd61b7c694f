package health

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
)

// RecordStore — источник записей о здоровье процессоров.
type RecordStore interface {
	Get(ctx context.Context, processorID uuid.UUID) (*domain.HealthRecord, error)
}

// Gate — предусловие старта оркестрации: все участвующие процессоры
// должны быть здоровы.
type Gate struct {
	store  RecordStore
	logger *slog.Logger
}

// NewGate создаёт новый Gate.
func NewGate(store RecordStore, logger *slog.Logger) *Gate {
	return &Gate{
		store:  store,
		logger: logger,
	}
}

// Check — результат проверки одного процессора.
type Check struct {
	ProcessorID uuid.UUID
	Healthy     bool
	Reason      string
}

// CheckProcessor классифицирует один процессор.
//
// Нездоровым считается процессор, для которого: записи нет, запись
// не читается/не парсится, запись просрочена или статус отличен от Healthy.
func (g *Gate) CheckProcessor(ctx context.Context, processorID uuid.UUID) Check {
	record, err := g.store.Get(ctx, processorID)
	if err != nil {
		return Check{
			ProcessorID: processorID,
			Reason:      fmt.Sprintf("health record unavailable: %v", err),
		}
	}

	if record.IsExpired(time.Now()) {
		return Check{
			ProcessorID: processorID,
			Reason:      fmt.Sprintf("health record expired at %s", record.ExpiresAt.Format(time.RFC3339)),
		}
	}

	if record.Status != domain.HealthStatusHealthy {
		return Check{
			ProcessorID: processorID,
			Reason:      fmt.Sprintf("status is %s", record.Status),
		}
	}

	return Check{ProcessorID: processorID, Healthy: true}
}

// Gate проверяет все процессоры и отклоняет оркестрацию, если хотя бы
// один нездоров.
//
// Проверки выполняются параллельно и независимо: даже после первого
// отказа остальные процессоры всё равно проверяются, чтобы ошибка
// перечислила каждого нарушителя.
func (g *Gate) Gate(ctx context.Context, processorIDs []uuid.UUID) error {
	checks := make([]Check, len(processorIDs))

	var wg sync.WaitGroup
	for i, id := range processorIDs {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			checks[i] = g.CheckProcessor(ctx, id)
		}(i, id)
	}
	wg.Wait()

	var unhealthy []UnhealthyProcessor
	for _, check := range checks {
		if check.Healthy {
			continue
		}
		g.logger.Warn("processor failed health gate",
			"processor_id", check.ProcessorID,
			"reason", check.Reason,
		)
		unhealthy = append(unhealthy, UnhealthyProcessor{
			ProcessorID: check.ProcessorID,
			Reason:      check.Reason,
		})
	}

	if len(unhealthy) > 0 {
		return &UnhealthyProcessorsError{Processors: unhealthy}
	}

	return nil
}
