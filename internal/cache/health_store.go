package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/shaiso/Conveyor/internal/domain"
)

// HealthStore — хранилище записей о здоровье процессоров.
//
// Записи пишут сами процессоры (см. internal/health.Reporter),
// оркестратор их только читает при health gate.
type HealthStore struct {
	client *redis.Client
	logger *slog.Logger
}

// NewHealthStore создаёт новый HealthStore.
func NewHealthStore(client *redis.Client, logger *slog.Logger) *HealthStore {
	return &HealthStore{
		client: client,
		logger: logger,
	}
}

// Get возвращает последнюю запись о здоровье процессора.
// Возвращает ErrNotFound, если записи нет.
func (s *HealthStore) Get(ctx context.Context, processorID uuid.UUID) (*domain.HealthRecord, error) {
	data, err := s.client.Get(ctx, healthKey(processorID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get health record: %w", err)
	}

	var record domain.HealthRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal health record: %w", err)
	}

	return &record, nil
}

// Put сохраняет запись о здоровье с TTL до её ExpiresAt.
func (s *HealthStore) Put(ctx context.Context, record *domain.HealthRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal health record: %w", err)
	}

	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("health record already expired: %s", record.ProcessorID)
	}

	if err := s.client.Set(ctx, healthKey(record.ProcessorID), data, ttl).Err(); err != nil {
		return fmt.Errorf("put health record: %w", err)
	}

	return nil
}
