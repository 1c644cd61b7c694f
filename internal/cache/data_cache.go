package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// defaultDataTTL ограничивает время жизни записей, оставшихся после
// остановленных оркестраций. При нормальном выполнении записи удаляются
// переносом или завершением ветки раньше.
const defaultDataTTL = 24 * time.Hour

// DataCache — кэш рабочих данных процессоров.
//
// Записи сгруппированы в регионы по владеющему процессору и адресуются
// составным ключом (flow, step, execution, correlation). Владение данными
// переходит от шага к шагу переносом: реактор читает результат один раз,
// раскладывает копии по регионам всех следующих шагов и удаляет источник.
type DataCache struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// NewDataCache создаёт новый DataCache.
func NewDataCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *DataCache {
	if ttl <= 0 {
		ttl = defaultDataTTL
	}
	return &DataCache{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// Get возвращает данные из региона процессора.
// Возвращает ErrNotFound, если записи нет.
func (c *DataCache) Get(ctx context.Context, processorID uuid.UUID, key DataKey) (string, error) {
	payload, err := c.client.Get(ctx, dataKey(processorID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get step data: %w", err)
	}
	return payload, nil
}

// Set записывает данные в регион процессора.
func (c *DataCache) Set(ctx context.Context, processorID uuid.UUID, key DataKey, payload string) error {
	if err := c.client.Set(ctx, dataKey(processorID, key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("set step data: %w", err)
	}
	return nil
}

// Delete удаляет данные из региона процессора.
// Отсутствие записи не считается ошибкой.
func (c *DataCache) Delete(ctx context.Context, processorID uuid.UUID, key DataKey) error {
	if err := c.client.Del(ctx, dataKey(processorID, key)).Err(); err != nil {
		return fmt.Errorf("delete step data: %w", err)
	}
	return nil
}
