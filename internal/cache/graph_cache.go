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

// GraphCache — кэш графов оркестраций.
//
// На один orchestratedFlowId существует не более одного живого FlowGraph.
// Граф пишется один раз при старте, читается многими обработчиками событий
// и удаляется при Stop или по TTL — конкурентных писателей нет
// по построению, блокировки не нужны.
type GraphCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewGraphCache создаёт новый GraphCache.
func NewGraphCache(client *redis.Client, logger *slog.Logger) *GraphCache {
	return &GraphCache{
		client: client,
		logger: logger,
	}
}

// Put сохраняет граф с TTL до его ExpiresAt.
func (c *GraphCache) Put(ctx context.Context, graph *domain.FlowGraph) error {
	data, err := json.Marshal(graph)
	if err != nil {
		return fmt.Errorf("marshal flow graph: %w", err)
	}

	ttl := time.Until(graph.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("flow graph already expired: %s", graph.OrchestratedFlowID)
	}

	key := graphKey(graph.OrchestratedFlowID)
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("put flow graph: %w", err)
	}

	c.logger.Debug("flow graph cached",
		"orchestrated_flow_id", graph.OrchestratedFlowID,
		"steps", graph.StepCount(),
		"expires_at", graph.ExpiresAt,
	)

	return nil
}

// Get возвращает граф по идентификатору экземпляра потока.
// Возвращает ErrNotFound, если граф отсутствует или просрочен.
func (c *GraphCache) Get(ctx context.Context, flowID uuid.UUID) (*domain.FlowGraph, error) {
	data, err := c.client.Get(ctx, graphKey(flowID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get flow graph: %w", err)
	}

	var graph domain.FlowGraph
	if err := json.Unmarshal(data, &graph); err != nil {
		return nil, fmt.Errorf("unmarshal flow graph: %w", err)
	}

	// Встроенное окно валидности — страховка на случай, если TTL ключа
	// не совпал с ExpiresAt значения.
	if graph.IsExpired(time.Now()) {
		return nil, ErrNotFound
	}

	return &graph, nil
}

// Delete удаляет граф. Отсутствие ключа не считается ошибкой.
func (c *GraphCache) Delete(ctx context.Context, flowID uuid.UUID) error {
	if err := c.client.Del(ctx, graphKey(flowID)).Err(); err != nil {
		return fmt.Errorf("delete flow graph: %w", err)
	}
	return nil
}

// ExistsAndValid проверяет, существует ли живой граф для экземпляра потока.
func (c *GraphCache) ExistsAndValid(ctx context.Context, flowID uuid.UUID) (bool, error) {
	_, err := c.Get(ctx, flowID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
