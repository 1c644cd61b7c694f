package engine

import (
	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
)

// FindEntryPoints возвращает шаги с нулевой входящей степенью.
//
// Шаг является entry point тогда и только тогда, когда его идентификатор
// не встречается ни в одном NextStepIDs других шагов.
// Сложность O(шаги + рёбра).
func FindEntryPoints(graph *domain.FlowGraph) []uuid.UUID {
	// Первый проход: собираем все идентификаторы, на которые кто-то ссылается
	referenced := make(map[uuid.UUID]bool)
	for _, entity := range graph.StepEntities {
		for _, nextID := range entity.NextStepIDs {
			referenced[nextID] = true
		}
	}

	// Второй проход: entry point — шаг, на который никто не ссылается
	entryPoints := make([]uuid.UUID, 0)
	for stepID := range graph.StepEntities {
		if !referenced[stepID] {
			entryPoints = append(entryPoints, stepID)
		}
	}

	return entryPoints
}

// ValidateEntryPoints проверяет, что множество entry points непусто.
//
// В корректном DAG хотя бы один шаг обязан иметь нулевую входящую степень.
// Пустое множество означает, что каждый шаг на кого-то ссылается —
// то есть граф целиком является циклом.
func ValidateEntryPoints(entryPoints []uuid.UUID) error {
	if len(entryPoints) == 0 {
		return ErrGraphInvalid
	}
	return nil
}

// ValidateGraph выполняет полную структурную проверку графа:
// наличие шагов, поиск и валидация entry points.
// Возвращает entry points при успехе.
func ValidateGraph(graph *domain.FlowGraph) ([]uuid.UUID, error) {
	if len(graph.StepEntities) == 0 {
		return nil, ErrEmptyGraph
	}

	entryPoints := FindEntryPoints(graph)
	if err := ValidateEntryPoints(entryPoints); err != nil {
		return nil, err
	}

	return entryPoints, nil
}
