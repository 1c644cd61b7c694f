package domain

import (
	"time"

	"github.com/google/uuid"
)

// StepEntity — запись о шаге внутри кэшированного FlowGraph.
type StepEntity struct {
	// ProcessorID — процессор, выполняющий шаг.
	ProcessorID uuid.UUID `json:"processor_id"`

	// NextStepIDs — упорядоченные идентификаторы следующих шагов.
	NextStepIDs []uuid.UUID `json:"next_step_ids,omitempty"`
}

// FlowGraph — граф одного работающего экземпляра потока.
//
// Собирается один раз при старте оркестрации из данных entity-сервисов,
// сохраняется в кэш графов единым значением с TTL и после этого только
// читается обработчиками событий завершения. Удаляется при Stop или
// по истечении TTL.
//
// "Граф присутствует в кэше и не просрочен" — это и есть определение
// активной оркестрации; факт выполнения хотя бы одного шага не требуется.
type FlowGraph struct {
	// OrchestratedFlowID — идентификатор экземпляра потока.
	OrchestratedFlowID uuid.UUID `json:"orchestrated_flow_id"`

	// StepEntities — шаги графа (stepID → StepEntity).
	StepEntities map[uuid.UUID]StepEntity `json:"step_entities"`

	// Assignments — параметры шагов (stepID → упорядоченный список).
	Assignments map[uuid.UUID][]Assignment `json:"assignments,omitempty"`

	// Payload — начальные данные для entry points.
	Payload string `json:"payload,omitempty"`

	// CreatedAt — время сборки графа (начало окна валидности).
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt — конец окна валидности.
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired возвращает true, если окно валидности графа истекло.
func (g *FlowGraph) IsExpired(now time.Time) bool {
	return now.After(g.ExpiresAt)
}

// ProcessorIDs возвращает уникальные идентификаторы процессоров,
// участвующих в графе.
func (g *FlowGraph) ProcessorIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(g.StepEntities))
	ids := make([]uuid.UUID, 0, len(g.StepEntities))

	for _, entity := range g.StepEntities {
		if seen[entity.ProcessorID] {
			continue
		}
		seen[entity.ProcessorID] = true
		ids = append(ids, entity.ProcessorID)
	}

	return ids
}

// StepCount возвращает количество шагов в графе.
func (g *FlowGraph) StepCount() int {
	return len(g.StepEntities)
}

// AssignmentCount возвращает общее количество assignments в графе.
func (g *FlowGraph) AssignmentCount() int {
	count := 0
	for _, list := range g.Assignments {
		count += len(list)
	}
	return count
}

// OrchestrationStatus — снимок состояния оркестрации для Status-запроса.
type OrchestrationStatus struct {
	// OrchestratedFlowID — идентификатор экземпляра потока.
	OrchestratedFlowID uuid.UUID `json:"orchestrated_flow_id"`

	// IsActive — true, если в кэше есть непросроченный граф.
	IsActive bool `json:"is_active"`

	// StartedAt — время старта оркестрации (CreatedAt графа).
	// Nil, если оркестрация неактивна.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// ExpiresAt — конец окна валидности графа.
	// Nil, если оркестрация неактивна.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// StepCount — количество шагов в графе.
	StepCount int `json:"step_count"`

	// AssignmentCount — количество assignments в графе.
	AssignmentCount int `json:"assignment_count"`
}
