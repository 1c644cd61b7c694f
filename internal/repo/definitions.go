package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
)

// Definitions — загрузчик определений для сборки FlowGraph.
//
// Объединяет три репозитория в интерфейс, который нужен оркестратору
// при старте: определение потока, граф шагов workflow и assignments.
type Definitions struct {
	flows       *OrchestratedFlowRepo
	workflows   *WorkflowRepo
	assignments *AssignmentRepo
}

// NewDefinitions создаёт новый Definitions.
func NewDefinitions(flows *OrchestratedFlowRepo, workflows *WorkflowRepo, assignments *AssignmentRepo) *Definitions {
	return &Definitions{
		flows:       flows,
		workflows:   workflows,
		assignments: assignments,
	}
}

// GetFlow возвращает определение потока.
func (d *Definitions) GetFlow(ctx context.Context, id uuid.UUID) (*domain.OrchestratedFlow, error) {
	return d.flows.GetByID(ctx, id)
}

// GetStepGraph возвращает граф шагов workflow в виде,
// пригодном для кэширования (stepID → StepEntity).
func (d *Definitions) GetStepGraph(ctx context.Context, workflowID uuid.UUID) (map[uuid.UUID]domain.StepEntity, error) {
	steps, err := d.workflows.ListSteps(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	entities := make(map[uuid.UUID]domain.StepEntity, len(steps))
	for _, step := range steps {
		entities[step.ID] = domain.StepEntity{
			ProcessorID: step.ProcessorID,
			NextStepIDs: step.NextStepIDs,
		}
	}

	return entities, nil
}

// GetAssignments возвращает assignments по идентификаторам,
// сгруппированные по шагам с сохранением порядка position.
func (d *Definitions) GetAssignments(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]domain.Assignment, error) {
	list, err := d.assignments.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	grouped := make(map[uuid.UUID][]domain.Assignment)
	for _, assignment := range list {
		grouped[assignment.StepID] = append(grouped[assignment.StepID], assignment)
	}

	return grouped, nil
}
