package domain

import (
	"time"

	"github.com/google/uuid"
)

// Workflow — определение рабочего процесса: именованный набор шагов,
// связанных рёбрами "следующий шаг".
//
// Workflow — это "шаблон" графа. Запускается он не напрямую, а через
// OrchestratedFlow, который связывает workflow с assignments и начальными
// данными.
type Workflow struct {
	// ID — уникальный идентификатор workflow.
	ID uuid.UUID `json:"id"`

	// Name — уникальное имя workflow (например, "order-pipeline").
	Name string `json:"name"`

	// Description — описание назначения workflow.
	Description string `json:"description,omitempty"`

	// CreatedAt — время создания workflow.
	CreatedAt time.Time `json:"created_at"`
}

// Step — узел в графе workflow, привязанный ровно к одному процессору.
//
// Рёбра графа хранятся списком NextStepIDs — ссылками на идентификаторы,
// а не указателями на узлы, поэтому циклическая структура в данных
// не приводит к циклам владения в памяти.
type Step struct {
	// ID — уникальный идентификатор шага.
	ID uuid.UUID `json:"id"`

	// WorkflowID — ссылка на родительский workflow.
	WorkflowID uuid.UUID `json:"workflow_id"`

	// Name — человекочитаемое имя шага.
	Name string `json:"name,omitempty"`

	// ProcessorID — процессор, выполняющий этот шаг.
	ProcessorID uuid.UUID `json:"processor_id"`

	// NextStepIDs — упорядоченный список шагов, запускаемых после этого.
	// Пустой список означает конец ветки (branch termination).
	// Висячие ссылки обнаруживаются во время выполнения, не при сохранении.
	NextStepIDs []uuid.UUID `json:"next_step_ids,omitempty"`

	// CreatedAt — время создания шага.
	CreatedAt time.Time `json:"created_at"`
}
