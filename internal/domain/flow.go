package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrchestratedFlow — запускаемое определение потока.
//
// Связывает workflow (граф шагов) с набором assignments и начальными
// данными. Идентификатор OrchestratedFlow одновременно является
// идентификатором работающего экземпляра: в кэше графов может существовать
// не более одного живого FlowGraph на этот id.
type OrchestratedFlow struct {
	// ID — уникальный идентификатор потока (orchestrated flow id).
	ID uuid.UUID `json:"id"`

	// Name — уникальное имя потока.
	Name string `json:"name"`

	// WorkflowID — workflow, граф которого выполняется.
	WorkflowID uuid.UUID `json:"workflow_id"`

	// AssignmentIDs — assignments, передаваемые шагам при выполнении.
	AssignmentIDs []uuid.UUID `json:"assignment_ids,omitempty"`

	// Payload — начальные данные, записываемые в регион кэша каждого
	// entry point при старте (непрозрачная строка).
	Payload string `json:"payload,omitempty"`

	// IsActive — флаг активности определения.
	IsActive bool `json:"is_active"`

	// CreatedAt — время создания потока.
	CreatedAt time.Time `json:"created_at"`
}
