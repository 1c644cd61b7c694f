package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
)

// Processor DTOs

// CreateProcessorRequest — запрос на регистрацию процессора.
type CreateProcessorRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateProcessorRequest — запрос на обновление процессора.
type UpdateProcessorRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// ProcessorResponse — ответ с процессором.
type ProcessorResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProcessorFromDomain конвертирует domain.Processor в ProcessorResponse.
func ProcessorFromDomain(p domain.Processor) ProcessorResponse {
	return ProcessorResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
}

// Workflow DTOs

// CreateWorkflowRequest — запрос на создание workflow.
type CreateWorkflowRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// WorkflowResponse — ответ с workflow.
type WorkflowResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// WorkflowFromDomain конвертирует domain.Workflow в WorkflowResponse.
func WorkflowFromDomain(w domain.Workflow) WorkflowResponse {
	return WorkflowResponse{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		CreatedAt:   w.CreatedAt,
	}
}

// Step DTOs

// CreateStepRequest — запрос на создание шага workflow.
type CreateStepRequest struct {
	Name        string      `json:"name,omitempty"`
	ProcessorID uuid.UUID   `json:"processor_id"`
	NextStepIDs []uuid.UUID `json:"next_step_ids,omitempty"`
}

// UpdateStepRequest — запрос на обновление шага.
type UpdateStepRequest struct {
	Name        *string      `json:"name,omitempty"`
	ProcessorID *uuid.UUID   `json:"processor_id,omitempty"`
	NextStepIDs *[]uuid.UUID `json:"next_step_ids,omitempty"`
}

// StepResponse — ответ с шагом.
type StepResponse struct {
	ID          uuid.UUID   `json:"id"`
	WorkflowID  uuid.UUID   `json:"workflow_id"`
	Name        string      `json:"name,omitempty"`
	ProcessorID uuid.UUID   `json:"processor_id"`
	NextStepIDs []uuid.UUID `json:"next_step_ids,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// StepFromDomain конвертирует domain.Step в StepResponse.
func StepFromDomain(s domain.Step) StepResponse {
	return StepResponse{
		ID:          s.ID,
		WorkflowID:  s.WorkflowID,
		Name:        s.Name,
		ProcessorID: s.ProcessorID,
		NextStepIDs: s.NextStepIDs,
		CreatedAt:   s.CreatedAt,
	}
}

// Assignment DTOs

// CreateAssignmentRequest — запрос на создание assignment.
type CreateAssignmentRequest struct {
	StepID   uuid.UUID `json:"step_id"`
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Position int       `json:"position"`
}

// AssignmentResponse — ответ с assignment.
type AssignmentResponse struct {
	ID        uuid.UUID `json:"id"`
	StepID    uuid.UUID `json:"step_id"`
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// AssignmentFromDomain конвертирует domain.Assignment в AssignmentResponse.
func AssignmentFromDomain(a domain.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:        a.ID,
		StepID:    a.StepID,
		Name:      a.Name,
		Value:     a.Value,
		Position:  a.Position,
		CreatedAt: a.CreatedAt,
	}
}

// OrchestratedFlow DTOs

// CreateFlowRequest — запрос на создание orchestrated flow.
type CreateFlowRequest struct {
	Name          string      `json:"name"`
	WorkflowID    uuid.UUID   `json:"workflow_id"`
	AssignmentIDs []uuid.UUID `json:"assignment_ids,omitempty"`
	Payload       string      `json:"payload,omitempty"`
}

// UpdateFlowRequest — запрос на обновление orchestrated flow.
type UpdateFlowRequest struct {
	Name          *string      `json:"name,omitempty"`
	AssignmentIDs *[]uuid.UUID `json:"assignment_ids,omitempty"`
	Payload       *string      `json:"payload,omitempty"`
	IsActive      *bool        `json:"is_active,omitempty"`
}

// FlowResponse — ответ с orchestrated flow.
type FlowResponse struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	WorkflowID    uuid.UUID   `json:"workflow_id"`
	AssignmentIDs []uuid.UUID `json:"assignment_ids,omitempty"`
	Payload       string      `json:"payload,omitempty"`
	IsActive      bool        `json:"is_active"`
	CreatedAt     time.Time   `json:"created_at"`
}

// FlowFromDomain конвертирует domain.OrchestratedFlow в FlowResponse.
func FlowFromDomain(f domain.OrchestratedFlow) FlowResponse {
	return FlowResponse{
		ID:            f.ID,
		Name:          f.Name,
		WorkflowID:    f.WorkflowID,
		AssignmentIDs: f.AssignmentIDs,
		Payload:       f.Payload,
		IsActive:      f.IsActive,
		CreatedAt:     f.CreatedAt,
	}
}

// Orchestration DTOs

// StartResponse — ответ на запуск оркестрации.
type StartResponse struct {
	OrchestratedFlowID uuid.UUID `json:"orchestratedFlowId"`
	StartedAt          time.Time `json:"startedAt"`
}

// StatusResponse — ответ со статусом оркестрации.
type StatusResponse struct {
	OrchestratedFlowID uuid.UUID  `json:"orchestratedFlowId"`
	IsActive           bool       `json:"isActive"`
	StartedAt          *time.Time `json:"startedAt,omitempty"`
	ExpiresAt          *time.Time `json:"expiresAt,omitempty"`
	StepCount          int        `json:"stepCount"`
	AssignmentCount    int        `json:"assignmentCount"`
}

// StatusFromDomain конвертирует domain.OrchestrationStatus в StatusResponse.
func StatusFromDomain(s domain.OrchestrationStatus) StatusResponse {
	return StatusResponse{
		OrchestratedFlowID: s.OrchestratedFlowID,
		IsActive:           s.IsActive,
		StartedAt:          s.StartedAt,
		ExpiresAt:          s.ExpiresAt,
		StepCount:          s.StepCount,
		AssignmentCount:    s.AssignmentCount,
	}
}
