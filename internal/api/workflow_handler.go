package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
)

// ListWorkflows возвращает список всех workflows.
// GET /api/v1/workflows
func (h *Handler) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	workflows, err := h.workflowRepo.List(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]WorkflowResponse, len(workflows))
	for i, wf := range workflows {
		result[i] = WorkflowFromDomain(wf)
	}

	List(w, result, len(result))
}

// CreateWorkflow создаёт новый workflow.
// POST /api/v1/workflows
func (h *Handler) CreateWorkflow(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}

	workflow := &domain.Workflow{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}

	if err := h.workflowRepo.Create(r.Context(), workflow); err != nil {
		if HandleRepoError(w, h.logger, err, "") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	Created(w, WorkflowFromDomain(*workflow))
}

// GetWorkflow возвращает workflow по ID.
// GET /api/v1/workflows/{id}
func (h *Handler) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid workflow id")
		return
	}

	workflow, err := h.workflowRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "workflow not found") {
		return
	}

	Success(w, WorkflowFromDomain(*workflow))
}

// DeleteWorkflow удаляет workflow вместе с шагами.
// DELETE /api/v1/workflows/{id}
func (h *Handler) DeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid workflow id")
		return
	}

	if err := h.workflowRepo.Delete(r.Context(), id); err != nil {
		if HandleRepoError(w, h.logger, err, "workflow not found") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	NoContent(w)
}

// ListSteps возвращает шаги workflow.
// GET /api/v1/workflows/{id}/steps
func (h *Handler) ListSteps(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid workflow id")
		return
	}

	// Проверяем, что workflow существует
	_, err = h.workflowRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "workflow not found") {
		return
	}

	steps, err := h.workflowRepo.ListSteps(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]StepResponse, len(steps))
	for i, s := range steps {
		result[i] = StepFromDomain(s)
	}

	List(w, result, len(result))
}

// CreateStep создаёт шаг внутри workflow.
// POST /api/v1/workflows/{id}/steps
//
// Ссылки NextStepIDs на ещё не созданные шаги допустимы: граф собирается
// инкрементально, висячие ссылки всплывают только при выполнении.
func (h *Handler) CreateStep(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid workflow id")
		return
	}

	var req CreateStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.ProcessorID == uuid.Nil {
		BadRequest(w, "processor_id is required")
		return
	}

	// Проверяем, что workflow существует
	_, err = h.workflowRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "workflow not found") {
		return
	}

	step := &domain.Step{
		ID:          uuid.New(),
		WorkflowID:  id,
		Name:        req.Name,
		ProcessorID: req.ProcessorID,
		NextStepIDs: req.NextStepIDs,
	}

	if err := h.workflowRepo.CreateStep(r.Context(), step); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Created(w, StepFromDomain(*step))
}

// GetStep возвращает шаг по ID.
// GET /api/v1/steps/{id}
func (h *Handler) GetStep(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid step id")
		return
	}

	step, err := h.workflowRepo.GetStep(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "step not found") {
		return
	}

	Success(w, StepFromDomain(*step))
}

// UpdateStep обновляет шаг.
// PUT /api/v1/steps/{id}
func (h *Handler) UpdateStep(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid step id")
		return
	}

	var req UpdateStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	step, err := h.workflowRepo.GetStep(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "step not found") {
		return
	}

	if req.Name != nil {
		step.Name = *req.Name
	}
	if req.ProcessorID != nil {
		step.ProcessorID = *req.ProcessorID
	}
	if req.NextStepIDs != nil {
		step.NextStepIDs = *req.NextStepIDs
	}

	if err := h.workflowRepo.UpdateStep(r.Context(), step); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, StepFromDomain(*step))
}

// DeleteStep удаляет шаг.
// DELETE /api/v1/steps/{id}
func (h *Handler) DeleteStep(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid step id")
		return
	}

	if err := h.workflowRepo.DeleteStep(r.Context(), id); err != nil {
		if HandleRepoError(w, h.logger, err, "step not found") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	NoContent(w)
}
