package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
)

// ListFlows возвращает список всех orchestrated flows.
// GET /api/v1/flows
func (h *Handler) ListFlows(w http.ResponseWriter, r *http.Request) {
	flows, err := h.flowRepo.List(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]FlowResponse, len(flows))
	for i, f := range flows {
		result[i] = FlowFromDomain(f)
	}

	List(w, result, len(result))
}

// CreateFlow создаёт новый orchestrated flow.
// POST /api/v1/flows
func (h *Handler) CreateFlow(w http.ResponseWriter, r *http.Request) {
	var req CreateFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}
	if req.WorkflowID == uuid.Nil {
		BadRequest(w, "workflow_id is required")
		return
	}

	// Workflow должен существовать
	_, err := h.workflowRepo.GetByID(r.Context(), req.WorkflowID)
	if HandleRepoError(w, h.logger, err, "workflow not found") {
		return
	}

	flow := &domain.OrchestratedFlow{
		ID:            uuid.New(),
		Name:          req.Name,
		WorkflowID:    req.WorkflowID,
		AssignmentIDs: req.AssignmentIDs,
		Payload:       req.Payload,
		IsActive:      true,
	}

	if err := h.flowRepo.Create(r.Context(), flow); err != nil {
		if HandleRepoError(w, h.logger, err, "") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	Created(w, FlowFromDomain(*flow))
}

// GetFlow возвращает orchestrated flow по ID.
// GET /api/v1/flows/{id}
func (h *Handler) GetFlow(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid flow id")
		return
	}

	flow, err := h.flowRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "flow not found") {
		return
	}

	Success(w, FlowFromDomain(*flow))
}

// UpdateFlow обновляет orchestrated flow.
// PUT /api/v1/flows/{id}
//
// Обновление определения не трогает уже работающую оркестрацию: её граф
// снят с определения в момент старта и живёт в кэше до Stop или TTL.
func (h *Handler) UpdateFlow(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid flow id")
		return
	}

	var req UpdateFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	flow, err := h.flowRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "flow not found") {
		return
	}

	if req.Name != nil {
		flow.Name = *req.Name
	}
	if req.AssignmentIDs != nil {
		flow.AssignmentIDs = *req.AssignmentIDs
	}
	if req.Payload != nil {
		flow.Payload = *req.Payload
	}
	if req.IsActive != nil {
		flow.IsActive = *req.IsActive
	}

	if err := h.flowRepo.Update(r.Context(), flow); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, FlowFromDomain(*flow))
}

// DeleteFlow удаляет orchestrated flow.
// DELETE /api/v1/flows/{id}
func (h *Handler) DeleteFlow(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid flow id")
		return
	}

	if err := h.flowRepo.Delete(r.Context(), id); err != nil {
		if HandleRepoError(w, h.logger, err, "flow not found") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	NoContent(w)
}
