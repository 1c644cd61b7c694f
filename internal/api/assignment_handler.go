package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
)

// ListAssignments возвращает список всех assignments.
// GET /api/v1/assignments
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.assignmentRepo.List(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]AssignmentResponse, len(assignments))
	for i, a := range assignments {
		result[i] = AssignmentFromDomain(a)
	}

	List(w, result, len(result))
}

// CreateAssignment создаёт новый assignment.
// POST /api/v1/assignments
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.StepID == uuid.Nil {
		BadRequest(w, "step_id is required")
		return
	}
	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}

	assignment := &domain.Assignment{
		ID:       uuid.New(),
		StepID:   req.StepID,
		Name:     req.Name,
		Value:    req.Value,
		Position: req.Position,
	}

	if err := h.assignmentRepo.Create(r.Context(), assignment); err != nil {
		if HandleRepoError(w, h.logger, err, "") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	Created(w, AssignmentFromDomain(*assignment))
}

// GetAssignment возвращает assignment по ID.
// GET /api/v1/assignments/{id}
func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid assignment id")
		return
	}

	assignment, err := h.assignmentRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "assignment not found") {
		return
	}

	Success(w, AssignmentFromDomain(*assignment))
}

// DeleteAssignment удаляет assignment.
// DELETE /api/v1/assignments/{id}
func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid assignment id")
		return
	}

	if err := h.assignmentRepo.Delete(r.Context(), id); err != nil {
		if HandleRepoError(w, h.logger, err, "assignment not found") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	NoContent(w)
}
