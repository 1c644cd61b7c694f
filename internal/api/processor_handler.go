package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
)

// ListProcessors возвращает список всех процессоров.
// GET /api/v1/processors
func (h *Handler) ListProcessors(w http.ResponseWriter, r *http.Request) {
	processors, err := h.processorRepo.List(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]ProcessorResponse, len(processors))
	for i, p := range processors {
		result[i] = ProcessorFromDomain(p)
	}

	List(w, result, len(result))
}

// CreateProcessor регистрирует новый процессор.
// POST /api/v1/processors
func (h *Handler) CreateProcessor(w http.ResponseWriter, r *http.Request) {
	var req CreateProcessorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}

	processor := &domain.Processor{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}

	if err := h.processorRepo.Create(r.Context(), processor); err != nil {
		if HandleRepoError(w, h.logger, err, "") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	Created(w, ProcessorFromDomain(*processor))
}

// GetProcessor возвращает процессор по ID.
// GET /api/v1/processors/{id}
func (h *Handler) GetProcessor(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid processor id")
		return
	}

	processor, err := h.processorRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "processor not found") {
		return
	}

	Success(w, ProcessorFromDomain(*processor))
}

// UpdateProcessor обновляет процессор.
// PUT /api/v1/processors/{id}
func (h *Handler) UpdateProcessor(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid processor id")
		return
	}

	var req UpdateProcessorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	processor, err := h.processorRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "processor not found") {
		return
	}

	if req.Name != nil {
		processor.Name = *req.Name
	}
	if req.Description != nil {
		processor.Description = *req.Description
	}
	if req.IsActive != nil {
		processor.IsActive = *req.IsActive
	}

	if err := h.processorRepo.Update(r.Context(), processor); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, ProcessorFromDomain(*processor))
}

// DeleteProcessor удаляет процессор.
// DELETE /api/v1/processors/{id}
func (h *Handler) DeleteProcessor(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid processor id")
		return
	}

	if err := h.processorRepo.Delete(r.Context(), id); err != nil {
		if HandleRepoError(w, h.logger, err, "processor not found") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	NoContent(w)
}
