package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/engine"
	"github.com/shaiso/Conveyor/internal/health"
	"github.com/shaiso/Conveyor/internal/orchestrator"
)

// Controller — управляющие операции оркестратора.
type Controller interface {
	StartFlow(ctx context.Context, flowID uuid.UUID) (*domain.OrchestrationStatus, error)
	StopFlow(ctx context.Context, flowID uuid.UUID) error
	FlowStatus(ctx context.Context, flowID uuid.UUID) (*domain.OrchestrationStatus, error)
}

// ControlHandler — HTTP-поверхность управления оркестрациями.
// Обслуживается бинарём оркестратора, не админ-API.
type ControlHandler struct {
	controller Controller
	logger     *slog.Logger
}

// NewControlHandler создаёт новый ControlHandler.
func NewControlHandler(controller Controller, logger *slog.Logger) *ControlHandler {
	return &ControlHandler{controller: controller, logger: logger}
}

// RegisterRoutes регистрирует управляющие маршруты.
func (h *ControlHandler) RegisterRoutes(mux *http.ServeMux) {
	chain := Chain(
		Recovery(h.logger),
		RequestID(),
		Logging(h.logger),
	)

	mux.Handle("POST /orchestration/start/{id}", chain(http.HandlerFunc(h.Start)))
	mux.Handle("POST /orchestration/stop/{id}", chain(http.HandlerFunc(h.Stop)))
	mux.Handle("GET /orchestration/status/{id}", chain(http.HandlerFunc(h.Status)))
}

// Start запускает оркестрацию потока.
// POST /orchestration/start/{id}
func (h *ControlHandler) Start(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid orchestrated flow id")
		return
	}

	status, err := h.controller.StartFlow(r.Context(), id)
	if err != nil {
		if errors.Is(err, orchestrator.ErrFlowNotFound) {
			NotFound(w, "orchestrated flow not found")
			return
		}
		// Предусловия (health gate, пустой набор entry points) — тоже 500
		// по контракту, но с содержательным сообщением: оно перечисляет
		// каждый нездоровый процессор с причиной
		if errors.Is(err, health.ErrProcessorsUnhealthy) || errors.Is(err, engine.ErrGraphInvalid) {
			h.logger.Warn("orchestration start rejected", "orchestrated_flow_id", id, "error", err)
			Error(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	JSON(w, http.StatusOK, StartResponse{
		OrchestratedFlowID: status.OrchestratedFlowID,
		StartedAt:          *status.StartedAt,
	})
}

// Stop останавливает оркестрацию.
// POST /orchestration/stop/{id}
//
// Идемпотентен: 200 и для работающей, и для отсутствующей оркестрации.
func (h *ControlHandler) Stop(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid orchestrated flow id")
		return
	}

	if err := h.controller.StopFlow(r.Context(), id); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	JSON(w, http.StatusOK, map[string]any{"orchestratedFlowId": id, "stopped": true})
}

// Status возвращает состояние оркестрации.
// GET /orchestration/status/{id}
//
// Для неизвестного id возвращает isActive=false, не 404.
func (h *ControlHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid orchestrated flow id")
		return
	}

	status, err := h.controller.FlowStatus(r.Context(), id)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	JSON(w, http.StatusOK, StatusFromDomain(*status))
}
