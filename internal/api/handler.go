package api

import (
	"log/slog"

	"github.com/shaiso/Conveyor/internal/repo"
)

// Handler — главный обработчик административного API с зависимостями.
type Handler struct {
	processorRepo  *repo.ProcessorRepo
	workflowRepo   *repo.WorkflowRepo
	assignmentRepo *repo.AssignmentRepo
	flowRepo       *repo.OrchestratedFlowRepo
	logger         *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	ProcessorRepo  *repo.ProcessorRepo
	WorkflowRepo   *repo.WorkflowRepo
	AssignmentRepo *repo.AssignmentRepo
	FlowRepo       *repo.OrchestratedFlowRepo
	Logger         *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		processorRepo:  cfg.ProcessorRepo,
		workflowRepo:   cfg.WorkflowRepo,
		assignmentRepo: cfg.AssignmentRepo,
		flowRepo:       cfg.FlowRepo,
		logger:         cfg.Logger,
	}
}
