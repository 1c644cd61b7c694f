package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Conveyor/internal/domain"
)

// WorkflowRepo — репозиторий для работы с workflows и их steps.
type WorkflowRepo struct {
	pool *pgxpool.Pool
}

// NewWorkflowRepo создаёт новый WorkflowRepo.
func NewWorkflowRepo(pool *pgxpool.Pool) *WorkflowRepo {
	return &WorkflowRepo{pool: pool}
}

// --- Workflow CRUD ---

// Create создаёт новый workflow.
func (r *WorkflowRepo) Create(ctx context.Context, workflow *domain.Workflow) error {
	query := `
		INSERT INTO workflows (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query,
		workflow.ID,
		workflow.Name,
		workflow.Description,
		workflow.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert workflow: %w", mapWriteError(err))
	}
	return nil
}

// GetByID возвращает workflow по ID.
func (r *WorkflowRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workflow, error) {
	query := `
		SELECT id, name, description, created_at
		FROM workflows
		WHERE id = $1
	`
	var workflow domain.Workflow
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&workflow.ID,
		&workflow.Name,
		&workflow.Description,
		&workflow.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get workflow by id: %w", err)
	}
	return &workflow, nil
}

// List возвращает список всех workflows.
func (r *WorkflowRepo) List(ctx context.Context) ([]domain.Workflow, error) {
	query := `
		SELECT id, name, description, created_at
		FROM workflows
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	defer rows.Close()

	var workflows []domain.Workflow
	for rows.Next() {
		var workflow domain.Workflow
		if err := rows.Scan(
			&workflow.ID,
			&workflow.Name,
			&workflow.Description,
			&workflow.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan workflow: %w", err)
		}
		workflows = append(workflows, workflow)
	}
	return workflows, rows.Err()
}

// Delete удаляет workflow вместе с его steps.
func (r *WorkflowRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM workflows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete workflow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Step CRUD ---

// CreateStep добавляет шаг в workflow.
func (r *WorkflowRepo) CreateStep(ctx context.Context, step *domain.Step) error {
	query := `
		INSERT INTO steps (id, workflow_id, name, processor_id, next_step_ids, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		step.ID,
		step.WorkflowID,
		step.Name,
		step.ProcessorID,
		step.NextStepIDs,
		step.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert step: %w", mapWriteError(err))
	}
	return nil
}

// GetStep возвращает шаг по ID.
func (r *WorkflowRepo) GetStep(ctx context.Context, id uuid.UUID) (*domain.Step, error) {
	query := `
		SELECT id, workflow_id, name, processor_id, next_step_ids, created_at
		FROM steps
		WHERE id = $1
	`
	var step domain.Step
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&step.ID,
		&step.WorkflowID,
		&step.Name,
		&step.ProcessorID,
		&step.NextStepIDs,
		&step.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get step by id: %w", err)
	}
	return &step, nil
}

// ListSteps возвращает все шаги workflow.
func (r *WorkflowRepo) ListSteps(ctx context.Context, workflowID uuid.UUID) ([]domain.Step, error) {
	query := `
		SELECT id, workflow_id, name, processor_id, next_step_ids, created_at
		FROM steps
		WHERE workflow_id = $1
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, workflowID)
	if err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}
	defer rows.Close()

	var steps []domain.Step
	for rows.Next() {
		var step domain.Step
		if err := rows.Scan(
			&step.ID,
			&step.WorkflowID,
			&step.Name,
			&step.ProcessorID,
			&step.NextStepIDs,
			&step.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

// UpdateStep обновляет шаг (имя, процессор, рёбра).
func (r *WorkflowRepo) UpdateStep(ctx context.Context, step *domain.Step) error {
	query := `
		UPDATE steps
		SET name = $2, processor_id = $3, next_step_ids = $4
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		step.ID,
		step.Name,
		step.ProcessorID,
		step.NextStepIDs,
	)
	if err != nil {
		return fmt.Errorf("update step: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteStep удаляет шаг.
func (r *WorkflowRepo) DeleteStep(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM steps WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete step: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
