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

// OrchestratedFlowRepo — репозиторий для работы с orchestrated flows.
type OrchestratedFlowRepo struct {
	pool *pgxpool.Pool
}

// NewOrchestratedFlowRepo создаёт новый OrchestratedFlowRepo.
func NewOrchestratedFlowRepo(pool *pgxpool.Pool) *OrchestratedFlowRepo {
	return &OrchestratedFlowRepo{pool: pool}
}

// Create создаёт новое определение потока.
func (r *OrchestratedFlowRepo) Create(ctx context.Context, flow *domain.OrchestratedFlow) error {
	query := `
		INSERT INTO orchestrated_flows (id, name, workflow_id, assignment_ids, payload, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		flow.ID,
		flow.Name,
		flow.WorkflowID,
		flow.AssignmentIDs,
		flow.Payload,
		flow.IsActive,
		flow.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert orchestrated flow: %w", mapWriteError(err))
	}
	return nil
}

// GetByID возвращает определение потока по ID.
func (r *OrchestratedFlowRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.OrchestratedFlow, error) {
	query := `
		SELECT id, name, workflow_id, assignment_ids, payload, is_active, created_at
		FROM orchestrated_flows
		WHERE id = $1
	`
	var flow domain.OrchestratedFlow
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&flow.ID,
		&flow.Name,
		&flow.WorkflowID,
		&flow.AssignmentIDs,
		&flow.Payload,
		&flow.IsActive,
		&flow.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get orchestrated flow by id: %w", err)
	}
	return &flow, nil
}

// List возвращает все определения потоков.
func (r *OrchestratedFlowRepo) List(ctx context.Context) ([]domain.OrchestratedFlow, error) {
	query := `
		SELECT id, name, workflow_id, assignment_ids, payload, is_active, created_at
		FROM orchestrated_flows
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list orchestrated flows: %w", err)
	}
	defer rows.Close()

	var flows []domain.OrchestratedFlow
	for rows.Next() {
		var flow domain.OrchestratedFlow
		if err := rows.Scan(
			&flow.ID,
			&flow.Name,
			&flow.WorkflowID,
			&flow.AssignmentIDs,
			&flow.Payload,
			&flow.IsActive,
			&flow.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan orchestrated flow: %w", err)
		}
		flows = append(flows, flow)
	}
	return flows, rows.Err()
}

// Update обновляет определение потока.
func (r *OrchestratedFlowRepo) Update(ctx context.Context, flow *domain.OrchestratedFlow) error {
	query := `
		UPDATE orchestrated_flows
		SET name = $2, workflow_id = $3, assignment_ids = $4, payload = $5, is_active = $6
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		flow.ID,
		flow.Name,
		flow.WorkflowID,
		flow.AssignmentIDs,
		flow.Payload,
		flow.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update orchestrated flow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет определение потока.
func (r *OrchestratedFlowRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orchestrated_flows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete orchestrated flow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
