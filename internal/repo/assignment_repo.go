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

// AssignmentRepo — репозиторий для работы с assignments.
type AssignmentRepo struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepo создаёт новый AssignmentRepo.
func NewAssignmentRepo(pool *pgxpool.Pool) *AssignmentRepo {
	return &AssignmentRepo{pool: pool}
}

// Create создаёт новый assignment.
func (r *AssignmentRepo) Create(ctx context.Context, assignment *domain.Assignment) error {
	query := `
		INSERT INTO assignments (id, step_id, name, value, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		assignment.ID,
		assignment.StepID,
		assignment.Name,
		assignment.Value,
		assignment.Position,
		assignment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert assignment: %w", mapWriteError(err))
	}
	return nil
}

// GetByID возвращает assignment по ID.
func (r *AssignmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Assignment, error) {
	query := `
		SELECT id, step_id, name, value, position, created_at
		FROM assignments
		WHERE id = $1
	`
	var assignment domain.Assignment
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&assignment.ID,
		&assignment.StepID,
		&assignment.Name,
		&assignment.Value,
		&assignment.Position,
		&assignment.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment by id: %w", err)
	}
	return &assignment, nil
}

// ListByIDs возвращает assignments по списку идентификаторов,
// упорядоченные по (step_id, position). Отсутствующие идентификаторы
// молча пропускаются.
func (r *AssignmentRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Assignment, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, step_id, name, value, position, created_at
		FROM assignments
		WHERE id = ANY($1)
		ORDER BY step_id, position
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []domain.Assignment
	for rows.Next() {
		var assignment domain.Assignment
		if err := rows.Scan(
			&assignment.ID,
			&assignment.StepID,
			&assignment.Name,
			&assignment.Value,
			&assignment.Position,
			&assignment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, assignment)
	}
	return assignments, rows.Err()
}

// List возвращает все assignments.
func (r *AssignmentRepo) List(ctx context.Context) ([]domain.Assignment, error) {
	query := `
		SELECT id, step_id, name, value, position, created_at
		FROM assignments
		ORDER BY step_id, position
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []domain.Assignment
	for rows.Next() {
		var assignment domain.Assignment
		if err := rows.Scan(
			&assignment.ID,
			&assignment.StepID,
			&assignment.Name,
			&assignment.Value,
			&assignment.Position,
			&assignment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, assignment)
	}
	return assignments, rows.Err()
}

// Delete удаляет assignment.
func (r *AssignmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
