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

// ProcessorRepo — репозиторий для работы с processors.
type ProcessorRepo struct {
	pool *pgxpool.Pool
}

// NewProcessorRepo создаёт новый ProcessorRepo.
func NewProcessorRepo(pool *pgxpool.Pool) *ProcessorRepo {
	return &ProcessorRepo{pool: pool}
}

// Create регистрирует новый processor.
func (r *ProcessorRepo) Create(ctx context.Context, processor *domain.Processor) error {
	query := `
		INSERT INTO processors (id, name, description, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		processor.ID,
		processor.Name,
		processor.Description,
		processor.IsActive,
		processor.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert processor: %w", mapWriteError(err))
	}
	return nil
}

// GetByID возвращает processor по ID.
func (r *ProcessorRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Processor, error) {
	query := `
		SELECT id, name, description, is_active, created_at
		FROM processors
		WHERE id = $1
	`
	var processor domain.Processor
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&processor.ID,
		&processor.Name,
		&processor.Description,
		&processor.IsActive,
		&processor.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get processor by id: %w", err)
	}
	return &processor, nil
}

// List возвращает список всех processors.
func (r *ProcessorRepo) List(ctx context.Context) ([]domain.Processor, error) {
	query := `
		SELECT id, name, description, is_active, created_at
		FROM processors
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list processors: %w", err)
	}
	defer rows.Close()

	var processors []domain.Processor
	for rows.Next() {
		var processor domain.Processor
		if err := rows.Scan(
			&processor.ID,
			&processor.Name,
			&processor.Description,
			&processor.IsActive,
			&processor.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan processor: %w", err)
		}
		processors = append(processors, processor)
	}
	return processors, rows.Err()
}

// Update обновляет processor.
func (r *ProcessorRepo) Update(ctx context.Context, processor *domain.Processor) error {
	query := `
		UPDATE processors
		SET name = $2, description = $3, is_active = $4
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		processor.ID,
		processor.Name,
		processor.Description,
		processor.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update processor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет processor.
func (r *ProcessorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM processors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete processor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
