package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// DirectoryRepository serves the roles and directorates reference tables.
type DirectoryRepository interface {
	ListRoles(ctx context.Context) ([]domain.RoleRecord, error)
	CreateRole(ctx context.Context, record *domain.RoleRecord) error
	ListDirectorates(ctx context.Context) ([]domain.Directorate, error)
	CreateDirectorate(ctx context.Context, record *domain.Directorate) error
}

type directoryRepository struct {
	pool *pgxpool.Pool
}

// NewDirectoryRepository returns a Postgres-backed implementation.
func NewDirectoryRepository(pool *pgxpool.Pool) DirectoryRepository {
	return &directoryRepository{pool: pool}
}

func (r *directoryRepository) ListRoles(ctx context.Context) ([]domain.RoleRecord, error) {
	const query = `SELECT id, name, description, created_at FROM roles ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.RoleRecord
	for rows.Next() {
		var rec domain.RoleRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Description, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *directoryRepository) CreateRole(ctx context.Context, record *domain.RoleRecord) error {
	const query = `
        INSERT INTO roles (name, description)
        VALUES ($1, $2)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query, record.Name, record.Description).
		Scan(&record.ID, &record.CreatedAt)
}

func (r *directoryRepository) ListDirectorates(ctx context.Context) ([]domain.Directorate, error) {
	const query = `SELECT id, name, description, created_at FROM directorates ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Directorate
	for rows.Next() {
		var rec domain.Directorate
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Description, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *directoryRepository) CreateDirectorate(ctx context.Context, record *domain.Directorate) error {
	const query = `
        INSERT INTO directorates (name, description)
        VALUES ($1, $2)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query, record.Name, record.Description).
		Scan(&record.ID, &record.CreatedAt)
}
