package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gradnight/superlatives/internal/models"
)

// Repository handles participant persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a participant repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new participant.
func (r *Repository) Create(ctx context.Context, name string, role models.Role) (*models.Participant, error) {
	const q = `INSERT INTO participants (name, role) VALUES ($1, $2)
		RETURNING id, name, role, joined_at`
	var p models.Participant
	err := r.pool.QueryRow(ctx, q, name, string(role)).
		Scan(&p.ID, &p.Name, &p.Role, &p.JoinedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID returns a participant by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Participant, error) {
	const q = `SELECT id, name, role, joined_at FROM participants WHERE id = $1`
	var p models.Participant
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Role, &p.JoinedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all participants in join order.
func (r *Repository) List(ctx context.Context) ([]models.Participant, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, role, joined_at FROM participants ORDER BY joined_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Role, &p.JoinedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Count returns the number of joined participants.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM participants`).Scan(&n)
	return n, err
}
