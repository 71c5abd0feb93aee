package votes

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gradnight/superlatives/internal/models"
)

// Repository handles the vote ledger. One row per (superlative, participant);
// the upsert overwrites nominee_name in place and never touches cast_at, so
// re-voting keeps the participant's original position in tie-break order.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a votes repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Upsert records or overwrites a participant's vote. cast_at is assigned by
// the database on first insert and preserved on conflict.
func (r *Repository) Upsert(ctx context.Context, v *models.Vote) error {
	const q = `INSERT INTO votes (superlative_id, participant_id, participant_role, nominee_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (superlative_id, participant_id)
		DO UPDATE SET nominee_name = EXCLUDED.nominee_name
		RETURNING id, cast_at`
	return r.pool.QueryRow(ctx, q, v.SuperlativeID, v.ParticipantID, string(v.ParticipantRole), v.NomineeName).
		Scan(&v.ID, &v.CastAt)
}

// ListBySuperlative returns votes in ascending cast order; the id column
// stabilizes iteration under equal timestamps.
func (r *Repository) ListBySuperlative(ctx context.Context, superlativeID uuid.UUID) ([]models.Vote, error) {
	const q = `SELECT id, superlative_id, participant_id, participant_role, nominee_name, cast_at
		FROM votes WHERE superlative_id = $1 ORDER BY cast_at, id`
	rows, err := r.pool.Query(ctx, q, superlativeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Vote
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.SuperlativeID, &v.ParticipantID, &v.ParticipantRole, &v.NomineeName, &v.CastAt); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// GetByParticipant returns the participant's vote for a superlative, or nil.
func (r *Repository) GetByParticipant(ctx context.Context, superlativeID, participantID uuid.UUID) (*models.Vote, error) {
	const q = `SELECT id, superlative_id, participant_id, participant_role, nominee_name, cast_at
		FROM votes WHERE superlative_id = $1 AND participant_id = $2`
	var v models.Vote
	err := r.pool.QueryRow(ctx, q, superlativeID, participantID).
		Scan(&v.ID, &v.SuperlativeID, &v.ParticipantID, &v.ParticipantRole, &v.NomineeName, &v.CastAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// CountBySuperlative returns the ledger size for one superlative.
func (r *Repository) CountBySuperlative(ctx context.Context, superlativeID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM votes WHERE superlative_id = $1`, superlativeID).Scan(&n)
	return n, err
}
