package superlatives

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gradnight/superlatives/internal/models"
)

// Repository handles superlative persistence. Nominees and the frozen result
// live as JSONB on the row: a superlative is one document, read and replaced
// whole, except frozen_result which is patched independently on reveal/reset.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a superlatives repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanRow(row interface{ Scan(...any) error }) (*models.Superlative, error) {
	var s models.Superlative
	var nominees []byte
	var frozen []byte
	err := row.Scan(&s.ID, &s.Title, &s.Position, &nominees, &frozen, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(nominees, &s.Nominees); err != nil {
		return nil, fmt.Errorf("decode nominees: %w", err)
	}
	if frozen != nil {
		var fr models.FrozenResult
		if err := json.Unmarshal(frozen, &fr); err != nil {
			return nil, fmt.Errorf("decode frozen result: %w", err)
		}
		s.FrozenResult = &fr
	}
	return &s, nil
}

const selectColumns = `id, title, position, nominees, frozen_result, created_at, updated_at`

// Create inserts a new superlative at the next free position.
func (r *Repository) Create(ctx context.Context, title string, nominees []models.Nominee) (*models.Superlative, error) {
	data, err := json.Marshal(nominees)
	if err != nil {
		return nil, fmt.Errorf("encode nominees: %w", err)
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO superlatives (title, position, nominees)
		VALUES ($1, COALESCE((SELECT MAX(position) + 1 FROM superlatives), 0), $2)
		RETURNING `+selectColumns, title, data)
	return scanRow(row)
}

// GetByID returns a superlative by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Superlative, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM superlatives WHERE id = $1`, id)
	return scanRow(row)
}

// List returns all superlatives in position order.
func (r *Repository) List(ctx context.Context) ([]models.Superlative, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+selectColumns+` FROM superlatives ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Superlative
	for rows.Next() {
		s, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

// GetByIndex returns the superlative at the given position in the ordered
// catalog (0-based). Positions may have gaps after deletes, so the index is
// resolved against the ordered list, not the position value.
func (r *Repository) GetByIndex(ctx context.Context, index int) (*models.Superlative, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM superlatives ORDER BY position OFFSET $1 LIMIT 1`, index)
	return scanRow(row)
}

// Count returns the catalog size.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM superlatives`).Scan(&n)
	return n, err
}

// Update replaces title and nominees. Catalog edits are for setup; questions
// are immutable once the session has started (enforced by the handler).
func (r *Repository) Update(ctx context.Context, id uuid.UUID, title string, nominees []models.Nominee) (*models.Superlative, error) {
	data, err := json.Marshal(nominees)
	if err != nil {
		return nil, fmt.Errorf("encode nominees: %w", err)
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE superlatives SET title = $2, nominees = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+selectColumns, id, title, data)
	return scanRow(row)
}

// Delete removes a superlative and (by cascade) its votes.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM superlatives WHERE id = $1`, id)
	return err
}

// Duplicate copies a superlative (title suffixed, same nominees, no frozen
// result) to the end of the catalog.
func (r *Repository) Duplicate(ctx context.Context, id uuid.UUID) (*models.Superlative, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO superlatives (title, position, nominees)
		SELECT title || ' (copy)', (SELECT MAX(position) + 1 FROM superlatives), nominees
		FROM superlatives WHERE id = $1
		RETURNING `+selectColumns, id)
	return scanRow(row)
}

// SetFrozenResult patches the frozen_result field only.
func (r *Repository) SetFrozenResult(ctx context.Context, id uuid.UUID, fr *models.FrozenResult) error {
	data, err := json.Marshal(fr)
	if err != nil {
		return fmt.Errorf("encode frozen result: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`UPDATE superlatives SET frozen_result = $2, updated_at = NOW() WHERE id = $1`, id, data)
	return err
}

// ClearFrozenResult removes the frozen result (SQL NULL is the deletion
// marker for the field).
func (r *Repository) ClearFrozenResult(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE superlatives SET frozen_result = NULL, updated_at = NOW() WHERE id = $1`, id)
	return err
}

// SetNomineeImage sets the image ref of one nominee inside the JSONB array.
func (r *Repository) SetNomineeImage(ctx context.Context, id uuid.UUID, nomineeName, imageRef string) error {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	found := false
	for i := range s.Nominees {
		if s.Nominees[i].Name == nomineeName {
			s.Nominees[i].ImageRef = imageRef
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("nominee %q not found", nomineeName)
	}
	data, err := json.Marshal(s.Nominees)
	if err != nil {
		return fmt.Errorf("encode nominees: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`UPDATE superlatives SET nominees = $2, updated_at = NOW() WHERE id = $1`, id, data)
	return err
}
