package session

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gradnight/superlatives/internal/models"
)

// Repository persists the singleton session_state row. The row is created
// with defaults on first read; only admin transitions mutate it afterwards.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a session repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const stateColumns = `session_started, current_question_index, result_revealed, all_questions_completed, join_url, updated_at`

// GetState returns the shared session state, creating the default row on
// first access.
func (r *Repository) GetState(ctx context.Context) (*models.SessionState, error) {
	const q = `
		INSERT INTO session_state (id) VALUES (1)
		ON CONFLICT (id) DO UPDATE SET id = session_state.id
		RETURNING ` + stateColumns
	var s models.SessionState
	err := r.pool.QueryRow(ctx, q).Scan(
		&s.SessionStarted, &s.CurrentQuestionIndex, &s.ResultRevealed,
		&s.AllQuestionsCompleted, &s.JoinURL, &s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get session state: %w", err)
	}
	return &s, nil
}

// SaveState writes the transition-relevant fields of the singleton row.
func (r *Repository) SaveState(ctx context.Context, s State) error {
	const q = `UPDATE session_state SET
		session_started = $1,
		current_question_index = $2,
		result_revealed = $3,
		all_questions_completed = $4,
		updated_at = NOW()
		WHERE id = 1`
	_, err := r.pool.Exec(ctx, q, s.Started, s.Index, s.Revealed, s.Completed)
	return err
}

// SetJoinURL records the participant-facing join URL on the shared state so
// every client renders the same one.
func (r *Repository) SetJoinURL(ctx context.Context, url string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE session_state SET join_url = $1, updated_at = NOW() WHERE id = 1`, url)
	return err
}

// Started reports whether a session run is in progress. Satisfies the
// superlatives catalog guard.
func (r *Repository) Started(ctx context.Context) (bool, error) {
	s, err := r.GetState(ctx)
	if err != nil {
		return false, err
	}
	return s.SessionStarted && !s.AllQuestionsCompleted, nil
}

// FullReset erases the vote ledger, clears every frozen result and returns
// the cursor to its defaults in one transaction: all of it happens or none
// of it does.
func (r *Repository) FullReset(ctx context.Context) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin full reset: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM votes`); err != nil {
		return fmt.Errorf("delete votes: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE superlatives SET frozen_result = NULL, updated_at = NOW()`); err != nil {
		return fmt.Errorf("clear frozen results: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE session_state SET
		session_started = FALSE,
		current_question_index = 0,
		result_revealed = FALSE,
		all_questions_completed = FALSE,
		updated_at = NOW()
		WHERE id = 1`); err != nil {
		return fmt.Errorf("reset session state: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit full reset: %w", err)
	}
	return nil
}
