package session

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gradnight/superlatives/pkg/database"
)

// testPool connects to the database named by TEST_DATABASE_URL, runs the
// migrations and empties the tables. Skipped when the variable is unset so
// the suite passes without a running PostgreSQL.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := database.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, table := range []string{"votes", "presence_logs", "participants", "superlatives", "session_state"} {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("clear %s: %v", table, err)
		}
	}
	return pool
}

func TestGetStateCreatesSingletonRow(t *testing.T) {
	pool := testPool(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	st, err := repo.GetState(ctx)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if st.SessionStarted || st.ResultRevealed || st.AllQuestionsCompleted || st.CurrentQuestionIndex != 0 {
		t.Fatalf("expected default state on first read, got %+v", st)
	}

	var n int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM session_state`).Scan(&n); err != nil || n != 1 {
		t.Fatalf("expected exactly one state row, got %d (%v)", n, err)
	}
}

func TestFullResetErasesVotesResultsAndState(t *testing.T) {
	pool := testPool(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	if _, err := repo.GetState(ctx); err != nil {
		t.Fatalf("get state: %v", err)
	}
	if err := repo.SaveState(ctx, State{Started: true, Index: 1, Revealed: true}); err != nil {
		t.Fatalf("save state: %v", err)
	}

	var participantID uuid.UUID
	if err := pool.QueryRow(ctx,
		`INSERT INTO participants (name, role) VALUES ('Sam', 'guest') RETURNING id`).Scan(&participantID); err != nil {
		t.Fatalf("seed participant: %v", err)
	}
	var superlativeID uuid.UUID
	if err := pool.QueryRow(ctx, `
		INSERT INTO superlatives (title, position, nominees, frozen_result)
		VALUES ('Best Laugh', 0, '[{"name":"A"}]',
		        '{"winners":[{"nominee_name":"A","score":1,"is_tie":false}],"revealed_at":"2026-05-20T19:00:00Z"}')
		RETURNING id`).Scan(&superlativeID); err != nil {
		t.Fatalf("seed superlative: %v", err)
	}
	if _, err := pool.Exec(ctx, `
		INSERT INTO votes (superlative_id, participant_id, participant_role, nominee_name)
		VALUES ($1, $2, 'guest', 'A')`, superlativeID, participantID); err != nil {
		t.Fatalf("seed vote: %v", err)
	}

	if err := repo.FullReset(ctx); err != nil {
		t.Fatalf("full reset: %v", err)
	}

	var votes int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM votes`).Scan(&votes); err != nil || votes != 0 {
		t.Fatalf("expected zero votes after full reset, got %d (%v)", votes, err)
	}
	var frozen int
	if err := pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM superlatives WHERE frozen_result IS NOT NULL`).Scan(&frozen); err != nil || frozen != 0 {
		t.Fatalf("expected zero frozen results after full reset, got %d (%v)", frozen, err)
	}

	st, err := repo.GetState(ctx)
	if err != nil {
		t.Fatalf("get state after reset: %v", err)
	}
	if st.SessionStarted || st.CurrentQuestionIndex != 0 || st.ResultRevealed || st.AllQuestionsCompleted {
		t.Fatalf("expected default state after full reset, got %+v", st)
	}

	// The catalog itself survives a full reset.
	var questions int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM superlatives`).Scan(&questions); err != nil || questions != 1 {
		t.Fatalf("expected catalog untouched by full reset, got %d (%v)", questions, err)
	}
}
