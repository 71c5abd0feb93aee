package presence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AttendeeRow is one row for GET /session/attendees.
type AttendeeRow struct {
	ParticipantID uuid.UUID  `json:"participant_id"`
	Name          string     `json:"name"`
	Role          string     `json:"role"`
	JoinedAt      time.Time  `json:"joined_at"`
	LeftAt        *time.Time `json:"left_at,omitempty"`
	WatchSeconds  int64      `json:"watch_seconds"`
}

// Repository handles presence_logs: one row per connection, closed on leave.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a presence repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// LogJoin inserts a row when a client connects.
func (r *Repository) LogJoin(ctx context.Context, participantID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO presence_logs (participant_id, joined_at) VALUES ($1, NOW())`,
		participantID)
	return err
}

// LogLeave closes the most recent open row for this participant.
func (r *Repository) LogLeave(ctx context.Context, participantID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE presence_logs p SET left_at = NOW(), watch_seconds = GREATEST(0, EXTRACT(EPOCH FROM (NOW() - p.joined_at))::BIGINT)
		 FROM (SELECT id FROM presence_logs WHERE participant_id = $1 AND left_at IS NULL ORDER BY joined_at DESC LIMIT 1) AS sub
		 WHERE p.id = sub.id`,
		participantID)
	return err
}

// ListAttendees returns connection history joined with participant identity.
func (r *Repository) ListAttendees(ctx context.Context) ([]AttendeeRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT l.participant_id, pa.name, pa.role, l.joined_at, l.left_at, l.watch_seconds
		 FROM presence_logs l
		 JOIN participants pa ON pa.id = l.participant_id
		 ORDER BY l.joined_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []AttendeeRow
	for rows.Next() {
		var row AttendeeRow
		if err := rows.Scan(&row.ParticipantID, &row.Name, &row.Role, &row.JoinedAt, &row.LeftAt, &row.WatchSeconds); err != nil {
			return nil, err
		}
		list = append(list, row)
	}
	return list, rows.Err()
}
