// Package stats is the admin participation read model: how many devices
// joined, how many voted per question, and overall turnout.
package stats

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gradnight/superlatives/pkg/response"
)

// SuperlativeStats is per-question turnout.
type SuperlativeStats struct {
	SuperlativeID uuid.UUID `json:"superlative_id"`
	Title         string    `json:"title"`
	Votes         int       `json:"votes"`
	Revealed      bool      `json:"revealed"`
}

// Handler serves session participation statistics.
type Handler struct {
	pool *pgxpool.Pool
}

// NewHandler creates a stats handler.
func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{pool: pool}
}

// Get handles GET /session/stats (admin).
func (h *Handler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	var participants, totalVotes int
	if err := h.pool.QueryRow(ctx, `SELECT COUNT(*) FROM participants`).Scan(&participants); err != nil {
		response.Internal(c, "failed to count participants")
		return
	}
	if err := h.pool.QueryRow(ctx, `SELECT COUNT(*) FROM votes`).Scan(&totalVotes); err != nil {
		response.Internal(c, "failed to count votes")
		return
	}

	rows, err := h.pool.Query(ctx, `
		SELECT s.id, s.title, COUNT(v.id), s.frozen_result IS NOT NULL
		FROM superlatives s
		LEFT JOIN votes v ON v.superlative_id = s.id
		GROUP BY s.id, s.title, s.position, s.frozen_result
		ORDER BY s.position`)
	if err != nil {
		response.Internal(c, "failed to load per-superlative stats")
		return
	}
	defer rows.Close()

	perQuestion := []SuperlativeStats{}
	for rows.Next() {
		var st SuperlativeStats
		if err := rows.Scan(&st.SuperlativeID, &st.Title, &st.Votes, &st.Revealed); err != nil {
			response.Internal(c, "failed to scan stats")
			return
		}
		perQuestion = append(perQuestion, st)
	}
	if err := rows.Err(); err != nil {
		response.Internal(c, "failed to read stats")
		return
	}

	participation := 0.0
	if participants > 0 && len(perQuestion) > 0 {
		participation = float64(totalVotes) / float64(participants*len(perQuestion)) * 100
	}

	response.OK(c, gin.H{
		"participants":          participants,
		"total_votes":           totalVotes,
		"participation_percent": participation,
		"superlatives":          perQuestion,
	})
}
