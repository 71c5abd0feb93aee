package votes

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/gradnight/superlatives/internal/middleware"
	"github.com/gradnight/superlatives/internal/models"
	"github.com/gradnight/superlatives/internal/realtime"
	"github.com/gradnight/superlatives/internal/session"
	"github.com/gradnight/superlatives/internal/superlatives"
	"github.com/gradnight/superlatives/internal/tally"
	"github.com/gradnight/superlatives/pkg/response"
)

// CastRequest is the body for POST /session/vote.
type CastRequest struct {
	SuperlativeID string `json:"superlative_id" binding:"required,uuid"`
	NomineeName   string `json:"nominee_name" binding:"required"`
}

// Handler handles vote casting and reconciliation reads.
type Handler struct {
	repo    *Repository
	state   *session.Repository
	catalog *superlatives.Repository
	guard   *InflightGuard
	hub     *realtime.Hub
	logger  *zap.Logger
}

// NewHandler creates a votes handler.
func NewHandler(repo *Repository, state *session.Repository, catalog *superlatives.Repository, hub *realtime.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		repo:    repo,
		state:   state,
		catalog: catalog,
		guard:   NewInflightGuard(),
		hub:     hub,
		logger:  logger,
	}
}

// Cast handles POST /session/vote. One vote per participant per question:
// the write is an upsert, so re-voting swaps the nominee without growing the
// ledger. Rejected when the session is not accepting votes for the named
// question or when this participant already has a write in flight.
func (h *Handler) Cast(c *gin.Context) {
	participantID := c.MustGet(middleware.ContextParticipantID).(uuid.UUID)
	role, _ := c.MustGet(middleware.ContextParticipantRole).(string)

	var req CastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	superlativeID, err := uuid.Parse(req.SuperlativeID)
	if err != nil {
		response.BadRequest(c, "invalid superlative id")
		return
	}

	if !h.guard.Acquire(participantID) {
		response.Conflict(c, "a vote is already in flight")
		return
	}
	defer h.guard.Release(participantID)

	ctx := c.Request.Context()
	st, err := h.state.GetState(ctx)
	if err != nil {
		response.Internal(c, "failed to load session state")
		return
	}
	if !st.VotingOpen() {
		h.logger.Info("vote rejected: voting closed",
			zap.String("participant_id", participantID.String()),
			zap.Bool("started", st.SessionStarted),
			zap.Bool("revealed", st.ResultRevealed),
			zap.Bool("completed", st.AllQuestionsCompleted))
		response.Conflict(c, "voting is not open")
		return
	}

	current, err := h.catalog.GetByIndex(ctx, st.CurrentQuestionIndex)
	if err != nil {
		response.Internal(c, "failed to load current superlative")
		return
	}
	if current.ID != superlativeID {
		response.Conflict(c, "superlative is not the active question")
		return
	}
	if !current.HasNominee(req.NomineeName) {
		response.BadRequest(c, "unknown nominee")
		return
	}

	v := &models.Vote{
		SuperlativeID:   superlativeID,
		ParticipantID:   participantID,
		ParticipantRole: models.Role(role),
		NomineeName:     req.NomineeName,
	}
	if err := h.repo.Upsert(ctx, v); err != nil {
		h.logger.Error("vote write failed", zap.Error(err),
			zap.String("participant_id", participantID.String()))
		response.Internal(c, "failed to record vote")
		return
	}

	// Live counts for pre-reveal admin display.
	ledger, err := h.repo.ListBySuperlative(ctx, superlativeID)
	if err == nil {
		h.hub.BroadcastAndPublish(realtime.EventVoteCast, gin.H{
			"superlative_id": superlativeID,
			"counts":         tally.Counts(current, ledger),
			"total":          len(ledger),
		})
	}

	response.OK(c, gin.H{"superlative_id": superlativeID, "nominee_name": v.NomineeName, "cast_at": v.CastAt})
}

// MyVote handles GET /session/my-vote?superlative_id=. Clients reconcile
// their provisional local selection against this authoritative answer
// whenever a snapshot arrives.
func (h *Handler) MyVote(c *gin.Context) {
	participantID := c.MustGet(middleware.ContextParticipantID).(uuid.UUID)
	superlativeID, err := uuid.Parse(c.Query("superlative_id"))
	if err != nil {
		response.BadRequest(c, "superlative_id is required")
		return
	}
	v, err := h.repo.GetByParticipant(c.Request.Context(), superlativeID, participantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.OK(c, gin.H{"vote": nil})
			return
		}
		h.logger.Error("vote lookup failed", zap.Error(err),
			zap.String("participant_id", participantID.String()))
		response.Internal(c, "failed to load vote")
		return
	}
	response.OK(c, gin.H{"vote": v})
}
