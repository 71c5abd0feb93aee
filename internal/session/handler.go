package session

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/gradnight/superlatives/internal/models"
	"github.com/gradnight/superlatives/internal/realtime"
	"github.com/gradnight/superlatives/internal/summary"
	"github.com/gradnight/superlatives/internal/superlatives"
	"github.com/gradnight/superlatives/internal/tally"
	"github.com/gradnight/superlatives/pkg/response"
)

// VoteSource is the slice of the vote ledger the session machine needs:
// reveal reads the current question's votes to freeze a result.
type VoteSource interface {
	ListBySuperlative(ctx context.Context, superlativeID uuid.UUID) ([]models.Vote, error)
	CountBySuperlative(ctx context.Context, superlativeID uuid.UUID) (int, error)
}

// GoToRequest is the body for POST /session/goto.
type GoToRequest struct {
	Index *int `json:"index" binding:"required"`
}

// FullResetRequest is the body for POST /session/full-reset. The confirm
// phrase is the explicit human confirmation required before the destructive
// batch runs.
type FullResetRequest struct {
	Confirm string `json:"confirm" binding:"required"`
}

// FullResetConfirmPhrase must be sent verbatim to run a full reset.
const FullResetConfirmPhrase = "RESET"

// Handler drives the shared session cursor. All transition endpoints are
// offered to admins only; a transition invoked in a state that forbids it is
// logged and ignored, never an error.
type Handler struct {
	repo    *Repository
	catalog *superlatives.Repository
	votes   VoteSource
	hub     *realtime.Hub
	logger  *zap.Logger
	joinURL string
}

// NewHandler creates a session handler.
func NewHandler(repo *Repository, catalog *superlatives.Repository, votes VoteSource, hub *realtime.Hub, joinURL string, logger *zap.Logger) *Handler {
	return &Handler{
		repo:    repo,
		catalog: catalog,
		votes:   votes,
		hub:     hub,
		joinURL: joinURL,
		logger:  logger,
	}
}

func fromModel(s *models.SessionState) State {
	return State{
		Started:   s.SessionStarted,
		Index:     s.CurrentQuestionIndex,
		Revealed:  s.ResultRevealed,
		Completed: s.AllQuestionsCompleted,
	}
}

// load reads the shared state and catalog size.
func (h *Handler) load(ctx context.Context) (State, int, error) {
	st, err := h.repo.GetState(ctx)
	if err != nil {
		return State{}, 0, err
	}
	count, err := h.catalog.Count(ctx)
	if err != nil {
		return State{}, 0, err
	}
	return fromModel(st), count, nil
}

// respondState sends the current state; changed reports whether the
// transition was accepted.
func (h *Handler) respondState(c *gin.Context, s State, changed bool) {
	response.OK(c, gin.H{
		"changed": changed,
		"state": gin.H{
			"session_started":         s.Started,
			"current_question_index":  s.Index,
			"result_revealed":         s.Revealed,
			"all_questions_completed": s.Completed,
		},
	})
}

// transition runs one pure transition and persists + broadcasts on success.
func (h *Handler) transition(c *gin.Context, t Transition, hasVotes bool, event string) (State, bool) {
	s, count, err := h.load(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to load session state")
		return s, false
	}
	next, ok := Apply(s, t, count, hasVotes)
	if !ok {
		h.logger.Info("transition rejected", zap.String("transition", t.String()),
			zap.Int("index", s.Index), zap.Bool("revealed", s.Revealed),
			zap.Bool("started", s.Started), zap.Bool("completed", s.Completed))
		h.respondState(c, s, false)
		return s, false
	}
	if err := h.repo.SaveState(c.Request.Context(), next); err != nil {
		response.Internal(c, "failed to save session state")
		return s, false
	}
	h.hub.BroadcastAndPublish(event, gin.H{
		"session_started":         next.Started,
		"current_question_index":  next.Index,
		"result_revealed":         next.Revealed,
		"all_questions_completed": next.Completed,
	})
	h.respondState(c, next, true)
	return next, true
}

// Get handles GET /session: the shared cursor plus the current superlative.
func (h *Handler) Get(c *gin.Context) {
	st, err := h.repo.GetState(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to load session state")
		return
	}
	out := gin.H{"state": st, "join_url": h.joinURL}
	if st.SessionStarted && !st.AllQuestionsCompleted {
		if current, err := h.catalog.GetByIndex(c.Request.Context(), st.CurrentQuestionIndex); err == nil {
			out["current_superlative"] = current
		}
	}
	response.OK(c, out)
}

// Start handles POST /session/start.
func (h *Handler) Start(c *gin.Context) {
	h.transition(c, Start, false, realtime.EventSessionState)
}

// Reveal handles POST /session/reveal: freezes the tally of the current
// question onto its row, then flips the reveal flag. Requires at least one
// cast vote. Re-revealing without intervening votes recomputes the identical
// result, so a racing duplicate reveal is a redundant write, not a conflict.
func (h *Handler) Reveal(c *gin.Context) {
	ctx := c.Request.Context()
	s, count, err := h.load(ctx)
	if err != nil {
		response.Internal(c, "failed to load session state")
		return
	}
	if !s.Started || s.Completed || s.Index >= count {
		h.logger.Info("transition rejected", zap.String("transition", Reveal.String()))
		h.respondState(c, s, false)
		return
	}

	current, err := h.catalog.GetByIndex(ctx, s.Index)
	if err != nil {
		response.Internal(c, "failed to load current superlative")
		return
	}
	ledger, err := h.votes.ListBySuperlative(ctx, current.ID)
	if err != nil {
		response.Internal(c, "failed to read vote ledger")
		return
	}

	next, ok := Apply(s, Reveal, count, len(ledger) > 0)
	if !ok {
		h.logger.Info("transition rejected", zap.String("transition", Reveal.String()),
			zap.Int("votes", len(ledger)), zap.Bool("revealed", s.Revealed))
		h.respondState(c, s, false)
		return
	}

	standing := tally.ComputeStanding(current, ledger)
	if standing == nil {
		// Every vote targeted a removed nominee; nothing to freeze.
		h.respondState(c, s, false)
		return
	}
	frozen := &models.FrozenResult{Winners: standing.Winners(), RevealedAt: time.Now().UTC()}
	if err := h.catalog.SetFrozenResult(ctx, current.ID, frozen); err != nil {
		response.Internal(c, "failed to freeze result")
		return
	}
	if err := h.repo.SaveState(ctx, next); err != nil {
		response.Internal(c, "failed to save session state")
		return
	}

	h.hub.BroadcastAndPublish(realtime.EventResultRevealed, gin.H{
		"superlative_id": current.ID,
		"index":          next.Index,
		"frozen_result":  frozen,
	})
	h.respondState(c, next, true)
}

// Next handles POST /session/next.
func (h *Handler) Next(c *gin.Context) {
	h.transition(c, Next, false, realtime.EventSessionState)
}

// Previous handles POST /session/previous. Also exits the summary back into
// the last question.
func (h *Handler) Previous(c *gin.Context) {
	h.transition(c, Previous, false, realtime.EventSessionState)
}

// GoToIndex handles POST /session/goto: jump to any valid index, re-entering
// the voting sub-state.
func (h *Handler) GoToIndex(c *gin.Context) {
	var req GoToRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: index is required")
		return
	}
	s, count, err := h.load(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to load session state")
		return
	}
	next, ok := GoTo(s, *req.Index, count)
	if !ok {
		h.logger.Info("transition rejected", zap.String("transition", "goto"),
			zap.Int("requested", *req.Index), zap.Int("count", count))
		h.respondState(c, s, false)
		return
	}
	if err := h.repo.SaveState(c.Request.Context(), next); err != nil {
		response.Internal(c, "failed to save session state")
		return
	}
	h.hub.BroadcastAndPublish(realtime.EventSessionState, gin.H{
		"session_started":         next.Started,
		"current_question_index":  next.Index,
		"result_revealed":         next.Revealed,
		"all_questions_completed": next.Completed,
	})
	h.respondState(c, next, true)
}

// ResetResults handles POST /session/reset-results: back to voting for the
// current question, clearing its frozen result.
func (h *Handler) ResetResults(c *gin.Context) {
	ctx := c.Request.Context()
	s, _, err := h.load(ctx)
	if err != nil {
		response.Internal(c, "failed to load session state")
		return
	}
	next, ok := Apply(s, ResetResults, 0, false)
	if !ok {
		h.logger.Info("transition rejected", zap.String("transition", ResetResults.String()))
		h.respondState(c, s, false)
		return
	}
	current, err := h.catalog.GetByIndex(ctx, s.Index)
	if err != nil {
		response.Internal(c, "failed to load current superlative")
		return
	}
	if err := h.catalog.ClearFrozenResult(ctx, current.ID); err != nil {
		response.Internal(c, "failed to clear frozen result")
		return
	}
	if err := h.repo.SaveState(ctx, next); err != nil {
		response.Internal(c, "failed to save session state")
		return
	}
	h.hub.BroadcastAndPublish(realtime.EventResultsReset, gin.H{
		"superlative_id": current.ID,
		"index":          next.Index,
	})
	h.respondState(c, next, true)
}

// Complete handles POST /session/complete: into the final summary,
// regardless of whether the current question was revealed.
func (h *Handler) Complete(c *gin.Context) {
	h.transition(c, Complete, false, realtime.EventSessionCompleted)
}

// FullReset handles POST /session/full-reset. Destructive and irreversible:
// requires the confirm phrase, then erases votes and frozen results and
// returns the session to NotStarted in one atomic batch.
func (h *Handler) FullReset(c *gin.Context) {
	var req FullResetRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Confirm != FullResetConfirmPhrase {
		response.BadRequest(c, `full reset requires {"confirm":"RESET"}`)
		return
	}
	if err := h.repo.FullReset(c.Request.Context()); err != nil {
		h.logger.Error("full reset failed", zap.Error(err))
		response.Internal(c, "failed to reset session")
		return
	}
	h.logger.Info("session fully reset")
	h.hub.BroadcastAndPublish(realtime.EventSessionReset, gin.H{})
	h.respondState(c, State{}, true)
}

// Summary handles GET /session/summary: the cross-question wrap-up built
// from frozen results only. Before completion it serves an explicit empty
// payload rather than an error.
func (h *Handler) Summary(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.repo.GetState(ctx)
	if err != nil {
		response.Internal(c, "failed to load session state")
		return
	}
	if !st.AllQuestionsCompleted {
		response.OK(c, gin.H{"completed": false, "winners": []summary.NomineeSummary{}})
		return
	}
	catalog, err := h.catalog.List(ctx)
	if err != nil {
		response.Internal(c, "failed to load superlatives")
		return
	}
	response.OK(c, gin.H{"completed": true, "winners": summary.Build(catalog)})
}

// JoinQR handles GET /session/qr: a PNG QR code of the join URL for the
// shared screen.
func (h *Handler) JoinQR(c *gin.Context) {
	png, err := qrcode.Encode(h.joinURL, qrcode.Medium, 512)
	if err != nil {
		response.Internal(c, "failed to render qr code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
