package identity

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gradnight/superlatives/internal/models"
	"github.com/gradnight/superlatives/pkg/response"
	"github.com/gradnight/superlatives/pkg/utils"
)

// JoinRequest is the body for POST /session/join.
type JoinRequest struct {
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=admin graduating guest"`
	Passcode string `json:"passcode"` // only checked for admin when configured
	Token    string `json:"token"`    // previous token, to keep the same participant id
}

// TokenResponse is the join response with the participant token.
type TokenResponse struct {
	Token       string             `json:"token"`
	Participant models.Participant `json:"participant"`
}

// Handler handles participant identity endpoints. Roles are client-declared
// capability tags; nothing here proves who the device belongs to.
type Handler struct {
	repo              *Repository
	jwt               *JWTService
	adminPasscodeHash string // empty = admin role is trusted as declared
	logger            *zap.Logger
}

// NewHandler creates an identity handler. adminPasscode may be empty.
func NewHandler(repo *Repository, jwt *JWTService, adminPasscode string, logger *zap.Logger) *Handler {
	h := &Handler{repo: repo, jwt: jwt, logger: logger}
	if adminPasscode != "" {
		hash, err := utils.HashPasscode(adminPasscode)
		if err == nil {
			h.adminPasscodeHash = hash
		} else {
			logger.Warn("admin passcode hash failed, admin role will be trusted", zap.Error(err))
		}
	}
	return h
}

// Join handles POST /session/join. A valid previous token keeps the same
// participant identity across reconnects; otherwise a new participant row is
// created and a fresh token issued.
func (h *Handler) Join(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	role := models.Role(req.Role)
	if role == models.RoleAdmin && h.adminPasscodeHash != "" {
		if !utils.CheckPasscode(req.Passcode, h.adminPasscodeHash) {
			response.Forbidden(c, "invalid admin passcode")
			return
		}
	}

	// Rejoin path: same device, same participant id.
	if req.Token != "" {
		if claims, err := h.jwt.Validate(req.Token); err == nil {
			if p, err := h.repo.GetByID(c.Request.Context(), claims.ParticipantID); err == nil {
				token, err := h.jwt.Generate(p.ID, p.Name, p.Role)
				if err != nil {
					response.Internal(c, "failed to generate token")
					return
				}
				response.OK(c, TokenResponse{Token: token, Participant: *p})
				return
			}
		}
		// Stale or reset-away identity: fall through to a fresh join.
	}

	p, err := h.repo.Create(c.Request.Context(), req.Name, role)
	if err != nil {
		response.Internal(c, "failed to create participant")
		return
	}

	token, err := h.jwt.Generate(p.ID, p.Name, p.Role)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}

	h.logger.Info("participant joined",
		zap.String("participant_id", p.ID.String()),
		zap.String("role", string(p.Role)),
	)
	response.Created(c, TokenResponse{Token: token, Participant: *p})
}

// List handles GET /participants (admin).
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list participants")
		return
	}
	response.OK(c, gin.H{"participants": list})
}
