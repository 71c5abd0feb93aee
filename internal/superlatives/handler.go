package superlatives

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gradnight/superlatives/internal/models"
	"github.com/gradnight/superlatives/pkg/response"
	"github.com/gradnight/superlatives/pkg/storage"
)

// SessionGuard reports whether a session run is in progress. Catalog writes
// are blocked mid-session; questions are immutable once voting has begun.
type SessionGuard interface {
	Started(ctx context.Context) (bool, error)
}

// NomineeRequest is one nominee in a create/update body.
type NomineeRequest struct {
	Name     string `json:"name" binding:"required"`
	ImageRef string `json:"image_ref"`
}

// CreateRequest is the body for POST /superlatives.
type CreateRequest struct {
	Title    string           `json:"title" binding:"required"`
	Nominees []NomineeRequest `json:"nominees" binding:"required,min=1,dive"`
}

// Handler handles superlative catalog endpoints (admin setup surface).
type Handler struct {
	repo   *Repository
	guard  SessionGuard
	s3     *storage.S3 // nil when object storage is not configured
	logger *zap.Logger
}

// NewHandler creates a superlatives handler.
func NewHandler(repo *Repository, guard SessionGuard, s3 *storage.S3, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, guard: guard, s3: s3, logger: logger}
}

func toNominees(reqs []NomineeRequest) ([]models.Nominee, bool) {
	seen := make(map[string]struct{}, len(reqs))
	nominees := make([]models.Nominee, 0, len(reqs))
	for _, n := range reqs {
		if _, dup := seen[n.Name]; dup {
			return nil, false
		}
		seen[n.Name] = struct{}{}
		nominees = append(nominees, models.Nominee{Name: n.Name, ImageRef: n.ImageRef})
	}
	return nominees, true
}

func (h *Handler) rejectMidSession(c *gin.Context) bool {
	started, err := h.guard.Started(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to check session state")
		return true
	}
	if started {
		response.Conflict(c, "catalog is locked while a session is in progress")
		return true
	}
	return false
}

// Create handles POST /superlatives (admin).
func (h *Handler) Create(c *gin.Context) {
	if h.rejectMidSession(c) {
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	nominees, ok := toNominees(req.Nominees)
	if !ok {
		response.BadRequest(c, "nominee names must be unique within a superlative")
		return
	}
	s, err := h.repo.Create(c.Request.Context(), req.Title, nominees)
	if err != nil {
		response.Internal(c, "failed to create superlative")
		return
	}
	response.Created(c, s)
}

// List handles GET /superlatives (any participant; drives client rendering).
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list superlatives")
		return
	}
	if list == nil {
		list = []models.Superlative{}
	}
	response.OK(c, gin.H{"superlatives": list})
}

// Get handles GET /superlatives/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid superlative id")
		return
	}
	s, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "superlative not found")
		return
	}
	response.OK(c, s)
}

// Update handles PATCH /superlatives/:id (admin, setup only).
func (h *Handler) Update(c *gin.Context) {
	if h.rejectMidSession(c) {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid superlative id")
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	nominees, ok := toNominees(req.Nominees)
	if !ok {
		response.BadRequest(c, "nominee names must be unique within a superlative")
		return
	}
	s, err := h.repo.Update(c.Request.Context(), id, req.Title, nominees)
	if err != nil {
		response.NotFound(c, "superlative not found")
		return
	}
	response.OK(c, s)
}

// Delete handles DELETE /superlatives/:id (admin, setup only).
func (h *Handler) Delete(c *gin.Context) {
	if h.rejectMidSession(c) {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid superlative id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete superlative")
		return
	}
	response.NoContent(c)
}

// Duplicate handles POST /superlatives/:id/duplicate (admin, setup only).
func (h *Handler) Duplicate(c *gin.Context) {
	if h.rejectMidSession(c) {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid superlative id")
		return
	}
	s, err := h.repo.Duplicate(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "superlative not found")
		return
	}
	response.Created(c, s)
}

// UploadNomineeImage handles POST /superlatives/:id/nominees/:name/image
// (admin). Stores the image in S3 and records its key as the nominee's
// image ref.
func (h *Handler) UploadNomineeImage(c *gin.Context) {
	if h.s3 == nil {
		response.BadRequest(c, "object storage is not configured")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid superlative id")
		return
	}
	nomineeName := c.Param("name")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if header.Size > storage.MaxImageSize {
		response.BadRequest(c, "image exceeds maximum size")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !storage.ValidateImageType(contentType, header.Filename) {
		response.BadRequest(c, "unsupported image type")
		return
	}

	key := storage.ImageKey(id.String(), header.Filename)
	if _, err := h.s3.UploadImage(c.Request.Context(), key, contentType, file); err != nil {
		h.logger.Error("image upload failed", zap.Error(err))
		response.Internal(c, "failed to upload image")
		return
	}
	if err := h.repo.SetNomineeImage(c.Request.Context(), id, nomineeName, key); err != nil {
		response.BadRequest(c, "failed to attach image: "+err.Error())
		return
	}
	response.OK(c, gin.H{"image_ref": key})
}

// NomineeImageURL handles GET /superlatives/:id/nominees/:name/image-url.
// Returns a time-limited URL for the nominee's stored image.
func (h *Handler) NomineeImageURL(c *gin.Context) {
	if h.s3 == nil {
		response.BadRequest(c, "object storage is not configured")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid superlative id")
		return
	}
	s, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "superlative not found")
		return
	}
	nomineeName := c.Param("name")
	for _, n := range s.Nominees {
		if n.Name == nomineeName && n.ImageRef != "" {
			url, err := h.s3.PresignGet(c.Request.Context(), n.ImageRef)
			if err != nil {
				response.Internal(c, "failed to presign image url")
				return
			}
			response.OK(c, gin.H{"url": url})
			return
		}
	}
	response.NotFound(c, "nominee image not found")
}
