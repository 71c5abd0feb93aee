package presence

import (
	"github.com/gin-gonic/gin"

	"github.com/gradnight/superlatives/pkg/response"
)

// Handler serves the attendee list.
type Handler struct {
	repo *Repository
}

// NewHandler creates a presence handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Attendees handles GET /session/attendees (admin).
func (h *Handler) Attendees(c *gin.Context) {
	list, err := h.repo.ListAttendees(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list attendees")
		return
	}
	if list == nil {
		list = []AttendeeRow{}
	}
	response.OK(c, gin.H{"attendees": list})
}
