package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the capability tag a participant carries. It is client-declared
// and trusted; it only controls which operations are offered.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleGraduating Role = "graduating"
	RoleGuest      Role = "guest"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleGraduating, RoleGuest:
		return true
	}
	return false
}

// Participant is a joined device identity. The ID is opaque and stable for
// the device via the token it receives on join.
type Participant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
}
