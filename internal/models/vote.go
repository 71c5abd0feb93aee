package models

import (
	"time"

	"github.com/google/uuid"
)

// Vote is one participant's vote on one superlative. At most one row exists
// per (superlative, participant); re-voting overwrites NomineeName in place
// and keeps the original CastAt, so tie-break order is reproducible from the
// ledger alone.
type Vote struct {
	ID              uuid.UUID `json:"id"`
	SuperlativeID   uuid.UUID `json:"superlative_id"`
	ParticipantID   uuid.UUID `json:"participant_id"`
	ParticipantRole Role      `json:"participant_role"`
	NomineeName     string    `json:"nominee_name"`
	CastAt          time.Time `json:"cast_at"` // server-assigned at first insert
}
