package models

import (
	"time"

	"github.com/google/uuid"
)

// Nominee is one candidate within a superlative.
type Nominee struct {
	Name     string `json:"name"`
	ImageRef string `json:"image_ref,omitempty"` // S3 key or external URL
}

// Superlative is one voteable question with an ordered list of nominees.
// Immutable during a started session except FrozenResult, which is attached
// on reveal and cleared on reset.
type Superlative struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Position     int           `json:"position"` // unique ordering key
	Nominees     []Nominee     `json:"nominees"`
	FrozenResult *FrozenResult `json:"frozen_result,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// HasNominee reports whether name is one of the superlative's nominees.
func (s *Superlative) HasNominee(name string) bool {
	for _, n := range s.Nominees {
		if n.Name == name {
			return true
		}
	}
	return false
}

// Winner is one entry in a frozen result. All winners of a question share
// identical score, graduating-vote count and first-vote time.
type Winner struct {
	NomineeName string `json:"nominee_name"`
	ImageRef    string `json:"image_ref,omitempty"`
	Score       int    `json:"score"`
	IsTie       bool   `json:"is_tie"`
}

// FrozenResult is the winner computation snapshot stored on the superlative
// row once revealed, so the summary never re-reads the vote ledger.
type FrozenResult struct {
	Winners    []Winner  `json:"winners"`
	RevealedAt time.Time `json:"revealed_at"`
}
