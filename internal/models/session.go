package models

import "time"

// SessionState is the single shared cursor every client converges on.
// Exactly one row exists; it is created with defaults on first read and
// mutated only by admin transitions.
type SessionState struct {
	SessionStarted        bool      `json:"session_started"`
	CurrentQuestionIndex  int       `json:"current_question_index"`
	ResultRevealed        bool      `json:"result_revealed"`
	AllQuestionsCompleted bool      `json:"all_questions_completed"`
	JoinURL               string    `json:"join_url"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// VotingOpen reports whether a vote may currently be cast.
func (s *SessionState) VotingOpen() bool {
	return s.SessionStarted && !s.ResultRevealed && !s.AllQuestionsCompleted
}
