// Package conversation holds the per-session transcript and active mode.
package conversation

import (
	"slices"

	"github.com/google/uuid"

	"charterbot/internal/domain"
)

// State is an append-only transcript plus the active service mode.
// A State belongs to one session and is not safe for concurrent use.
type State struct {
	id    string
	mode  domain.Mode
	turns []domain.Turn
}

// New starts an empty session in the default mode.
func New() *State {
	return &State{id: uuid.NewString(), mode: domain.DefaultMode}
}

// ID identifies the session in logs.
func (s *State) ID() string { return s.id }

// Mode returns the active service mode.
func (s *State) Mode() domain.Mode { return s.mode }

// SetMode switches the active mode. Invalid values select the default mode.
func (s *State) SetMode(m domain.Mode) {
	if !m.Valid() {
		m = domain.DefaultMode
	}
	s.mode = m
}

// AppendUser records a user message.
func (s *State) AppendUser(text string) {
	s.turns = append(s.turns, domain.Turn{Role: domain.RoleUser, Content: text})
}

// AppendAssistant records an assistant reply.
func (s *State) AppendAssistant(text string) {
	s.turns = append(s.turns, domain.Turn{Role: domain.RoleAssistant, Content: text})
}

// Clear drops every turn; the mode is kept.
func (s *State) Clear() { s.turns = nil }

// Len is the number of turns in the transcript.
func (s *State) Len() int { return len(s.turns) }

// Turns returns a copy of the whole transcript.
func (s *State) Turns() []domain.Turn { return slices.Clone(s.turns) }

// Recent returns the last min(Len, window) turns in original order.
func (s *State) Recent(window int) []domain.Turn {
	if window <= 0 || len(s.turns) == 0 {
		return nil
	}
	start := len(s.turns) - window
	if start < 0 {
		start = 0
	}
	return slices.Clone(s.turns[start:])
}
