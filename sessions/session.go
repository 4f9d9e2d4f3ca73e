package sessions

import (
	"sync"

	"github.com/google/uuid"
)

// State is the single holder of the current identity token for one portal session.
// It only stores data; the rules for when it changes live in the auth controller.
type State struct {
	mu        sync.RWMutex
	idToken   string // Raw identity token, empty when logged out
	sessionID string // Correlation ID assigned on every token change
}

// NewState creates an empty, unauthenticated session state
func NewState() *State {
	return &State{}
}

func (s *State) IDToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idToken
}

// SetIDToken replaces the token. Any data derived from the previous token goes with it.
func (s *State) SetIDToken(idToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idToken = idToken
	s.sessionID = ""
	if idToken != "" {
		s.sessionID = uuid.NewString()
	}
}

func (s *State) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

func (s *State) IsSet() bool {
	return s.IDToken() != ""
}

// ResetUserData clears the token and everything derived from it in one step.
func (s *State) ResetUserData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idToken = ""
	s.sessionID = ""
}
