package session

import (
	"time"
)

type State int

const (
	StateStart State = iota
	StateChoosing
	StateMovie
	StateTaste
	StateFollowup
)

var stateNames = map[State]string{
	StateStart:    "START",
	StateChoosing: "CHOOSING",
	StateMovie:    "MOVIE",
	StateTaste:    "TASTE",
	StateFollowup: "FOLLOWUP",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Session holds the dialogue state of one conversation. PreviousTopic is the
// last topic state (MOVIE or TASTE) the user went through; nothing else is
// remembered between turns.
type Session struct {
	ID            string    `json:"id"`
	State         State     `json:"state"`
	PreviousTopic State     `json:"previous_topic"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:            id,
		State:         StateStart,
		PreviousTopic: StateStart,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (s *Session) Transition(next State) {
	if next == StateMovie || next == StateTaste {
		s.PreviousTopic = next
	}
	s.State = next
	s.UpdatedAt = time.Now()
}
