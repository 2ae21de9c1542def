package domain

import "time"

// DialogSession is an in-flight answer dialog held by a headless surface (HTTP, MCP).
// It is removed once the dialog completes; past rounds are not kept.
type DialogSession struct {
	ID        string      `json:"id"`
	Dialect   string      `json:"dialect"`
	Round     Round       `json:"round"`
	State     DialogState `json:"state"`
	Reply     string      `json:"reply,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	// Sealed holds the encrypted session body when a store encrypts at rest.
	// Round, State and Reply are zero in a sealed session.
	Sealed string `json:"sealed,omitempty"`
}

// Clone returns a deep copy of the session.
func (s *DialogSession) Clone() *DialogSession {
	out := *s
	out.Round = s.Round.Clone()
	out.State = s.State.Clone()
	return &out
}
