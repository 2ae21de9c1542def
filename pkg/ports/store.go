package ports

import (
	"context"

	"github.com/aretw0/crossroads/pkg/domain"
)

// DialogStore persists in-flight dialog sessions.
type DialogStore interface {
	// Save persists the session under id, replacing any previous value.
	Save(ctx context.Context, id string, session *domain.DialogSession) error

	// Load retrieves a session.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, id string) (*domain.DialogSession, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of stored sessions.
	List(ctx context.Context) ([]string, error)
}

// ReplySink receives the encoded reply of a submitted dialog.
// Delivery is fire-and-forget: the dialog does not retry on error.
type ReplySink interface {
	Send(ctx context.Context, input domain.UserInput) error
}

// ReplySinkFunc adapts a function to ReplySink.
type ReplySinkFunc func(ctx context.Context, input domain.UserInput) error

// Send calls f.
func (f ReplySinkFunc) Send(ctx context.Context, input domain.UserInput) error {
	return f(ctx, input)
}

// TranscriptSource supplies agent-authored messages by ID.
type TranscriptSource interface {
	Message(ctx context.Context, id string) (domain.Message, error)
}
