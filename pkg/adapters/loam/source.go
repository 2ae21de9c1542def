package loam

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/crossroads/pkg/domain"
	"github.com/aretw0/crossroads/pkg/ports"
)

// ErrNoMessages is returned when a transcript holds no message with the requested role.
var ErrNoMessages = errors.New("no matching transcript message")

// Entry is one transcript message with its document identity.
type Entry struct {
	ID      string
	Seq     int
	Dialect string
	Message domain.Message
}

// Source adapts a Loam repository of markdown transcripts to ports.TranscriptSource.
// Each document is one message: the body is the content, frontmatter carries the role.
type Source struct {
	Repo *loam.TypedRepository[MessageMetadata]
}

var _ ports.TranscriptSource = (*Source)(nil)

// New creates a new Loam transcript source.
func New(repo *loam.TypedRepository[MessageMetadata]) *Source {
	return &Source{Repo: repo}
}

// Open initializes a Loam repository at dir without versioning.
func Open(dir string) (*Source, error) {
	repo, err := loam.Init(dir, loam.WithVersioning(false))
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript repository %s: %w", dir, err)
	}
	return New(loam.NewTypedRepository[MessageMetadata](repo)), nil
}

// Message retrieves one transcript message by document ID ("plan" finds plan.md).
func (s *Source) Message(ctx context.Context, id string) (domain.Message, error) {
	doc, err := s.Repo.Get(ctx, id)
	if err != nil && filepath.Ext(id) == "" {
		doc, err = s.Repo.Get(ctx, id+".md")
	}
	if err != nil {
		return domain.Message{}, fmt.Errorf("loam get failed for %s: %w", id, err)
	}
	return toMessage(doc.Data, doc.Content)
}

// List returns every transcript message ordered by seq, then ID.
func (s *Source) List(ctx context.Context) ([]Entry, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	entries := make([]Entry, 0, len(docs))
	for _, doc := range docs {
		msg, err := toMessage(doc.Data, doc.Content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", doc.ID, err)
		}
		id := doc.Data.ID
		if id == "" {
			id = doc.ID
		}
		entries = append(entries, Entry{
			ID:      trimExtension(id),
			Seq:     doc.Data.Seq,
			Dialect: doc.Data.Dialect,
			Message: msg,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Seq != entries[j].Seq {
			return entries[i].Seq < entries[j].Seq
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

// Latest returns the last message with role.
func (s *Source) Latest(ctx context.Context, role string) (Entry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return Entry{}, err
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Message.Role == role {
			return entries[i], nil
		}
	}
	return Entry{}, fmt.Errorf("%w: role %q", ErrNoMessages, role)
}

// Conversation returns the messages in order, ready for grammar.Inject.
func (s *Source) Conversation(ctx context.Context) ([]domain.Message, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	msgs := make([]domain.Message, len(entries))
	for i, e := range entries {
		msgs[i] = e.Message
	}
	return msgs, nil
}

func toMessage(meta MessageMetadata, content string) (domain.Message, error) {
	role := strings.ToLower(strings.TrimSpace(meta.Role))
	switch role {
	case "":
		role = domain.RoleAssistant
	case domain.RoleAssistant, domain.RoleUser, domain.RoleDeveloper:
	default:
		return domain.Message{}, fmt.Errorf("unknown role %q", meta.Role)
	}
	return domain.Message{Role: role, Content: strings.TrimSpace(content)}, nil
}

func trimExtension(id string) string {
	return strings.TrimSuffix(id, filepath.Ext(id))
}
