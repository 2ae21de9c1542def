package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/crossroads/pkg/domain"
	"github.com/aretw0/crossroads/pkg/ports"
)

// Mask replaces redacted text.
const Mask = "***"

type piiMiddleware struct {
	next     ports.DialogStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks matches of patterns in
// free-text answers and replies before they reach the store.
// The in-memory dialog keeps the operator's text; only the persisted copy is masked.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.DialogStore) ports.DialogStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, id string, session *domain.DialogSession) error {
	cloned := session.Clone()
	for i := range cloned.State.Answers {
		a := &cloned.State.Answers[i]
		a.FreeText = m.mask(a.FreeText)
	}
	cloned.Reply = m.mask(cloned.Reply)
	return m.next.Save(ctx, id, cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, id string) (*domain.DialogSession, error) {
	return m.next.Load(ctx, id)
}

func (m *piiMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) mask(s string) string {
	for _, p := range m.patterns {
		s = p.ReplaceAllString(s, Mask)
	}
	return s
}
