package tests

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/crossroads/pkg/domain"
	"github.com/aretw0/crossroads/pkg/ports"
)

// DialogStoreContractTest is a reusable test suite that verifies if an adapter complies with ports.DialogStore.
func DialogStoreContractTest(t *testing.T, store ports.DialogStore) {
	t.Helper()
	ctx := context.Background()

	session := &domain.DialogSession{
		ID:      "contract-session",
		Dialect: "strict",
		Round: domain.Round{Questions: []domain.Question{{
			Label:   "Scope",
			Prompt:  "Choose one",
			Kind:    domain.MultiSelect,
			Options: []domain.Option{{Title: "A"}, {Title: "B", Description: "second"}, domain.NewSentinelOption()},
		}}},
		State:     domain.NewDialogState(1),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	session.State.Answers[0].Toggle(1)

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := store.Load(ctx, "missing")
		if err != domain.ErrSessionNotFound {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Save_Load", func(t *testing.T) {
		if err := store.Save(ctx, session.ID, session); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		loaded, err := store.Load(ctx, session.ID)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if loaded.Round.Questions[0].Kind != domain.MultiSelect {
			t.Errorf("kind mismatch: %v", loaded.Round.Questions[0].Kind)
		}
		if got := loaded.State.Answers[0].Selected; len(got) != 1 || got[0] != 1 {
			t.Errorf("answers mismatch: %v", got)
		}
		if !loaded.CreatedAt.Equal(session.CreatedAt) {
			t.Errorf("created_at mismatch: %v != %v", loaded.CreatedAt, session.CreatedAt)
		}
	})

	t.Run("Load_IsIsolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, session.ID)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		loaded.State.Answers[0].Toggle(0)
		again, _ := store.Load(ctx, session.ID)
		if len(again.State.Answers[0].Selected) != 1 {
			t.Errorf("mutating a loaded session changed the store: %v", again.State.Answers[0].Selected)
		}
	})

	t.Run("List", func(t *testing.T) {
		ids, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		found := false
		for _, id := range ids {
			if id == session.ID {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %q in %v", session.ID, ids)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, session.ID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := store.Load(ctx, session.ID); err != domain.ErrSessionNotFound {
			t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
		}
		if err := store.Delete(ctx, session.ID); err != nil {
			t.Errorf("deleting twice should not fail: %v", err)
		}
	})
}
