package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/crossroads/pkg/adapters/memory"
	"github.com/aretw0/crossroads/pkg/domain"
	"github.com/aretw0/crossroads/pkg/ports/tests"
)

func TestMemoryStore_Contract(t *testing.T) {
	tests.DialogStoreContractTest(t, memory.NewStore())
}

func TestMemoryStore_SaveIsIsolated(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	s := &domain.DialogSession{
		ID:    "a",
		Round: domain.Round{Questions: []domain.Question{{Label: "Q", Options: []domain.Option{{Title: "x"}, domain.NewSentinelOption()}}}},
		State: domain.NewDialogState(1),
	}
	require.NoError(t, store.Save(ctx, "a", s))

	s.Round.Questions[0].Options[0].Title = "mutated"
	s.State.Answers[0].SetFreeText("mutated")

	loaded, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "x", loaded.Round.Questions[0].Options[0].Title)
	assert.Empty(t, loaded.State.Answers[0].FreeText)

	require.NoError(t, store.Save(ctx, "b", s))
	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestOutbox(t *testing.T) {
	out := memory.NewOutbox(1)
	ctx := context.Background()

	require.NoError(t, out.Send(ctx, domain.UserInput{Text: "1\n2"}))
	assert.ErrorIs(t, out.Send(ctx, domain.UserInput{Text: "again"}), memory.ErrOutboxFull)

	got := <-out.Replies()
	assert.Equal(t, "1\n2", got.Text)

	out.Close()
	out.Close()
	_, ok := <-out.Replies()
	assert.False(t, ok)
	assert.Error(t, out.Send(ctx, domain.UserInput{Text: "late"}))
}
