package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/crossroads/pkg/adapters/memory"
	"github.com/aretw0/crossroads/pkg/persistence/middleware"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlying := memory.NewStore()
	mw, err := middleware.NewPIIMiddleware([]string{`[\w.]+@[\w.]+`, `sk-[A-Za-z0-9]+`})
	require.NoError(t, err)
	secure := mw(underlying)
	ctx := context.Background()

	session := secretSession("pii", "mail ops@example.com with sk-abc123")
	session.Reply = "ops@example.com"
	require.NoError(t, secure.Save(ctx, "pii", session))

	assert.Equal(t, "mail ops@example.com with sk-abc123", session.State.Answers[0].FreeText,
		"middleware must not modify the caller's session")

	stored, err := underlying.Load(ctx, "pii")
	require.NoError(t, err)
	assert.Equal(t, "mail *** with ***", stored.State.Answers[0].FreeText)
	assert.Equal(t, "***", stored.Reply)
}

func TestPIIMiddleware_InvalidPattern(t *testing.T) {
	_, err := middleware.NewPIIMiddleware([]string{"("})
	assert.Error(t, err)
}

func TestChain_Order(t *testing.T) {
	underlying := memory.NewStore()
	pii, err := middleware.NewPIIMiddleware([]string{"secret"})
	require.NoError(t, err)
	store := middleware.Chain(underlying, pii, encrypted(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)}))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "c", secretSession("c", "a secret")))

	stored, err := underlying.Load(ctx, "c")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Sealed, "encryption runs innermost")

	loaded, err := store.Load(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "a ***", loaded.State.Answers[0].FreeText)
}
