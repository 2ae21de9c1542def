package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/crossroads/pkg/adapters/redis"
	"github.com/aretw0/crossroads/pkg/domain"
	"github.com/aretw0/crossroads/pkg/ports/tests"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func sampleSession(id string) *domain.DialogSession {
	return &domain.DialogSession{
		ID:      id,
		Dialect: "strict",
		Round: domain.Round{Questions: []domain.Question{{
			Label:   "Scope",
			Prompt:  "How far?",
			Kind:    domain.SingleSelect,
			Options: []domain.Option{{Title: "small"}, domain.NewSentinelOption()},
		}}},
		State: domain.NewDialogState(1),
	}
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	tests.DialogStoreContractTest(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	id := "session-ttl"

	require.NoError(t, store.Save(ctx, id, sampleSession(id)))

	sessions, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, sessions, id)

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// The index is pruned against the wall clock, not miniredis time.
	time.Sleep(1200 * time.Millisecond)

	sessions, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()
	id := "my-session"

	require.NoError(t, store.Save(ctx, id, sampleSession(id)))

	assert.True(t, mr.Exists("custom:app:my-session"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, list, id)

	require.NoError(t, store.Delete(ctx, id))
	assert.False(t, mr.Exists("custom:app:my-session"))
}

func TestRedisStore_DefaultPrefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	require.NoError(t, store.Save(context.Background(), "x", sampleSession("x")))
	assert.True(t, mr.Exists(redis.DefaultPrefix+"x"))
	assert.Same(t, client, store.Client())
}

func TestRedisStore_CorruptValue(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	require.NoError(t, mr.Set(redis.DefaultPrefix+"bad", "{not json"))
	_, err := store.Load(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}
