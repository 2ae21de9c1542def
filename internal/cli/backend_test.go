package cli

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/crossroads/internal/config"
	"github.com/aretw0/crossroads/pkg/domain"
)

const testKey = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="

func TestOpenBackend(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name       string
		mutate     func(*config.Config)
		wantKind   string
		wantLocker bool
	}{
		{name: "memory", mutate: func(c *config.Config) {}, wantKind: "memory"},
		{name: "file", mutate: func(c *config.Config) { c.Sessions.Dir = t.TempDir() }, wantKind: "file"},
		{name: "redis", mutate: func(c *config.Config) { c.Redis.Addr = mr.Addr() }, wantKind: "redis", wantLocker: true},
		{name: "encrypted file", mutate: func(c *config.Config) {
			c.Sessions.Dir = t.TempDir()
			c.Sessions.EncryptionKey = testKey
			c.Sessions.Redact = []string{"secret"}
		}, wantKind: "file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)

			b, err := OpenBackend(context.Background(), cfg, nil)
			require.NoError(t, err)
			defer b.Close()

			assert.Equal(t, tt.wantKind, b.Kind)
			assert.Equal(t, tt.wantLocker, b.Locker != nil)
			assert.Equal(t, tt.wantLocker, b.Sink != nil)

			ctx := context.Background()
			s := &domain.DialogSession{ID: "s1", State: domain.NewDialogState(1)}
			s.State.Answers[0].SetFreeText("a secret")
			require.NoError(t, b.Store.Save(ctx, "s1", s))
			loaded, err := b.Store.Load(ctx, "s1")
			require.NoError(t, err)
			if len(cfg.Sessions.Redact) > 0 {
				assert.Equal(t, "a ***", loaded.State.Answers[0].FreeText)
			} else {
				assert.Equal(t, "a secret", loaded.State.Answers[0].FreeText)
			}
		})
	}
}

func TestOpenBackend_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := config.Default()
	cfg.Redis.Addr = addr
	_, err := OpenBackend(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "redis unreachable")
}
