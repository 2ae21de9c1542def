package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/crossroads/internal/config"
	"github.com/aretw0/crossroads/internal/logging"
	"github.com/aretw0/crossroads/pkg/adapters/file"
	"github.com/aretw0/crossroads/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/crossroads/pkg/adapters/redis"
	"github.com/aretw0/crossroads/pkg/persistence/middleware"
	"github.com/aretw0/crossroads/pkg/ports"
)

// Backend is the session persistence selected by configuration.
// Locker and Sink are nil unless Redis is configured.
type Backend struct {
	Kind   string
	Store  ports.DialogStore
	Locker ports.DistributedLocker
	Sink   ports.ReplySink
	close  func() error
}

// Close releases the backend connections.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenBackend picks the dialog store: Redis when redis.addr is set, the file
// store when sessions.dir is set, memory otherwise. Encryption and redaction
// from sessions.* wrap whichever store is chosen.
func OpenBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	b := &Backend{}

	switch {
	case cfg.Redis.Addr != "":
		store := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisAdapter.WithPrefix(cfg.Redis.Prefix),
			redisAdapter.WithTTL(cfg.Redis.TTL),
		)
		if err := store.Client().Ping(ctx).Err(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("redis unreachable at %s: %w", cfg.Redis.Addr, err)
		}
		b.Kind = "redis"
		b.Store = store
		b.Locker = redisAdapter.NewLocker(store.Client(), cfg.Redis.Prefix)
		b.Sink = redisAdapter.NewReplySink(store.Client(), redisAdapter.DefaultReplyKey)
		b.close = store.Close
	case cfg.Sessions.Dir != "":
		b.Kind = "file"
		b.Store = file.New(cfg.Sessions.Dir)
	default:
		b.Kind = "memory"
		b.Store = memory.NewStore()
	}

	mws, err := sessionMiddlewares(cfg.Sessions)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	b.Store = middleware.Chain(b.Store, mws...)

	logger.Info("Dialog store ready", "kind", b.Kind, "encrypted", cfg.Sessions.EncryptionKey != "", "redact_patterns", len(cfg.Sessions.Redact))
	return b, nil
}

func sessionMiddlewares(cfg config.SessionsConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(cfg.Redact) > 0 {
		pii, err := middleware.NewPIIMiddleware(cfg.Redact)
		if err != nil {
			return nil, err
		}
		mws = append(mws, pii)
	}
	if cfg.EncryptionKey != "" {
		active, err := middleware.ParseKey(cfg.EncryptionKey)
		if err != nil {
			return nil, err
		}
		enc := middleware.EncryptionConfig{ActiveKey: active}
		for _, k := range cfg.FallbackKeys {
			key, err := middleware.ParseKey(k)
			if err != nil {
				return nil, err
			}
			enc.FallbackKeys = append(enc.FallbackKeys, key)
		}
		mw, err := middleware.NewEncryptionMiddleware(enc)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	return mws, nil
}
