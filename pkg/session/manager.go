package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/crossroads/internal/logging"
	"github.com/aretw0/crossroads/internal/runtime"
	"github.com/aretw0/crossroads/pkg/adapters/editor"
	"github.com/aretw0/crossroads/pkg/domain"
	"github.com/aretw0/crossroads/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates access to in-flight dialog sessions.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.DialogStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker    ports.DistributedLocker
	lockTTL   time.Duration
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	sink      ports.ReplySink
	newEditor func() ports.TextEditor
	now       func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithLifecycleHooks forwards hooks to every restored dialog.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithReplySink delivers the reply of every submitted session to sink.
func WithReplySink(sink ports.ReplySink) Option {
	return func(m *Manager) {
		m.sink = sink
	}
}

// WithEditorFactory sets the free-text editor used when a dialog is restored.
func WithEditorFactory(fn func() ports.TextEditor) Option {
	return func(m *Manager) {
		m.newEditor = fn
	}
}

// NewManager creates a new session manager over store.
func NewManager(store ports.DialogStore, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		locks:     make(map[string]*lockEntry),
		lockTTL:   DefaultLockTTL,
		logger:    logging.NewNop(),
		newEditor: func() ports.TextEditor { return editor.New() },
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// Open starts a new dialog session for round and persists it.
func (m *Manager) Open(ctx context.Context, dialect string, round domain.Round) (*domain.DialogSession, error) {
	if _, err := runtime.NewDialog(round, m.newEditor()); err != nil {
		return nil, err
	}

	now := m.now().UTC()
	s := &domain.DialogSession{
		ID:        uuid.NewString(),
		Dialect:   dialect,
		Round:     round.Clone(),
		State:     domain.NewDialogState(len(round.Questions)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := m.WithLock(ctx, s.ID, func(ctx context.Context) error {
		return m.store.Save(ctx, s.ID, s)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	m.logger.Debug("Dialog session opened", "session_id", s.ID, "questions", len(round.Questions))
	return s, nil
}

// Apply feeds events to the session's dialog and persists the resulting state.
// Events after completion are ignored. A completed session is removed from the
// store; the returned session still carries its final state and reply.
func (m *Manager) Apply(ctx context.Context, id string, events ...runtime.Event) (*domain.DialogSession, error) {
	var out *domain.DialogSession
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		s, err := m.store.Load(ctx, id)
		if err != nil {
			return err
		}
		d, err := m.Restore(s)
		if err != nil {
			return err
		}

		for _, ev := range events {
			if err := d.HandleEvent(ctx, ev); err != nil {
				if errors.Is(err, domain.ErrDialogComplete) {
					break
				}
				return err
			}
		}

		s.State = d.Snapshot()
		s.UpdatedAt = m.now().UTC()
		if reply, ok := d.Reply(); ok {
			s.Reply = reply
		}
		out = s

		if s.State.Complete {
			m.logger.Debug("Dialog session complete", "session_id", id, "submitted", s.State.Submitted)
			return m.store.Delete(ctx, id)
		}
		return m.store.Save(ctx, id, s)
	})
	return out, err
}

// Restore rebuilds the live dialog of a session with the manager's hooks and sink.
func (m *Manager) Restore(s *domain.DialogSession) (*runtime.Dialog, error) {
	opts := []runtime.DialogOption{
		runtime.WithLogger(m.logger.With("session_id", s.ID)),
		runtime.WithLifecycleHooks(m.hooks),
	}
	if m.sink != nil {
		opts = append(opts, runtime.WithReplySink(m.sink))
	}
	return runtime.Restore(s.Round, s.State, m.newEditor(), opts...)
}

// Load retrieves an in-flight session.
func (m *Manager) Load(ctx context.Context, id string) (*domain.DialogSession, error) {
	var s *domain.DialogSession
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		s, err = m.store.Load(ctx, id)
		return err
	})
	return s, err
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying dialog store.
func (m *Manager) Store() ports.DialogStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
