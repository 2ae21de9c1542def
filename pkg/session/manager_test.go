package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/crossroads/internal/runtime"
	"github.com/aretw0/crossroads/pkg/adapters/memory"
	"github.com/aretw0/crossroads/pkg/domain"
	"github.com/aretw0/crossroads/pkg/session"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string]*domain.DialogSession
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, id string, ds *domain.DialogSession) error {
	time.Sleep(10 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.DialogSession)
	}
	s.data[id] = ds.Clone()
	return nil
}

func (s *SlowStore) Load(ctx context.Context, id string) (*domain.DialogSession, error) {
	time.Sleep(10 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if ds, ok := s.data[id]; ok {
		return ds.Clone(), nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *SlowStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func multiRound() domain.Round {
	return domain.Round{Questions: []domain.Question{
		{
			Label:  "Tests",
			Prompt: "Which suites?",
			Kind:   domain.MultiSelect,
			Options: []domain.Option{
				{Title: "unit"}, {Title: "integration"}, {Title: "e2e"}, {Title: "fuzz"},
				domain.NewSentinelOption(),
			},
		},
		{
			Label:   "Scope",
			Prompt:  "How far?",
			Kind:    domain.SingleSelect,
			Options: []domain.Option{{Title: "small"}, {Title: "large"}, domain.NewSentinelOption()},
		},
	}}
}

func TestManager_ApplySerializesWrites(t *testing.T) {
	manager := session.NewManager(&SlowStore{})
	ctx := context.Background()

	s, err := manager.Open(ctx, "strict", multiRound())
	require.NoError(t, err)

	// Each toggle is a read-modify-write; without the lock some would be lost.
	var wg sync.WaitGroup
	for digit := 1; digit <= 4; digit++ {
		wg.Add(1)
		go func(d int) {
			defer wg.Done()
			_, err := manager.Apply(ctx, s.ID, runtime.QuickSelect(d))
			assert.NoError(t, err)
		}(digit)
	}
	wg.Wait()

	loaded, err := manager.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, loaded.State.Answers[0].Selected)
}

func TestManager_ApplySubmitRemovesSession(t *testing.T) {
	outbox := memory.NewOutbox(1)
	var submitted string
	manager := session.NewManager(memory.NewStore(),
		session.WithReplySink(outbox),
		session.WithLifecycleHooks(domain.LifecycleHooks{
			OnSubmitted: func(_ context.Context, ev *domain.DialogEvent) { submitted = ev.Reply },
		}),
	)
	ctx := context.Background()

	s, err := manager.Open(ctx, "lenient", multiRound())
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "lenient", s.Dialect)

	s, err = manager.Apply(ctx, s.ID, runtime.QuickSelect(1), runtime.QuickSelect(3), runtime.NavigateRight)
	require.NoError(t, err)
	assert.False(t, s.State.Complete)
	assert.Equal(t, 1, s.State.ActiveTab)

	s, err = manager.Apply(ctx, s.ID, runtime.QuickSelect(2), runtime.Activate)
	require.NoError(t, err)
	assert.True(t, s.State.Submitted)
	assert.Equal(t, "1,3\n2", s.Reply)
	assert.Equal(t, s.Reply, submitted)
	assert.Equal(t, "1,3\n2", (<-outbox.Replies()).Text)

	_, err = manager.Load(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestManager_ApplyCancel(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	s, err := manager.Open(ctx, "strict", multiRound())
	require.NoError(t, err)

	s, err = manager.Apply(ctx, s.ID, runtime.Cancel)
	require.NoError(t, err)
	assert.True(t, s.State.Complete)
	assert.False(t, s.State.Submitted)
	assert.Empty(t, s.Reply)
}

func TestManager_Errors(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := manager.Open(ctx, "strict", domain.Round{})
	assert.ErrorIs(t, err, domain.ErrInvalidRound)

	_, err = manager.Apply(ctx, "missing", runtime.Activate)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.NoError(t, manager.Delete(ctx, "missing"))
}

func TestManager_FreeTextSurvivesRestore(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	s, err := manager.Open(ctx, "strict", multiRound())
	require.NoError(t, err)

	s, err = manager.Apply(ctx, s.ID, runtime.QuickSelect(5), runtime.Input("only"))
	require.NoError(t, err)
	assert.True(t, s.State.Editing)

	s, err = manager.Apply(ctx, s.ID, runtime.Input(" smoke"), runtime.CommitFreeText)
	require.NoError(t, err)
	assert.False(t, s.State.Editing)
	assert.Equal(t, "only smoke", s.State.Answers[0].FreeText)
	assert.Empty(t, s.State.Answers[0].Selected)
}
