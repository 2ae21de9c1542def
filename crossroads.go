package crossroads

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/crossroads/internal/logging"
	"github.com/aretw0/crossroads/internal/runtime"
	"github.com/aretw0/crossroads/pkg/adapters/editor"
	"github.com/aretw0/crossroads/pkg/codec"
	"github.com/aretw0/crossroads/pkg/domain"
	"github.com/aretw0/crossroads/pkg/grammar"
	"github.com/aretw0/crossroads/pkg/ports"
)

// EditorFactory creates the free-text editor for a new dialog.
type EditorFactory func() ports.TextEditor

// Engine is the high-level entry point for the decision-point protocol.
// It binds one dialect to the parser, the instruction contract and every dialog it creates.
type Engine struct {
	dialect   grammar.Dialect
	parser    *grammar.Parser
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	sink      ports.ReplySink
	newEditor EditorFactory
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithDialect selects the instruction/parsing dialect (default: strict).
func WithDialect(d grammar.Dialect) Option {
	return func(e *Engine) {
		e.dialect = d
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithReplySink sets where submitted replies are delivered.
func WithReplySink(sink ports.ReplySink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithEditorFactory replaces the default textarea-backed editor.
func WithEditorFactory(f EditorFactory) Option {
	return func(e *Engine) {
		e.newEditor = f
	}
}

// New initializes an Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{
		dialect: grammar.Strict,
	}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.newEditor == nil {
		eng.newEditor = func() ports.TextEditor { return editor.New() }
	}
	eng.logger = eng.logger.With("dialect", eng.dialect.Name)
	eng.parser = grammar.New(grammar.WithDialect(eng.dialect), grammar.WithLogger(eng.logger))
	return eng
}

// Dialect returns the configured dialect.
func (e *Engine) Dialect() grammar.Dialect {
	return e.dialect
}

// Parse extracts the decision round from an agent message.
// It returns false when the message carries no decision points; callers then
// handle the message as ordinary output.
func (e *Engine) Parse(ctx context.Context, message string) (domain.Round, bool) {
	round, repairs, ok := e.parser.Analyze(message)
	if !ok {
		return domain.Round{}, false
	}
	if e.hooks.OnRoundParsed != nil {
		e.hooks.OnRoundParsed(ctx, &domain.RoundEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRoundParsed},
			Dialect:   e.dialect.Name,
			Questions: len(round.Questions),
			Repairs:   repairs.Total(),
		})
	}
	return round, true
}

// NewDialog starts an answer dialog for round.
func (e *Engine) NewDialog(round domain.Round) (*Dialog, error) {
	return runtime.NewDialog(round, e.newEditor(), e.dialogOptions()...)
}

// RestoreDialog resumes a dialog from a snapshot taken with Dialog.Snapshot.
func (e *Engine) RestoreDialog(round domain.Round, state domain.DialogState) (*Dialog, error) {
	return runtime.Restore(round, state, e.newEditor(), e.dialogOptions()...)
}

func (e *Engine) dialogOptions() []runtime.DialogOption {
	opts := []runtime.DialogOption{
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithLogger(e.logger),
	}
	if e.sink != nil {
		opts = append(opts, runtime.WithReplySink(e.sink))
	}
	return opts
}

// Instructions returns the developer-instruction block for the dialect.
func (e *Engine) Instructions() string {
	return grammar.Instructions(e.dialect)
}

// Inject adds the instruction block to a conversation when mode is plan.
func (e *Engine) Inject(messages []domain.Message, mode domain.InteractionMode) []domain.Message {
	return grammar.Inject(messages, mode, e.dialect)
}

// Encode formats answers as the reply the agent expects.
func (e *Engine) Encode(round domain.Round, answers []domain.Answer) string {
	return codec.Encode(round, answers)
}

// Decode parses a reply back into answers.
func (e *Engine) Decode(round domain.Round, reply string) ([]domain.Answer, error) {
	return codec.Decode(round, reply)
}
