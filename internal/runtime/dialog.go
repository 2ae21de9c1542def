package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/crossroads/internal/logging"
	"github.com/aretw0/crossroads/pkg/codec"
	"github.com/aretw0/crossroads/pkg/domain"
	"github.com/aretw0/crossroads/pkg/ports"
)

// MsgIncomplete is shown when the operator tries to submit with unanswered questions.
const MsgIncomplete = "Answer all questions to submit."

// View is the widget capability the surfaces drive.
type View interface {
	HandleEvent(ctx context.Context, ev Event) error
	DesiredHeight(width int) int
	Render(width int) string
	IsComplete() bool
	Cancel(ctx context.Context)
}

var _ View = (*Dialog)(nil)

// Dialog is the answer-collection state machine for one Round.
// It is not safe for concurrent use; events are processed one at a time.
type Dialog struct {
	round  domain.Round
	state  domain.DialogState
	editor ports.TextEditor
	sink   ports.ReplySink
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	reply  string
}

// DialogOption configures a Dialog.
type DialogOption func(*Dialog)

// WithReplySink sets where the encoded reply is delivered on submit.
func WithReplySink(sink ports.ReplySink) DialogOption {
	return func(d *Dialog) {
		d.sink = sink
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) DialogOption {
	return func(d *Dialog) {
		d.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) DialogOption {
	return func(d *Dialog) {
		d.logger = logger
	}
}

// NewDialog creates a dialog positioned on the first question.
func NewDialog(round domain.Round, editor ports.TextEditor, opts ...DialogOption) (*Dialog, error) {
	return Restore(round, domain.NewDialogState(len(round.Questions)), editor, opts...)
}

// Restore rebuilds a dialog from a persisted state.
func Restore(round domain.Round, state domain.DialogState, editor ports.TextEditor, opts ...DialogOption) (*Dialog, error) {
	if err := round.Validate(); err != nil {
		return nil, err
	}
	if len(state.Answers) != len(round.Questions) {
		return nil, fmt.Errorf("%w: %d answers for %d questions", domain.ErrInvalidRound, len(state.Answers), len(round.Questions))
	}
	if state.ActiveTab < 0 || state.ActiveTab > len(round.Questions) {
		return nil, fmt.Errorf("%w: active tab %d out of range", domain.ErrInvalidRound, state.ActiveTab)
	}
	if state.Editing && state.ActiveTab == len(round.Questions) {
		return nil, fmt.Errorf("%w: editing on the submit tab", domain.ErrInvalidRound)
	}
	if err := codec.ValidatePartial(round, state.Answers); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRound, err)
	}
	if editor == nil {
		return nil, fmt.Errorf("text editor is required")
	}

	d := &Dialog{
		round:  round,
		state:  state.Clone(),
		editor: editor,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.state.Editing {
		d.editor.SetText(d.state.Answers[d.state.ActiveTab].FreeText)
	}
	if d.state.Submitted {
		d.reply = codec.Encode(d.round, d.state.Answers)
	}
	return d, nil
}

// Round returns the round being answered.
func (d *Dialog) Round() domain.Round {
	return d.round
}

// Snapshot returns a copy of the persistent model.
func (d *Dialog) Snapshot() domain.DialogState {
	return d.state.Clone()
}

// IsComplete reports whether the dialog reached its terminal state.
func (d *Dialog) IsComplete() bool {
	return d.state.Complete
}

// IsEditing reports whether the operator is typing a free-text answer.
func (d *Dialog) IsEditing() bool {
	return d.state.Editing
}

// Reply returns the encoded reply once the dialog has been submitted.
func (d *Dialog) Reply() (string, bool) {
	return d.reply, d.state.Submitted
}

// Editor exposes the free-text editor for surfaces that render it themselves.
func (d *Dialog) Editor() ports.TextEditor {
	return d.editor
}

// HandleEvent applies one operator input.
// It returns domain.ErrDialogComplete once the dialog has finished.
func (d *Dialog) HandleEvent(ctx context.Context, ev Event) error {
	if d.state.Complete {
		return domain.ErrDialogComplete
	}
	if ev.Kind == EventCancel {
		d.Cancel(ctx)
		return nil
	}
	if d.state.Editing {
		return d.handleEditing(ctx, ev)
	}

	switch ev.Kind {
	case EventNavigateLeft:
		d.moveLeft()
	case EventNavigateRight:
		d.moveRight(ctx)
	case EventCursorUp:
		d.moveCursor(-1)
	case EventCursorDown:
		d.moveCursor(1)
	case EventActivate:
		d.activate(ctx)
	case EventQuickSelect:
		d.quickSelect(ctx, ev.Digit)
	case EventFreeTextInput, EventFreeTextPaste, EventFreeTextDelete, EventCommitFreeText:
		// Only meaningful while editing.
	default:
		return fmt.Errorf("unknown event %v", ev.Kind)
	}
	return nil
}

func (d *Dialog) handleEditing(ctx context.Context, ev Event) error {
	switch ev.Kind {
	case EventNavigateLeft:
		d.moveLeft()
	case EventNavigateRight, EventActivate:
		d.commitFreeText()
		d.moveRight(ctx)
	case EventCursorUp, EventCursorDown:
	case EventQuickSelect:
		d.editor.InsertString(fmt.Sprint(ev.Digit))
		d.mirrorFreeText()
	case EventFreeTextInput:
		d.editor.InsertString(ev.Text)
		d.mirrorFreeText()
	case EventFreeTextPaste:
		pasted := domain.NormalizeSpace(ev.Text)
		if pasted == "" {
			return nil
		}
		d.editor.InsertString(pasted)
		d.mirrorFreeText()
	case EventFreeTextDelete:
		d.editor.DeleteBackward()
		d.mirrorFreeText()
	case EventCommitFreeText:
		d.commitFreeText()
	default:
		return fmt.Errorf("unknown event %v", ev.Kind)
	}
	return nil
}

// Cancel ends the dialog without producing a reply.
func (d *Dialog) Cancel(ctx context.Context) {
	if d.state.Complete {
		return
	}
	d.state.Complete = true
	d.state.Editing = false
	d.logger.Debug("Decision dialog cancelled", "tab", d.state.ActiveTab)
	if d.hooks.OnCancelled != nil {
		d.hooks.OnCancelled(ctx, &domain.DialogEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventCancelled},
			ActiveTab: d.state.ActiveTab,
		})
	}
}

func (d *Dialog) onSubmitTab() bool {
	return d.state.ActiveTab >= len(d.round.Questions)
}

func (d *Dialog) moveLeft() {
	if d.state.ActiveTab == 0 {
		return
	}
	d.commitFreeText()
	d.state.ActiveTab--
	d.resetCursor()
}

func (d *Dialog) moveRight(ctx context.Context) {
	last := len(d.round.Questions)
	if d.state.ActiveTab >= last {
		return
	}
	d.commitFreeText()
	d.state.ActiveTab++
	if d.state.ActiveTab == last && d.state.AllAnswered() {
		d.submit(ctx)
		return
	}
	d.resetCursor()
}

func (d *Dialog) resetCursor() {
	d.state.Editing = false
	d.state.Cursor = 0
}

func (d *Dialog) moveCursor(delta int) {
	if d.onSubmitTab() {
		return
	}
	n := len(d.round.Questions[d.state.ActiveTab].Options)
	d.state.Cursor = ((d.state.Cursor+delta)%n + n) % n
}

func (d *Dialog) quickSelect(ctx context.Context, digit int) {
	if d.onSubmitTab() {
		return
	}
	idx := digit - 1
	if idx < 0 || idx >= len(d.round.Questions[d.state.ActiveTab].Options) {
		return
	}
	d.state.Cursor = idx
	d.activate(ctx)
}

func (d *Dialog) activate(ctx context.Context) {
	d.state.Error = ""
	if d.onSubmitTab() {
		d.submit(ctx)
		return
	}

	tab := d.state.ActiveTab
	q := d.round.Questions[tab]
	idx := d.state.Cursor
	if idx < 0 || idx >= len(q.Options) {
		return
	}
	answer := &d.state.Answers[tab]

	if q.Options[idx].IsFreeText {
		existing := answer.FreeText
		answer.SetFreeText(existing)
		d.editor.SetText(existing)
		d.state.Editing = true
		return
	}

	switch q.Kind {
	case domain.SingleSelect:
		answer.SetSelected(idx)
		d.moveRight(ctx)
	case domain.MultiSelect:
		answer.Toggle(idx)
	}
}

// mirrorFreeText copies the live editor buffer into the current answer.
func (d *Dialog) mirrorFreeText() {
	d.state.Answers[d.state.ActiveTab].SetFreeText(d.editor.Text())
}

func (d *Dialog) commitFreeText() {
	if !d.state.Editing {
		return
	}
	normalized := domain.NormalizeSpace(d.editor.Text())
	d.state.Answers[d.state.ActiveTab].SetFreeText(normalized)
	d.editor.SetText(normalized)
	d.state.Editing = false
}

func (d *Dialog) submit(ctx context.Context) {
	d.commitFreeText()

	if !d.state.AllAnswered() {
		d.state.Error = MsgIncomplete
		d.state.ActiveTab = 0
		d.resetCursor()
		d.logger.Debug("Submission refused", "err", domain.ErrIncompleteAnswers)
		if d.hooks.OnSubmitRefused != nil {
			d.hooks.OnSubmitRefused(ctx, &domain.DialogEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSubmitRefused},
				Error:     d.state.Error,
			})
		}
		return
	}

	d.reply = codec.Encode(d.round, d.state.Answers)
	d.state.Complete = true
	d.state.Submitted = true

	if d.sink != nil {
		if err := d.sink.Send(ctx, domain.UserInput{Text: d.reply}); err != nil {
			d.logger.Error("Failed to deliver reply", "err", err)
		}
	}
	d.logger.Info("Decision round submitted", "questions", len(d.round.Questions))

	if d.hooks.OnSubmitted != nil {
		d.hooks.OnSubmitted(ctx, &domain.DialogEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSubmitted},
			ActiveTab: d.state.ActiveTab,
			Reply:     d.reply,
		})
	}
}
