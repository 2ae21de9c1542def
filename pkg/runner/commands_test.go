package runner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/crossroads/internal/runtime"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		editing bool
		hasText bool
		want    []runtime.Event
		wantErr bool
	}{
		{"enter activates", "", false, false, []runtime.Event{runtime.Activate}, false},
		{"dot activates", " . ", false, false, []runtime.Event{runtime.Activate}, false},
		{"left", "<", false, false, []runtime.Event{runtime.NavigateLeft}, false},
		{"right word", "Right", false, false, []runtime.Event{runtime.NavigateRight}, false},
		{"up", "u", false, false, []runtime.Event{runtime.CursorUp}, false},
		{"down", "j", false, false, []runtime.Event{runtime.CursorDown}, false},
		{"quit", "q", false, false, []runtime.Event{runtime.Cancel}, false},
		{"digit", "3", false, false, []runtime.Event{runtime.QuickSelect(3)}, false},
		{"digit list", "1,3 4", false, false, []runtime.Event{runtime.QuickSelect(1), runtime.QuickSelect(3), runtime.QuickSelect(4)}, false},
		{"zero", "0", false, false, nil, true},
		{"multi digit", "12", false, false, nil, true},
		{"separators only", ",", false, false, nil, true},
		{"word", "maybe", false, false, nil, true},
		{"editing text", "q", true, false, []runtime.Event{runtime.Input("q")}, false},
		{"editing digits", "42", true, false, []runtime.Event{runtime.Input("42")}, false},
		{"editing continuation", "more", true, true, []runtime.Event{runtime.Input(" more")}, false},
		{"editing commit", "  ", true, true, []runtime.Event{runtime.CommitFreeText}, false},
		{"editing left", "<", true, true, []runtime.Event{runtime.NavigateLeft}, false},
		{"editing right", ">", true, false, []runtime.Event{runtime.NavigateRight}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.line, tt.editing, tt.hasText)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownCommand), "got %v", err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
