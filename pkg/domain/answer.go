package domain

import (
	"sort"
	"strings"
)

// Answer holds the operator's response to one Question.
// Selected and FreeText are mutually exclusive: setting one clears the other.
type Answer struct {
	Selected []int  `json:"selected,omitempty"`
	FreeText string `json:"free_text,omitempty"`
}

// IsEmpty reports whether the answer carries neither a selection nor non-blank text.
func (a Answer) IsEmpty() bool {
	return strings.TrimSpace(a.FreeText) == "" && len(a.Selected) == 0
}

// SetSelected replaces the selection with a single index and clears free text.
func (a *Answer) SetSelected(idx int) {
	a.Selected = []int{idx}
	a.FreeText = ""
}

// Toggle adds idx to the selection (keeping it ascending) or removes it if present.
// Free text is cleared.
func (a *Answer) Toggle(idx int) {
	a.FreeText = ""
	pos := sort.SearchInts(a.Selected, idx)
	if pos < len(a.Selected) && a.Selected[pos] == idx {
		a.Selected = append(a.Selected[:pos], a.Selected[pos+1:]...)
		return
	}
	a.Selected = append(a.Selected, 0)
	copy(a.Selected[pos+1:], a.Selected[pos:])
	a.Selected[pos] = idx
}

// SetFreeText stores text and clears the selection.
func (a *Answer) SetFreeText(text string) {
	a.FreeText = text
	a.Selected = nil
}

// Contains reports whether idx is selected.
func (a Answer) Contains(idx int) bool {
	pos := sort.SearchInts(a.Selected, idx)
	return pos < len(a.Selected) && a.Selected[pos] == idx
}

// NormalizeSpace collapses runs of whitespace to single spaces and trims the ends.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// DialogState is the persistent model of one answer dialog.
// ActiveTab == len(Answers) denotes the virtual submit tab.
type DialogState struct {
	ActiveTab int      `json:"active_tab"`
	Answers   []Answer `json:"answers"`
	Cursor    int      `json:"cursor"`
	Editing   bool     `json:"editing,omitempty"`
	Error     string   `json:"error,omitempty"`
	Complete  bool     `json:"complete,omitempty"`
	Submitted bool     `json:"submitted,omitempty"`
}

// NewDialogState creates the initial state for a round of n questions.
func NewDialogState(n int) DialogState {
	return DialogState{Answers: make([]Answer, n)}
}

// AllAnswered reports whether every answer is non-empty.
func (s DialogState) AllAnswered() bool {
	for _, a := range s.Answers {
		if a.IsEmpty() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the state.
func (s DialogState) Clone() DialogState {
	out := s
	out.Answers = make([]Answer, len(s.Answers))
	for i, a := range s.Answers {
		out.Answers[i] = Answer{FreeText: a.FreeText}
		if a.Selected != nil {
			out.Answers[i].Selected = append([]int(nil), a.Selected...)
		}
	}
	return out
}
