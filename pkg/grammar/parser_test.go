package grammar_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/aretw0/crossroads/pkg/domain"
	"github.com/aretw0/crossroads/pkg/grammar"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scopeRound(opts ...domain.Option) domain.Round {
	return domain.Round{Questions: []domain.Question{{
		Label:   "Scope",
		Prompt:  "Choose one",
		Kind:    domain.SingleSelect,
		Options: opts,
	}}}
}

func TestParse_Shapes(t *testing.T) {
	want := scopeRound(
		domain.Option{Title: "Option A"},
		domain.Option{Title: "Option B"},
		domain.NewSentinelOption(),
	)

	tests := []struct {
		name string
		text string
	}{
		{
			name: "unindented options",
			text: "Decision points\n1) **Scope** (single-select): Choose one\n1. Option A\n2. Option B\n",
		},
		{
			name: "indented options",
			text: "Decision points\n1) **Scope** (single-select): Choose one\n  1. Option A\n  2. Option B\n",
		},
		{
			name: "colon separators",
			text: "Decision points\n1: **Scope** (single-select): Choose one\n  1: Option A\n  2: Option B\n",
		},
		{
			name: "bullet options",
			text: "Decision points\n1) **Scope** (single-select): Choose one\n- Option A\n- Option B\n",
		},
		{
			name: "star bullets and heading",
			text: "## Decision points\n1. **Scope** (single-select): Choose one\n  * Option A\n  * Option B\n",
		},
		{
			name: "header with suffix",
			text: "Decision points: round 1 of 5\n1) **Scope** (single-select): Choose one\n  1. Option A\n  2. Option B\n",
		},
		{
			name: "crlf line endings",
			text: "Decision points\r\n1) **Scope** (single-select): Choose one\r\n  1. Option A\r\n  2. Option B\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			round, ok := grammar.Parse(tt.text)
			require.True(t, ok, "expected a round")
			if diff := cmp.Diff(want, round); diff != "" {
				t.Errorf("round mismatch (-want +got):\n%s", diff)
			}
			assert.NoError(t, round.Validate())
		})
	}
}

func TestParse_NoRound(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no section", "no decision section here"},
		{"header without questions", "Decision points\nNothing to decide.\n"},
		{"header lookalike", "Decision pointsless rambling\n1) **Scope**: x\n  1. A\n"},
		{"options before any question", "Decision points\n  1. Option A\n  2. Option B\n"},
		{"question without options", "Decision points\n1) **Scope** (single-select): Choose one\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := grammar.Parse(tt.text)
			assert.False(t, ok)
		})
	}
}

func TestParse_StopsAtSectionEnd(t *testing.T) {
	text := `Goal
Ship it.

Decision points
1) **Scope** (single-select): Choose one
  1. Option A
  2. Option B

Checkpoints
1) **Not a question** (single-select): ignored
  1. Nope
`
	round, ok := grammar.Parse(text)
	require.True(t, ok)
	require.Len(t, round.Questions, 1)
	assert.Len(t, round.Questions[0].Options, 3)
}

func TestParse_MultilineDescription(t *testing.T) {
	text := `Decision points
1) **Scope** (single-select): Choose one
  1. Option A
     This is a longer description
     that spans multiple lines.
  2. Option B - short one
  3. Option C — dashed
`
	round, ok := grammar.Parse(text)
	require.True(t, ok)
	opts := round.Questions[0].Options
	assert.Equal(t, "Option A", opts[0].Title)
	assert.Equal(t, "This is a longer description that spans multiple lines.", opts[0].Description)
	assert.Equal(t, domain.Option{Title: "Option B", Description: "short one"}, opts[1])
	assert.Equal(t, domain.Option{Title: "Option C", Description: "dashed"}, opts[2])
}

func TestParse_QuestionDetails(t *testing.T) {
	text := `Decision points
1) **Targets** (multi-select): Which platforms?
  1. Linux
  2. macOS
2) Pick the storage backend (single-select)
  1. Redis
3) Select all that apply: — features
  1. Search
4) ****: (single-select) empty bold
  1. A
`
	round, ok := grammar.Parse(text)
	require.True(t, ok)
	require.Len(t, round.Questions, 4)

	q := round.Questions
	assert.Equal(t, "Targets", q[0].Label)
	assert.Equal(t, "Which platforms?", q[0].Prompt)
	assert.Equal(t, domain.MultiSelect, q[0].Kind)

	assert.Equal(t, "Question 2", q[1].Label)
	assert.Equal(t, "Pick the storage backend", q[1].Prompt)
	assert.Equal(t, domain.SingleSelect, q[1].Kind)

	assert.Equal(t, "Question 3", q[2].Label)
	assert.Equal(t, domain.MultiSelect, q[2].Kind)
	assert.Equal(t, "Select all that apply: — features", q[2].Prompt)

	assert.Equal(t, "Question 4", q[3].Label, "empty bold span is not a label")
}

func TestParse_PromptFallsBackToOriginal(t *testing.T) {
	text := "Decision points\n1) **Scope** (single-select)\n  1. A\n"
	round, ok := grammar.Parse(text)
	require.True(t, ok)
	assert.Equal(t, "**Scope** (single-select)", round.Questions[0].Prompt)
}

func TestParse_TruncatesQuestions(t *testing.T) {
	var b strings.Builder
	b.WriteString("Decision points\n")
	for i := 1; i <= 7; i++ {
		fmt.Fprintf(&b, "%d) **Q%d** (single-select): pick\n  1. Yes\n  2. No\n", i, i)
	}

	round, repairs, ok := grammar.New().Analyze(b.String())
	require.True(t, ok)
	assert.Len(t, round.Questions, domain.MaxQuestions)
	assert.Equal(t, "Q5", round.Questions[4].Label)
	assert.Equal(t, 2, repairs.QuestionsTruncated)
	assert.NoError(t, round.Validate())
}

func TestParse_FreeTextNormalization(t *testing.T) {
	t.Run("existing free-text option moves last", func(t *testing.T) {
		text := "Decision points\n1) **Scope** (single-select): Choose one\n  1. (None) Type your answer\n  2. A\n  3. B\n"
		round, repairs, ok := grammar.New().Analyze(text)
		require.True(t, ok)
		opts := round.Questions[0].Options
		require.Len(t, opts, 3)
		assert.Equal(t, "A", opts[0].Title)
		assert.True(t, opts[2].IsFreeText)
		assert.Equal(t, 1, repairs.SentinelsMoved)
	})

	t.Run("agent-written sentinel is not duplicated", func(t *testing.T) {
		text := "Decision points\n1) **Scope** (single-select): Choose one\n  1. A\n  2. Type something else\n"
		round, ok := grammar.Parse(text)
		require.True(t, ok)
		opts := round.Questions[0].Options
		require.Len(t, opts, 2)
		assert.Equal(t, "Type something else", opts[1].Title)
		assert.True(t, opts[1].IsFreeText)
	})

	t.Run("second free-text match is demoted", func(t *testing.T) {
		text := "Decision points\n1) **Scope** (single-select): Choose one\n  1. A\n  2. (none) of these\n  3. Type your answer\n"
		round, ok := grammar.Parse(text)
		require.True(t, ok)
		assert.NoError(t, round.Validate())
	})

	t.Run("sixth option truncated", func(t *testing.T) {
		text := "Decision points\n1) **Scope** (single-select): Choose one\n  1. A\n  2. B\n  3. C\n  4. D\n  5. E\n  6. F\n"
		round, repairs, ok := grammar.New().Analyze(text)
		require.True(t, ok)
		assert.Len(t, round.Questions[0].Options, domain.MaxOptions)
		assert.Equal(t, 1, repairs.OptionsTruncated)
		assert.Equal(t, 1, repairs.FreeTextForced)
	})
}

func TestParse_ForcedFreeTextRelabel(t *testing.T) {
	text := `Decision points
1) **Scope** (single-select): Choose one
  1. Option A
  2. Option B
  3. Option C
  4. Option D
  5. Option E - the last one
`
	t.Run("relabels by default", func(t *testing.T) {
		round, ok := grammar.Parse(text)
		require.True(t, ok)
		opts := round.Questions[0].Options
		require.Len(t, opts, 5)
		assert.Equal(t, "Option A", opts[0].Title)
		assert.Equal(t, "Option D", opts[3].Title)
		assert.Equal(t, domain.NewSentinelOption(), opts[4])
	})

	t.Run("keeps wording when relabel is off", func(t *testing.T) {
		d := grammar.Strict
		d.RelabelForced = false
		round, ok := grammar.New(grammar.WithDialect(d)).Parse(text)
		require.True(t, ok)
		last := round.Questions[0].Options[4]
		assert.Equal(t, "Option E", last.Title)
		assert.Equal(t, "the last one", last.Description)
		assert.True(t, last.IsFreeText)
	})
}

func TestParse_InvariantsHoldForMessyInput(t *testing.T) {
	inputs := []string{
		"# Decision points —\n1) **A**\n  1. x\n  2. y\n  3. z\n  4. w\n  5. v\n  6. u\n2) **B** multi select\n- one\n- two\n",
		"decision points <round>\n1- **Only**: go\n  1) (none)\n  2) real\n",
		"Decision points\n1) **One** select all\n  1. x\n2) **Two** (single-select)\n3) **Three** (single-select)\n  1. y\n",
	}
	for i, in := range inputs {
		t.Run(fmt.Sprintf("input-%d", i), func(t *testing.T) {
			round, ok := grammar.Parse(in)
			require.True(t, ok)
			assert.NoError(t, round.Validate())
		})
	}
}
