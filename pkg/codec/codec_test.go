package codec_test

import (
	"testing"

	"github.com/aretw0/crossroads/pkg/codec"
	"github.com/aretw0/crossroads/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRound() domain.Round {
	opts := []domain.Option{{Title: "A"}, {Title: "B"}, {Title: "C"}, {Title: "D"}, domain.NewSentinelOption()}
	return domain.Round{Questions: []domain.Question{
		{Label: "One", Kind: domain.SingleSelect, Options: opts},
		{Label: "Many", Kind: domain.MultiSelect, Options: opts},
		{Label: "Own", Kind: domain.SingleSelect, Options: opts},
	}}
}

func TestEncode(t *testing.T) {
	answers := []domain.Answer{
		{Selected: []int{1}},
		{Selected: []int{0, 2, 3}},
		{FreeText: "  use sqlite instead  "},
	}
	assert.Equal(t, "2\n1,3,4\nuse sqlite instead", codec.Encode(testRound(), answers))
}

func TestEncode_FreeTextWinsOverKind(t *testing.T) {
	round := testRound()
	round.Questions = round.Questions[1:2]
	assert.Equal(t, "why not both", codec.Encode(round, []domain.Answer{{FreeText: "why not both"}}))
}

func TestEncode_BlankFreeTextFallsBackToSelection(t *testing.T) {
	round := testRound()
	round.Questions = round.Questions[:1]
	assert.Equal(t, "3", codec.Encode(round, []domain.Answer{{Selected: []int{2}, FreeText: "   "}}))
}

func TestDecode(t *testing.T) {
	answers, err := codec.Decode(testRound(), "2\n4, 1,3\nuse sqlite instead\n")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, answers[0].Selected)
	assert.Equal(t, []int{0, 2, 3}, answers[1].Selected)
	assert.Equal(t, "use sqlite instead", answers[2].FreeText)
}

func TestDecode_OutOfRangeIsFreeText(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  domain.Answer
	}{
		{"sentinel index", "5\n1\n1", domain.Answer{FreeText: "5"}},
		{"zero", "0\n1\n1", domain.Answer{FreeText: "0"}},
		{"list on single-select", "1,2\n1\n1", domain.Answer{FreeText: "1,2"}},
		{"words", "neither\n1\n1", domain.Answer{FreeText: "neither"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers, err := codec.Decode(testRound(), tt.reply)
			require.NoError(t, err)
			assert.Equal(t, tt.want, answers[0])
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	for _, reply := range []string{"1\n1", "1\n1\n1\n1", "1\n\n1"} {
		_, err := codec.Decode(testRound(), reply)
		assert.ErrorIs(t, err, domain.ErrMalformedReply, "reply %q", reply)
	}
}

func TestRoundTrip(t *testing.T) {
	answers := []domain.Answer{
		{Selected: []int{3}},
		{Selected: []int{1, 2}},
		{FreeText: "something else"},
	}
	decoded, err := codec.Decode(testRound(), codec.Encode(testRound(), answers))
	require.NoError(t, err)
	assert.Equal(t, answers, decoded)
}

func TestValidate(t *testing.T) {
	ok := []domain.Answer{{Selected: []int{0}}, {Selected: []int{1, 3}}, {FreeText: "mine"}}
	assert.NoError(t, codec.Validate(testRound(), ok))

	tests := []struct {
		name    string
		answers []domain.Answer
	}{
		{"too few", ok[:2]},
		{"unanswered", []domain.Answer{{Selected: []int{0}}, {}, {FreeText: "x"}}},
		{"two on single", []domain.Answer{{Selected: []int{0, 1}}, {Selected: []int{1}}, {FreeText: "x"}}},
		{"out of range", []domain.Answer{{Selected: []int{7}}, {Selected: []int{1}}, {FreeText: "x"}}},
		{"sentinel index", []domain.Answer{{Selected: []int{4}}, {Selected: []int{1}}, {FreeText: "x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, codec.Validate(testRound(), tt.answers), domain.ErrInvalidAnswer)
		})
	}
}

func TestValidatePartial(t *testing.T) {
	round := testRound()
	assert.NoError(t, codec.ValidatePartial(round, []domain.Answer{{}, {Selected: []int{1}}, {}}))

	tests := []struct {
		name    string
		answers []domain.Answer
	}{
		{"too many", []domain.Answer{{}, {}, {}, {}}},
		{"two on single", []domain.Answer{{Selected: []int{0, 1}}, {}, {}}},
		{"out of range", []domain.Answer{{}, {Selected: []int{0, 9}}, {}}},
		{"negative", []domain.Answer{{Selected: []int{-1}}, {}, {}}},
		{"sentinel index", []domain.Answer{{}, {}, {Selected: []int{4}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, codec.ValidatePartial(round, tt.answers), domain.ErrInvalidAnswer)
		})
	}
}
