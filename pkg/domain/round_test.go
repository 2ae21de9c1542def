package domain_test

import (
	"testing"

	"github.com/aretw0/crossroads/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func question(opts ...domain.Option) domain.Question {
	return domain.Question{Label: "Q", Prompt: "p", Options: opts}
}

func TestRound_Validate(t *testing.T) {
	a := domain.Option{Title: "A"}
	s := domain.NewSentinelOption()

	tests := []struct {
		name    string
		round   domain.Round
		wantErr bool
	}{
		{"valid", domain.Round{Questions: []domain.Question{question(a, s)}}, false},
		{"empty", domain.Round{}, true},
		{"too many questions", domain.Round{Questions: []domain.Question{
			question(a, s), question(a, s), question(a, s), question(a, s), question(a, s), question(a, s),
		}}, true},
		{"single option", domain.Round{Questions: []domain.Question{question(s)}}, true},
		{"six options", domain.Round{Questions: []domain.Question{question(a, a, a, a, a, s)}}, true},
		{"no sentinel", domain.Round{Questions: []domain.Question{question(a, a)}}, true},
		{"sentinel not last", domain.Round{Questions: []domain.Question{question(s, a)}}, true},
		{"two sentinels", domain.Round{Questions: []domain.Question{question(a, s, s)}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.round.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidRound)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuestion_FreeTextIndex(t *testing.T) {
	q := question(domain.Option{Title: "A"}, domain.NewSentinelOption())
	assert.Equal(t, 1, q.FreeTextIndex())
	assert.Equal(t, -1, question(domain.Option{Title: "A"}).FreeTextIndex())
}
