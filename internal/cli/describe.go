package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/crossroads/pkg/domain"
)

// DescribeRound writes a one-line summary per question.
func DescribeRound(w io.Writer, round domain.Round) {
	for _, q := range round.Questions {
		fmt.Fprintf(w, "%s: %s (%s, %d options)\n", q.Label, q.Prompt, q.Kind, len(q.Options))
	}
}
