package grammar

import (
	"bufio"
	"log/slog"
	"strings"

	"github.com/aretw0/crossroads/internal/logging"
	"github.com/aretw0/crossroads/pkg/domain"
)

// Repairs counts the silent normalizations applied while building a Round.
type Repairs struct {
	QuestionsTruncated int `json:"questions_truncated,omitempty"`
	OptionsTruncated   int `json:"options_truncated,omitempty"`
	SentinelsAppended  int `json:"sentinels_appended,omitempty"`
	SentinelsMoved     int `json:"sentinels_moved,omitempty"`
	FreeTextForced     int `json:"free_text_forced,omitempty"`
	QuestionsDropped   int `json:"questions_dropped,omitempty"`
}

// Total returns the number of repairs, not counting appended sentinels
// (the instructions let the agent omit them).
func (r Repairs) Total() int {
	return r.QuestionsTruncated + r.OptionsTruncated + r.SentinelsMoved + r.FreeTextForced + r.QuestionsDropped
}

// Parser extracts decision rounds from agent messages.
// It is stateless and safe for concurrent use.
type Parser struct {
	dialect Dialect
	logger  *slog.Logger
}

// Option configures the Parser.
type Option func(*Parser)

// WithDialect selects the dialect (default: Strict).
func WithDialect(d Dialect) Option {
	return func(p *Parser) {
		p.dialect = d
	}
}

// WithLogger configures a logger for repair diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		dialect: Strict,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dialect returns the dialect the parser was built with.
func (p *Parser) Dialect() Dialect {
	return p.dialect
}

// Parse returns the decision round found in text, or false when there is none.
func (p *Parser) Parse(text string) (domain.Round, bool) {
	round, _, ok := p.Analyze(text)
	return round, ok
}

// Analyze is Parse plus a report of the repairs applied to the agent's output.
func (p *Parser) Analyze(text string) (domain.Round, Repairs, bool) {
	var repairs Repairs

	questions := scan(text)
	if len(questions) == 0 {
		return domain.Round{}, repairs, false
	}

	if len(questions) > domain.MaxQuestions {
		repairs.QuestionsTruncated = len(questions) - domain.MaxQuestions
		questions = questions[:domain.MaxQuestions]
	}

	kept := questions[:0]
	for _, q := range questions {
		p.normalizeOptions(&q, &repairs)
		if len(q.Options) < domain.MinOptions {
			repairs.QuestionsDropped++
			p.logger.Debug("Dropping question without choices", "label", q.Label)
			continue
		}
		kept = append(kept, q)
	}

	if repairs.Total() > 0 {
		p.logger.Debug("Repaired decision round",
			"dialect", p.dialect.Name,
			"questions_truncated", repairs.QuestionsTruncated,
			"options_truncated", repairs.OptionsTruncated,
			"sentinels_moved", repairs.SentinelsMoved,
			"free_text_forced", repairs.FreeTextForced,
			"questions_dropped", repairs.QuestionsDropped,
		)
	}

	if len(kept) == 0 {
		return domain.Round{}, repairs, false
	}
	return domain.Round{Questions: kept}, repairs, true
}

// normalizeOptions caps the options and leaves exactly one free-text option, last.
func (p *Parser) normalizeOptions(q *domain.Question, repairs *Repairs) {
	if len(q.Options) > domain.MaxOptions {
		repairs.OptionsTruncated += len(q.Options) - domain.MaxOptions
		q.Options = q.Options[:domain.MaxOptions]
	}

	free := -1
	for i, opt := range q.Options {
		if opt.IsFreeText {
			if free < 0 {
				free = i
				continue
			}
			// Only one option may take free text; later matches are ordinary choices.
			q.Options[i].IsFreeText = false
		}
	}

	switch {
	case free >= 0:
		if free != len(q.Options)-1 {
			opt := q.Options[free]
			q.Options = append(q.Options[:free], q.Options[free+1:]...)
			q.Options = append(q.Options, opt)
			repairs.SentinelsMoved++
		}
	case len(q.Options) < domain.MaxOptions:
		q.Options = append(q.Options, domain.NewSentinelOption())
		repairs.SentinelsAppended++
	default:
		last := &q.Options[len(q.Options)-1]
		last.IsFreeText = true
		if p.dialect.RelabelForced {
			last.Title = domain.SentinelTitle
			last.Description = ""
		}
		repairs.FreeTextForced++
	}
}

// scan walks the decision-points section and collects raw questions.
func scan(text string) []domain.Question {
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	found := false
	for sc.Scan() {
		if isHeader(sc.Text()) {
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	var (
		questions []domain.Question
		current   *domain.Question
		option    *domain.Option
	)

	flushOption := func() {
		if current != nil && option != nil {
			current.Options = append(current.Options, *option)
		}
		option = nil
	}
	flushQuestion := func() {
		flushOption()
		if current != nil {
			questions = append(questions, *current)
		}
		current = nil
	}
	openOption := func(text string) {
		if current == nil {
			return
		}
		flushOption()
		opt := parseOption(text)
		option = &opt
	}

	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if isStopLine(line) {
			break
		}

		if num, rest, ok := numberedLine(line); ok {
			if looksLikeQuestion(rest) {
				flushQuestion()
				q := parseQuestion(num, rest)
				current = &q
				continue
			}
			openOption(rest)
			continue
		}

		if rest, ok := bulletLine(line); ok {
			openOption(rest)
			continue
		}

		if option != nil {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				appendDescription(option, trimmed)
			}
		}
	}
	flushQuestion()

	return questions
}

var defaultParser = New()

// Parse runs the default (strict) parser.
func Parse(text string) (domain.Round, bool) {
	return defaultParser.Parse(text)
}
