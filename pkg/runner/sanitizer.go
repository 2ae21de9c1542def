package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize bounds one line of operator input (4KB).
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize overrides DefaultMaxInputSize.
	EnvMaxInputSize = "CROSSROADS_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeInput rejects oversized or invalid UTF-8 input and strips control
// characters other than tab, so escape sequences typed or pasted by the operator
// never reach the reply sent to the agent.
func SanitizeInput(input string) (string, error) {
	limit := MaxInputSize()
	if len(input) > limit {
		// Reject, never truncate.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	if strings.IndexFunc(input, isUnsafeControl) < 0 {
		return input, nil
	}
	return strings.Map(func(r rune) rune {
		if isUnsafeControl(r) {
			return -1
		}
		return r
	}, input), nil
}

func isUnsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\t'
}

// MaxInputSize returns the effective input limit.
func MaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
