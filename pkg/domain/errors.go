package domain

import "errors"

// ErrNoRound is returned when a message carries no recognizable decision-points section.
var ErrNoRound = errors.New("no decision round found")

// ErrInvalidRound is returned when a Round violates its structural invariants.
var ErrInvalidRound = errors.New("invalid round")

// ErrIncompleteAnswers is returned when submission is attempted with unanswered questions.
var ErrIncompleteAnswers = errors.New("answer all questions to submit")

// ErrDialogComplete is returned when an event is sent to a finished dialog.
var ErrDialogComplete = errors.New("dialog already complete")

// ErrSessionNotFound is returned when a dialog session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownDialect is returned when a dialect name is not recognized.
var ErrUnknownDialect = errors.New("unknown dialect")

// ErrMalformedReply is returned when a reply cannot be decoded against a round.
var ErrMalformedReply = errors.New("malformed reply")

// ErrInvalidAnswer is returned when answers do not fit the round they claim to answer.
var ErrInvalidAnswer = errors.New("invalid answer")
