package domain

import (
	"fmt"
	"strings"
)

// Conversation roles.
const (
	RoleDeveloper = "developer"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversation item exchanged with the agent.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// InteractionMode selects how the agent session behaves.
type InteractionMode string

const (
	ModeDefault InteractionMode = "default"
	ModePlan    InteractionMode = "plan"
)

// ParseInteractionMode converts a name into an InteractionMode.
func ParseInteractionMode(s string) (InteractionMode, error) {
	switch InteractionMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDefault, "":
		return ModeDefault, nil
	case ModePlan:
		return ModePlan, nil
	default:
		return "", fmt.Errorf("unknown interaction mode %q", s)
	}
}

// UserInput is the outbound event carrying an encoded reply to the agent.
type UserInput struct {
	Text string `json:"text"`
}
