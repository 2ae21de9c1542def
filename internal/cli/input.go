package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/crossroads/pkg/adapters/loam"
	"github.com/aretw0/crossroads/pkg/domain"
)

// LatestDoc selects the newest assistant message of a transcript repository.
const LatestDoc = "latest"

// MessageSource says where the agent message comes from.
// Doc takes precedence over File; an empty or "-" File reads stdin.
type MessageSource struct {
	File string
	Doc  string
	Dir  string
}

// Message is an agent message and the dialect its transcript recorded, if any.
type Message struct {
	Text    string
	Dialect string
}

// ReadMessage loads the agent message described by src.
func ReadMessage(ctx context.Context, src MessageSource, stdin io.Reader) (Message, error) {
	if src.Doc != "" {
		return readDoc(ctx, src)
	}

	var (
		data []byte
		err  error
	)
	if src.File == "" || src.File == "-" {
		if stdin == nil {
			return Message{}, errors.New("no message: pass a file or pipe one on stdin")
		}
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(src.File)
	}
	if err != nil {
		return Message{}, fmt.Errorf("failed to read message: %w", err)
	}
	return Message{Text: string(data)}, nil
}

func readDoc(ctx context.Context, src MessageSource) (Message, error) {
	dir := src.Dir
	if dir == "" {
		dir = "."
	}
	source, err := loam.Open(dir)
	if err != nil {
		return Message{}, err
	}

	if strings.EqualFold(src.Doc, LatestDoc) {
		entry, err := source.Latest(ctx, domain.RoleAssistant)
		if err != nil {
			return Message{}, err
		}
		return Message{Text: entry.Message.Content, Dialect: entry.Dialect}, nil
	}

	msg, err := source.Message(ctx, src.Doc)
	if err != nil {
		return Message{}, err
	}
	return Message{Text: msg.Content}, nil
}
