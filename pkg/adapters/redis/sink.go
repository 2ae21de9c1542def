package redis

import (
	"context"
	"encoding/json"
	"fmt"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/crossroads/pkg/domain"
	"github.com/aretw0/crossroads/pkg/ports"
)

// DefaultReplyKey is the list submitted replies are pushed to.
const DefaultReplyKey = "crossroads:replies"

// ReplySink pushes submitted replies onto a Redis list as JSON UserInput values.
// The agent side pops them with BLPOP.
type ReplySink struct {
	client *backend.Client
	key    string
}

var _ ports.ReplySink = (*ReplySink)(nil)

// NewReplySink creates a sink writing to key; an empty key uses DefaultReplyKey.
func NewReplySink(client *backend.Client, key string) *ReplySink {
	if key == "" {
		key = DefaultReplyKey
	}
	return &ReplySink{client: client, key: key}
}

func (s *ReplySink) Send(ctx context.Context, input domain.UserInput) error {
	data, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal reply: %w", err)
	}
	if err := s.client.RPush(ctx, s.key, data).Err(); err != nil {
		return fmt.Errorf("failed to push reply: %w", err)
	}
	return nil
}
