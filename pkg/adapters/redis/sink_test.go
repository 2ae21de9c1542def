package redis_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/crossroads/pkg/adapters/redis"
	"github.com/aretw0/crossroads/pkg/domain"
)

func TestReplySink_Send(t *testing.T) {
	mr, client := newClient(t)
	sink := redis.NewReplySink(client, "")
	ctx := context.Background()

	require.NoError(t, sink.Send(ctx, domain.UserInput{Text: "2\n1,3"}))
	require.NoError(t, sink.Send(ctx, domain.UserInput{Text: "1"}))

	items, err := mr.List(redis.DefaultReplyKey)
	require.NoError(t, err)
	require.Len(t, items, 2)

	var first domain.UserInput
	require.NoError(t, json.Unmarshal([]byte(items[0]), &first))
	assert.Equal(t, "2\n1,3", first.Text)
}

func TestReplySink_CustomKey(t *testing.T) {
	_, client := newClient(t)
	sink := redis.NewReplySink(client, "agent:42:inbox")
	ctx := context.Background()

	require.NoError(t, sink.Send(ctx, domain.UserInput{Text: "1"}))

	got, err := client.LPop(ctx, "agent:42:inbox").Result()
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"1"}`, got)
}
