package dlog

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesToRedisSink(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	var buf bytes.Buffer
	SetOutput(&buf)
	RdsClientToLog = client
	t.Cleanup(func() { RdsClientToLog = nil })

	Info().Str("article", "a1").Msg("article saved")

	assert.Contains(t, buf.String(), "article saved")
	members, err := client.ZRange(context.Background(), "newsroomlog:"+getMachineName(), 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.True(t, strings.Contains(members[0], `"article":"a1"`))
}

func TestDebugLinesSkipRedisSink(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(-1)
	t.Cleanup(func() { SetLevel(1) })
	RdsClientToLog = client
	t.Cleanup(func() { RdsClientToLog = nil })

	Debug().Msg("noisy")

	assert.Contains(t, buf.String(), "noisy")
	assert.False(t, mr.Exists("newsroomlog:"+getMachineName()))
}
