package ctxlogger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHandlerAddsAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(ContextHandler{Handler: slog.NewJSONHandler(&buf, nil)})

	ctx := AppendCtx(context.Background(), slog.String("request_id", "abc"))
	child := AppendCtx(ctx, slog.String("room_id", "r1"))

	logger.InfoContext(child, "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "abc", record["request_id"])
	assert.Equal(t, "r1", record["room_id"])

	buf.Reset()
	logger.InfoContext(ctx, "parent")
	var parentRecord map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parentRecord))
	_, hasRoom := parentRecord["room_id"]
	assert.False(t, hasRoom, "parent context must not see child attrs")
}
