package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/myrjola/casefile/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestContextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&buf, slog.LevelDebug).With("source", "test")

	ctx := logging.WithAttrs(context.Background(), slog.String("slot", "main"))
	ctx = logging.WithAttrs(ctx, slog.String("caseId", "CASE-1"))
	logger.LogAttrs(ctx, slog.LevelInfo, "case completed")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "case completed", record["msg"])
	require.Equal(t, "test", record["source"])
	require.Equal(t, "main", record["slot"])
	require.Equal(t, "CASE-1", record["caseId"])
}

func TestWithAttrs_siblingsDoNotShareAttrs(t *testing.T) {
	parent := logging.WithAttrs(context.Background(), slog.String("a", "1"))
	left := logging.WithAttrs(parent, slog.String("b", "2"))
	right := logging.WithAttrs(parent, slog.String("c", "3"))

	require.Equal(t, []slog.Attr{slog.String("a", "1"), slog.String("b", "2")}, logging.AttrsFromContext(left))
	require.Equal(t, []slog.Attr{slog.String("a", "1"), slog.String("c", "3")}, logging.AttrsFromContext(right))
	require.Nil(t, logging.AttrsFromContext(context.Background()))
}
