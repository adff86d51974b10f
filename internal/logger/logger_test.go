package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithContext_FallsBackToBase(t *testing.T) {
	assert.Same(t, Default(), WithContext(context.Background()))
}

func TestWith_CarriesAttributes(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, "debug", true)
	t.Cleanup(func() { Setup(&bytes.Buffer{}, "info", false) })

	ctx := With(context.Background(), "request_id", "abc123")
	ctx = With(ctx, "user_id", "u-1")
	WithContext(ctx).Info("booking created")

	out := buf.String()
	assert.Contains(t, out, `"request_id":"abc123"`)
	assert.Contains(t, out, `"user_id":"u-1"`)
	assert.Contains(t, out, `"msg":"booking created"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}
