package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerCarriesEventAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))

	log.WarnObj("article skipped", "article_skipped", map[string]any{
		"url":  "https://example.com/news/a",
		"kind": "body_not_found",
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "article skipped", entries[0].Message)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "article_skipped", ctx["event"])
	assert.Equal(t, "https://example.com/news/a", ctx["url"])
	assert.Equal(t, "body_not_found", ctx["kind"])
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Options{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestNewWithFileSink(t *testing.T) {
	log, err := New(Options{
		Level:     "debug",
		Format:    "json",
		File:      filepath.Join(t.TempDir(), "khobor.log"),
		MaxSizeMB: 1,
	})
	require.NoError(t, err)

	log.InfoObj("hello", "test", nil)
	assert.NoError(t, log.Sync())
}

func TestEnsure(t *testing.T) {
	assert.IsType(t, NopLogger{}, Ensure(nil))

	z := FromZap(nil)
	assert.Same(t, z, Ensure(z))
}
