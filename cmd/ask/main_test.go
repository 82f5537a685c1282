package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir()) // без чужого .env
	t.Setenv("API_KEY", "")
	t.Setenv("AI_PROVIDER", "gemini")
}

func TestRunConnectFailurePrintsReply(t *testing.T) {
	isolateEnv(t)
	var out bytes.Buffer

	code := run(context.Background(), []string{"-text", "help"}, &out, zaptest.NewLogger(t).Sugar())
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "error connecting to my brain")
}

func TestRunStubAnswers(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "session.md")
	var out bytes.Buffer

	code := run(context.Background(), []string{"-provider", "stub", "-text", "where do I start?", "-transcript", path}, &out, zaptest.NewLogger(t).Sugar())
	require.Equal(t, 0, code)
	assert.NotEmpty(t, bytes.TrimSpace(out.Bytes()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "where do I start?")
}

func TestRunNothingToSend(t *testing.T) {
	isolateEnv(t)
	var out bytes.Buffer

	code := run(context.Background(), []string{"-provider", "stub"}, &out, zaptest.NewLogger(t).Sugar())
	assert.Equal(t, 2, code)
	assert.Empty(t, out.String())
}

func TestRunUnreadableImage(t *testing.T) {
	isolateEnv(t)
	var out bytes.Buffer

	code := run(context.Background(), []string{"-provider", "stub", "-image", filepath.Join(t.TempDir(), "missing.png")}, &out, zaptest.NewLogger(t).Sugar())
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "trouble reading that image")
}
