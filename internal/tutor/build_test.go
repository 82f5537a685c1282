package tutor

import (
	"context"
	"testing"

	"MathTutor/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewFromConfigStub(t *testing.T) {
	cfg := config.Defaults()
	cfg.Provider = "stub"

	o := NewFromConfig(cfg, zaptest.NewLogger(t).Sugar())
	require.NoError(t, o.Connect(context.Background()))
	assert.Equal(t, "stub", o.sessions.Provider())
	assert.NotNil(t, o.Encoder())

	first, ok := o.Transcript().Last()
	require.True(t, ok)
	assert.Equal(t, cfg.Greeting, first.Text)

	out := o.SendTurn(context.Background(), "where do I begin?", nil)
	assert.Equal(t, StatusAnswered, out.Status)
	assert.Equal(t, 3, o.Transcript().Len())
}

func TestNewFromConfigMissingKey(t *testing.T) {
	cfg := config.Defaults()
	cfg.APIKey = ""

	o := NewFromConfig(cfg, zaptest.NewLogger(t).Sugar())
	err := o.Connect(context.Background())
	require.Error(t, err)

	last, _ := o.Transcript().Last()
	assert.Equal(t, initErrorReply, last.Text)
}
