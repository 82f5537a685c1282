package tutor

import (
	"context"
	"errors"
	"testing"

	"MathTutor/internal/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestManagerInitializeUsesFixedConfig(t *testing.T) {
	p := &fakeProvider{session: &fakeSession{}}
	cfg := ai.SessionConfig{Model: "m", SystemInstruction: "sys", ReasoningBudget: 32768}
	m := NewManager(func(context.Context) (ai.Provider, error) { return p, nil }, cfg, zaptest.NewLogger(t).Sugar())

	_, ok := m.Current()
	assert.False(t, ok, "no session before initialize")

	require.NoError(t, m.Initialize(context.Background()))
	s, ok := m.Current()
	require.True(t, ok)
	assert.Same(t, p.session, s)
	assert.Equal(t, []ai.SessionConfig{cfg}, p.created)
	assert.Equal(t, "fake", m.Provider())
}

func TestManagerReinitializeReplacesSession(t *testing.T) {
	first, second := &fakeSession{reply: "1"}, &fakeSession{reply: "2"}
	p := &fakeProvider{session: first}
	m := NewManager(func(context.Context) (ai.Provider, error) { return p, nil }, ai.SessionConfig{}, zaptest.NewLogger(t).Sugar())

	require.NoError(t, m.Initialize(context.Background()))
	p.session = second
	require.NoError(t, m.Initialize(context.Background()))

	s, ok := m.Current()
	require.True(t, ok)
	assert.Same(t, second, s)
	assert.Len(t, p.created, 2)
}

func TestManagerSessionFailureLeavesNoSession(t *testing.T) {
	p := &fakeProvider{session: &fakeSession{}}
	m := NewManager(func(context.Context) (ai.Provider, error) { return p, nil }, ai.SessionConfig{}, zaptest.NewLogger(t).Sugar())
	require.NoError(t, m.Initialize(context.Background()))

	p.sessionErr = errors.New("model not found")
	err := m.Initialize(context.Background())

	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "fake", ce.Provider)
	_, ok := m.Current()
	assert.False(t, ok)
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("boom")
	assert.ErrorIs(t, &UpstreamError{Err: cause}, cause)
	assert.Equal(t, "boom", (&UpstreamError{Err: cause}).Error())
	assert.ErrorIs(t, &SessionNotReadyError{}, errChatNotInitialized)
	assert.Equal(t, "Chat is not initialized.", (&SessionNotReadyError{}).Error())
	assert.Contains(t, (&ConfigurationError{Provider: "gemini", Err: cause}).Error(), "gemini")
}
