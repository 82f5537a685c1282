package ai

import (
	"context"
	"testing"

	"github.com/openai/openai-go/v3/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderRequiresKey(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"gemini", "openai", ""} {
		_, err := NewProvider(ctx, name, "", "")
		assert.ErrorIs(t, err, ErrMissingAPIKey, name)
	}
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider(context.Background(), "wolfram", "key", "")
	assert.ErrorContains(t, err, "unknown ai provider")
}

func TestNewProviderOpenAI(t *testing.T) {
	p, err := NewProvider(context.Background(), "OpenAI", "key", "http://localhost:1")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
}

func TestStubSession(t *testing.T) {
	p, err := NewProvider(context.Background(), "stub", "", "")
	require.NoError(t, err)

	s, err := p.NewSession(context.Background(), SessionConfig{SystemInstruction: "be kind"})
	require.NoError(t, err)

	reply, err := s.Send(context.Background(), []Part{TextPart("hi")})
	require.NoError(t, err)
	assert.NotEmpty(t, reply)

	_, err = s.Send(context.Background(), nil)
	assert.Error(t, err)
}

func TestPartKinds(t *testing.T) {
	assert.False(t, TextPart("x").IsImage())
	assert.True(t, ImagePart("image/png", "AAAA").IsImage())
}

func TestReasoningEffort(t *testing.T) {
	assert.Equal(t, shared.ReasoningEffort(""), reasoningEffort(0))
	assert.Equal(t, shared.ReasoningEffortLow, reasoningEffort(1024))
	assert.Equal(t, shared.ReasoningEffortMedium, reasoningEffort(8192))
	assert.Equal(t, shared.ReasoningEffortHigh, reasoningEffort(32768))
}
