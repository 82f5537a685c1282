package transcript

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeedsGreeting(t *testing.T) {
	s := New("hello")
	require.Equal(t, 1, s.Len())

	first, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, "init", first.ID)
	assert.Equal(t, RoleAssistant, first.Role)
	assert.Equal(t, "hello", first.Text)

	assert.Zero(t, New("").Len())
}

func TestAppendAssignsIDsAndKeepsOrder(t *testing.T) {
	s := New("")
	a := s.Append(Turn{Role: RoleUser, Text: "What is 2x?"})
	b := s.Append(Turn{Role: RoleAssistant, Text: "Let's start by isolating x."})

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.CreatedAt.IsZero())

	turns := s.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, RoleUser, turns[0].Role)
	assert.Equal(t, RoleAssistant, turns[1].Role)
}

func TestTurnsReturnsCopy(t *testing.T) {
	s := New("")
	s.Append(Turn{Role: RoleUser, Text: "original"})

	turns := s.Turns()
	turns[0].Text = "changed"

	assert.Equal(t, "original", s.Turns()[0].Text)
}

func TestConcurrentAppend(t *testing.T) {
	s := New("")
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Append(Turn{Role: RoleUser, Text: "x"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}

func TestMarkdown(t *testing.T) {
	s := New("hi there")
	s.Append(Turn{Role: RoleUser, Image: "data:image/png;base64,AAAA"})

	md := s.Markdown()
	assert.Contains(t, md, "## Tutor")
	assert.Contains(t, md, "hi there")
	assert.Contains(t, md, "## You")
	assert.Contains(t, md, "_[attached image: image/png]_")
	assert.NotContains(t, md, "AAAA")
}
