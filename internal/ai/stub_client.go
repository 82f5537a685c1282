package ai

import (
	"context"
	"errors"
)

const stubReply = "Let's take it one step at a time. What kind of problem do you think this is?"

// StubProvider заглушка, которая не делает реальных запросов
type StubProvider struct{}

func NewStubProvider() *StubProvider { return &StubProvider{} }

func (p *StubProvider) Name() string { return "stub" }

func (p *StubProvider) NewSession(_ context.Context, _ SessionConfig) (Session, error) {
	return &stubSession{}, nil
}

type stubSession struct{}

func (s *stubSession) Send(_ context.Context, parts []Part) (string, error) {
	if len(parts) == 0 {
		return "", errors.New("empty message")
	}
	return stubReply, nil
}
