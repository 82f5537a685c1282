package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAPIKey возвращается, когда сетевому провайдеру не передали ключ.
var ErrMissingAPIKey = errors.New("API_KEY environment variable not set")

// SessionConfig хранит неизменяемые параметры диалога: модель, системная инструкция и бюджет размышлений.
type SessionConfig struct {
	Model             string
	SystemInstruction string
	ReasoningBudget   int
}

// Part описывает одну часть пользовательской реплики: текст либо картинка (MIME + base64).
type Part struct {
	Text     string
	MimeType string
	Data     string
}

// TextPart создаёт текстовую часть.
func TextPart(text string) Part { return Part{Text: text} }

// ImagePart создаёт часть с изображением; data передаётся в base64 без префикса data URL.
func ImagePart(mimeType, data string) Part { return Part{MimeType: mimeType, Data: data} }

// IsImage сообщает, что часть несёт изображение.
func (p Part) IsImage() bool { return p.Data != "" }

// Session представляет диалог с «серверным» контекстом: все реплики идут через одну сессию,
// поэтому модель помнит предыдущие шаги.
type Session interface {
	// Send отправляет упорядоченные части одной реплики и возвращает текст ответа.
	Send(ctx context.Context, parts []Part) (string, error)
}

// Provider создаёт сессии у конкретного поставщика модели.
type Provider interface {
	Name() string
	NewSession(ctx context.Context, cfg SessionConfig) (Session, error)
}

// NewProvider выбирает провайдера по имени: gemini|openai|stub.
func NewProvider(ctx context.Context, name, apiKey, baseURL string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "gemini", "google":
		if apiKey == "" {
			return nil, ErrMissingAPIKey
		}
		return NewGeminiProvider(ctx, apiKey)
	case "openai":
		if apiKey == "" {
			return nil, ErrMissingAPIKey
		}
		return NewResponsesProvider(apiKey, baseURL), nil
	case "stub":
		return NewStubProvider(), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", name)
	}
}
