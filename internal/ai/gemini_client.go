package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-pro"

// GeminiProvider создаёт чаты Gemini: история диалога живёт в объекте чата SDK.
type GeminiProvider struct {
	client *genai.Client
}

func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiProvider{client: client}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

// NewSession создаёт чат с системной инструкцией и бюджетом размышлений.
func (p *GeminiProvider) NewSession(ctx context.Context, cfg SessionConfig) (Session, error) {
	if p.client == nil {
		return nil, errors.New("nil gemini client")
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	chat, err := p.client.Chats.Create(ctx, model, generateConfig(cfg), nil)
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	return &geminiSession{chat: chat}, nil
}

type geminiSession struct {
	chat *genai.Chat
}

func (s *geminiSession) Send(ctx context.Context, parts []Part) (string, error) {
	gp, err := geminiParts(parts)
	if err != nil {
		return "", err
	}

	resp, err := s.chat.SendMessage(ctx, gp...)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// generateConfig задаёт системную инструкцию и бюджет размышлений чата.
// Бюджет передаётся как есть: -1 включает динамический режим, 0 выключает размышления.
func generateConfig(cfg SessionConfig) *genai.GenerateContentConfig {
	gc := &genai.GenerateContentConfig{}
	if cfg.SystemInstruction != "" {
		gc.SystemInstruction = genai.NewContentFromText(cfg.SystemInstruction, genai.RoleUser)
	}
	budget := int32(max(min(cfg.ReasoningBudget, math.MaxInt32), -1))
	gc.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: &budget}
	return gc
}

// geminiParts переводит реплику в части SDK, сохраняя порядок: картинка уходит inline-блобом.
func geminiParts(parts []Part) ([]genai.Part, error) {
	gp := make([]genai.Part, 0, len(parts))
	for _, p := range parts {
		if !p.IsImage() {
			gp = append(gp, genai.Part{Text: p.Text})
			continue
		}
		data, err := base64.StdEncoding.DecodeString(p.Data)
		if err != nil {
			return nil, fmt.Errorf("decode inline image: %w", err)
		}
		gp = append(gp, genai.Part{InlineData: &genai.Blob{MIMEType: p.MimeType, Data: data}})
	}
	return gp, nil
}
