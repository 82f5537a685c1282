package ai

import (
	"context"
	"errors"
	"sync"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

// ResponsesProvider реализует сессии поверх Responses API.
// Контекст диалога держит сервер: каждая реплика ссылается на предыдущий ответ (previous_response_id).
type ResponsesProvider struct {
	client openai.Client
}

func NewResponsesProvider(apiKey, baseURL string) *ResponsesProvider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &ResponsesProvider{client: openai.NewClient(opts...)}
}

func (p *ResponsesProvider) Name() string { return "openai" }

func (p *ResponsesProvider) NewSession(_ context.Context, cfg SessionConfig) (Session, error) {
	model := openai.ChatModel(cfg.Model)
	if model == "" {
		model = openai.ChatModelO4Mini
	}
	return &responsesSession{
		client:       &p.client,
		model:        model,
		instructions: cfg.SystemInstruction,
		effort:       reasoningEffort(cfg.ReasoningBudget),
	}, nil
}

// reasoningEffort переводит бюджет в токенах в уровень усилий Responses API.
func reasoningEffort(budget int) shared.ReasoningEffort {
	switch {
	case budget <= 0:
		return ""
	case budget < 4096:
		return shared.ReasoningEffortLow
	case budget < 16384:
		return shared.ReasoningEffortMedium
	default:
		return shared.ReasoningEffortHigh
	}
}

type responsesSession struct {
	client       *openai.Client
	model        openai.ChatModel
	instructions string
	effort       shared.ReasoningEffort

	mu         sync.Mutex
	previousID string
}

func (s *responsesSession) Send(ctx context.Context, parts []Part) (string, error) {
	if s.client == nil {
		return "", errors.New("nil openai client")
	}

	content := make(responses.ResponseInputMessageContentListParam, 0, len(parts))
	for _, p := range parts {
		if p.IsImage() {
			imageParam := responses.ResponseInputContentParamOfInputImage(responses.ResponseInputImageDetailAuto)
			imageParam.OfInputImage.ImageURL = openai.String("data:" + p.MimeType + ";base64," + p.Data)
			content = append(content, imageParam)
			continue
		}
		content = append(content, responses.ResponseInputContentParamOfInputText(p.Text))
	}

	params := responses.ResponseNewParams{
		Model: s.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(content, responses.EasyInputMessageRoleUser),
			},
		},
	}
	// Инструкции не наследуются через previous_response_id, поэтому шлём их каждый раз.
	if s.instructions != "" {
		params.Instructions = openai.String(s.instructions)
	}
	if s.effort != "" {
		params.Reasoning = shared.ReasoningParam{Effort: s.effort}
	}

	s.mu.Lock()
	prev := s.previousID
	s.mu.Unlock()
	if prev != "" {
		params.PreviousResponseID = openai.String(prev)
	}

	resp, err := s.client.Responses.New(ctx, params)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.previousID = resp.ID
	s.mu.Unlock()

	return resp.OutputText(), nil
}
