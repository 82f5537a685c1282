package tutor

import (
	"context"

	"MathTutor/internal/ai"
	"MathTutor/internal/config"
	"MathTutor/internal/service/image"
	"MathTutor/internal/transcript"

	"go.uber.org/zap"
)

// NewFromConfig собирает оркестратор из конфигурации. Сессия ещё не создана, нужен Connect.
func NewFromConfig(cfg *config.Config, logger *zap.SugaredLogger) *Orchestrator {
	factory := func(ctx context.Context) (ai.Provider, error) {
		return ai.NewProvider(ctx, cfg.Provider, cfg.APIKey, cfg.BaseURL)
	}
	sessionCfg := ai.SessionConfig{
		Model:             cfg.Model,
		SystemInstruction: cfg.SystemInstruction,
		ReasoningBudget:   cfg.ReasoningBudget,
	}
	encoder := image.NewEncoder(image.NewProcessor(cfg.ImageMaxWidth, cfg.ImageMaxBytes))

	return NewOrchestrator(NewManager(factory, sessionCfg, logger), encoder, transcript.New(cfg.Greeting), logger)
}

// Encoder отдаёт кодировщик, которым пользуется оркестратор (для превью в интерфейсе).
func (o *Orchestrator) Encoder() *image.Encoder { return o.encoder }
