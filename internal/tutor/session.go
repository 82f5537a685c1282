package tutor

import (
	"context"
	"sync"

	"MathTutor/internal/ai"

	"go.uber.org/zap"
)

// ProviderFactory создаёт провайдера модели. Ошибка трактуется как ошибка конфигурации.
type ProviderFactory func(ctx context.Context) (ai.Provider, error)

// Manager владеет единственной сессией с моделью.
type Manager struct {
	factory ProviderFactory
	cfg     ai.SessionConfig
	logger  *zap.SugaredLogger

	mu       sync.Mutex
	provider string
	session  ai.Session
}

func NewManager(factory ProviderFactory, cfg ai.SessionConfig, logger *zap.SugaredLogger) *Manager {
	return &Manager{factory: factory, cfg: cfg, logger: logger}
}

// Initialize создаёт сессию с фиксированной инструкцией и настройками генерации.
// Повторный вызов заменяет живую сессию новой. При ошибке сессии нет вовсе.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil

	p, err := m.factory(ctx)
	if err != nil {
		m.logger.Errorw("Не удалось создать провайдера модели", "error", err)
		return &ConfigurationError{Provider: "unknown", Err: err}
	}
	s, err := p.NewSession(ctx, m.cfg)
	if err != nil {
		m.logger.Errorw("Не удалось создать сессию", "provider", p.Name(), "error", err)
		return &ConfigurationError{Provider: p.Name(), Err: err}
	}

	m.provider = p.Name()
	m.session = s
	m.logger.Infow("Сессия создана", "provider", p.Name(), "model", m.cfg.Model, "reasoningBudget", m.cfg.ReasoningBudget)
	return nil
}

// Current возвращает живую сессию, если она есть.
func (m *Manager) Current() (ai.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, m.session != nil
}

// Provider возвращает имя провайдера текущей сессии.
func (m *Manager) Provider() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.provider
}
