package tutor

import (
	"errors"
	"fmt"
)

// ConfigurationError означает, что нет ключа или сессию не удалось создать. До перезапуска сессии нет.
type ConfigurationError struct {
	Provider string
	Err      error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error [%s]: %v", e.Provider, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

var errChatNotInitialized = errors.New("Chat is not initialized.")

// SessionNotReadyError означает, что реплику пытались отправить без живой сессии.
type SessionNotReadyError struct{}

func (e *SessionNotReadyError) Error() string { return errChatNotInitialized.Error() }

func (e *SessionNotReadyError) Unwrap() error { return errChatNotInitialized }

// UpstreamError означает, что удалённый сервис вернул ошибку при отправке. Причина показывается как есть.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }
