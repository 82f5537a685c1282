package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"MathTutor/internal/ai"
	"MathTutor/internal/service/image"
	"MathTutor/internal/transcript"

	"go.uber.org/zap"
)

const (
	// DefaultImagePrompt уходит модели вместо текста, если пользователь прислал только картинку.
	DefaultImagePrompt = "Here is the problem. Please guide me through the first step."

	fallbackReply   = "I'm not sure how to respond to that. Could you rephrase?"
	initErrorReply  = "I'm sorry, there was an error connecting to my brain. Please check the API key and restart the tutor."
	imageErrorReply = "I'm sorry, I had trouble reading that image file. Please try another one."
)

type Status int

const (
	StatusIgnored  Status = iota // реплика не принята: пусто или уже идёт отправка
	StatusAnswered               // модель ответила
	StatusFailed                 // в ленту добавлена реплика с ошибкой
)

// Outcome описывает итог одной реплики. Err заполнен только при StatusFailed.
type Outcome struct {
	Status Status
	Reply  string
	Err    error
}

// Orchestrator собирает реплику пользователя, отправляет её в сессию и пишет итог в ленту.
// Одновременно в полёте не больше одной реплики.
type Orchestrator struct {
	sessions   *Manager
	encoder    *image.Encoder
	transcript *transcript.Store
	logger     *zap.SugaredLogger

	busy atomic.Bool
}

func NewOrchestrator(sessions *Manager, encoder *image.Encoder, store *transcript.Store, logger *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{sessions: sessions, encoder: encoder, transcript: store, logger: logger}
}

// Busy сообщает, что реплика ещё в полёте.
func (o *Orchestrator) Busy() bool { return o.busy.Load() }

func (o *Orchestrator) Transcript() *transcript.Store { return o.transcript }

// Connect создаёт сессию. Ошибка конфигурации попадает в ленту сообщением ассистента.
func (o *Orchestrator) Connect(ctx context.Context) error {
	if err := o.sessions.Initialize(ctx); err != nil {
		o.transcript.Append(transcript.Turn{Role: transcript.RoleAssistant, Text: initErrorReply})
		return err
	}
	return nil
}

// SendTurn отправляет текст и/или картинку одной репликой.
// Ошибки не возвращаются наружу, а становятся репликами ассистента; классификация лежит в Outcome.Err.
func (o *Orchestrator) SendTurn(ctx context.Context, text string, img *image.Source) Outcome {
	hasText := strings.TrimSpace(text) != ""
	if !hasText && img == nil {
		return Outcome{Status: StatusIgnored}
	}
	if !o.busy.CompareAndSwap(false, true) {
		o.logger.Infow("Реплика пропущена: предыдущая ещё в полёте")
		return Outcome{Status: StatusIgnored}
	}
	defer o.busy.Store(false)

	user := transcript.Turn{Role: transcript.RoleUser, Text: text}
	parts := make([]ai.Part, 0, 2)

	// 1. Картинка: при ошибке чтения текст тоже не отправляем
	if img != nil {
		enc, err := o.encoder.Encode(*img)
		if err != nil {
			o.logger.Warnw("Не удалось прочитать изображение", "name", img.Name, "error", err)
			o.transcript.Append(transcript.Turn{Role: transcript.RoleAssistant, Text: imageErrorReply})
			return Outcome{Status: StatusFailed, Err: err}
		}
		parts = append(parts, ai.ImagePart(enc.MimeType, enc.Data))
		user.Image = enc.DataURL()
	}

	// 2. Текст идёт после картинки; без текста модель получает подсказку по умолчанию
	if hasText {
		parts = append(parts, ai.TextPart(text))
	} else {
		parts = append(parts, ai.TextPart(DefaultImagePrompt))
	}

	// 3. Реплика пользователя видна сразу, что бы ни случилось дальше
	o.transcript.Append(user)

	session, ok := o.sessions.Current()
	if !ok {
		return o.fail(&SessionNotReadyError{})
	}

	start := time.Now()
	o.logger.Infow("Запрос к модели...", "provider", o.sessions.Provider(), "parts", len(parts), "withImage", img != nil)
	reply, err := session.Send(ctx, parts)
	dur := time.Since(start)
	if err != nil {
		o.logger.Errorw("Ошибка ответа модели", "duration", dur.String(), "error", err)
		return o.fail(&UpstreamError{Err: err})
	}
	o.logger.Infow("Ответ модели получен", "duration", dur.String())

	if strings.TrimSpace(reply) == "" {
		reply = fallbackReply
	}
	o.transcript.Append(transcript.Turn{Role: transcript.RoleAssistant, Text: reply})
	return Outcome{Status: StatusAnswered, Reply: reply}
}

func (o *Orchestrator) fail(err error) Outcome {
	o.transcript.Append(transcript.Turn{Role: transcript.RoleAssistant, Text: errorReply(err)})
	return Outcome{Status: StatusFailed, Err: err}
}

func errorReply(err error) string {
	return fmt.Sprintf("I'm sorry, I encountered an error: %s. Please try again.", strings.TrimSuffix(err.Error(), "."))
}

// IsDecodeError сообщает, что реплика сорвалась на чтении картинки.
func IsDecodeError(err error) bool {
	var de *image.DecodeError
	return errors.As(err, &de)
}
