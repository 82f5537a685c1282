package notify

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	ttsplayer "MathTutor/internal/service/tts/player"

	"go.uber.org/zap"
)

// SoundNotifier проигрывает короткий звук, когда репетитор ответил.
type SoundNotifier struct {
	logger *zap.SugaredLogger
	path   string
	ply    ttsplayer.Player
}

// NewSoundNotifier создаёт нотификатор. При пустом пути звук выключен и вернётся nil.
// Относительный путь сначала ищется рядом с бинарём, затем от рабочей директории.
func NewSoundNotifier(logger *zap.SugaredLogger, path string, ply ttsplayer.Player) *SoundNotifier {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if !filepath.IsAbs(path) {
		if exe, err := os.Executable(); err == nil {
			cand := filepath.Join(filepath.Dir(exe), path)
			if _, statErr := os.Stat(cand); statErr == nil {
				path = cand
			}
		}
	}
	return &SoundNotifier{logger: logger, path: filepath.FromSlash(path), ply: ply}
}

// PlayReply проигрывает звук уведомления. Ошибки логируются и возвращаются,
// чтобы вызывающий мог принять решение (например, проигнорировать).
func (n *SoundNotifier) PlayReply(ctx context.Context) error {
	if n == nil {
		return nil
	}
	if err := context.Cause(ctx); err != nil {
		return err
	}

	f, err := os.Open(n.path)
	if err != nil {
		n.logger.Warnw("Не удалось открыть звуковой файл уведомления", "path", n.path, "error", err)
		return err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(n.path), "."))
	if ext == "" {
		ext = "mp3" // по умолчанию
	}
	// плеер закрывает файл сам
	if err := n.ply.Play(ext, f); err != nil {
		n.logger.Warnw("Не удалось воспроизвести звуковое уведомление", "path", n.path, "error", err)
		return err
	}
	return nil
}
