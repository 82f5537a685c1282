package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"MathTutor/internal/app/screenshotter"
	"MathTutor/internal/config"
	"MathTutor/internal/service/notify"
	googletts "MathTutor/internal/service/tts/google"
	ttsplayer "MathTutor/internal/service/tts/player"
	"MathTutor/internal/tutor"
	"MathTutor/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	// терминал занят интерфейсом, поэтому логи пишем в файл
	zcfg := zap.NewDevelopmentConfig()
	zcfg.OutputPaths = []string{cfg.LogFile}
	zcfg.ErrorOutputPaths = []string{cfg.LogFile}
	if !cfg.DebugMode {
		zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	sugar := logger.Sugar()
	//сброс буфера логгера
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sugar.Infow(
		"Starting tutor",
		"DebugMode", cfg.DebugMode,
		"Provider", cfg.Provider,
		"Model", cfg.Model,
		"SpeakReplies", cfg.SpeakReplies,
	)

	orch := tutor.NewFromConfig(cfg, sugar)
	if err := orch.Connect(ctx); err != nil {
		// сообщение об ошибке уже в ленте, интерфейс всё равно поднимаем
		sugar.Errorw("Не удалось создать сессию", "error", err)
	}

	ply := ttsplayer.NewWithVolume(cfg.PlaybackVolumeDB)
	opts := ui.Options{
		Orchestrator: orch,
		Encoder:      orch.Encoder(),
		Screens:      screenshotter.New(sugar),
		Notifier:     notify.NewSoundNotifier(sugar, cfg.NotificationSoundPath, ply),
		Logger:       sugar,
	}
	if cfg.SpeakReplies {
		opts.Speech = googletts.New(cfg.GoogleTTS, ply, sugar)
	}

	p := tea.NewProgram(ui.New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		sugar.Errorw("Интерфейс завершился с ошибкой", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	sugar.Infow("Tutor stopped", "turns", orch.Transcript().Len())
}
