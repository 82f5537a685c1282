package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"MathTutor/internal/config"
	"MathTutor/internal/service/image"
	"MathTutor/internal/tutor"

	"go.uber.org/zap"
)

// ask отправляет одну реплику без интерфейса: картинка и/или вопрос, ответ в stdout.
func main() {
	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, logger.Sugar())
	stop()
	_ = logger.Sync()
	os.Exit(code)
}

// run возвращает код выхода: 0 ответ получен, 1 ошибка сессии или реплики, 2 неверные аргументы.
// Всё, что увидел бы пользователь в ленте, печатается в stdout.
func run(ctx context.Context, args []string, stdout io.Writer, sugar *zap.SugaredLogger) int {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	imagePath := fs.String("image", "", "путь к изображению с задачей")
	text := fs.String("text", "", "вопрос к репетитору")
	transcriptPath := fs.String("transcript", "", "сохранить ленту в Markdown")

	cfg, err := config.Load(fs, args)
	if err != nil {
		sugar.Errorw("Неверная конфигурация", "error", err)
		return 2
	}

	orch := tutor.NewFromConfig(cfg, sugar)
	defer saveTranscript(orch, *transcriptPath, sugar)

	if err := orch.Connect(ctx); err != nil {
		sugar.Errorw("Не удалось создать сессию", "provider", cfg.Provider, "error", err)
		printLast(stdout, orch)
		return 1
	}

	var src *image.Source
	if *imagePath != "" {
		s := image.FromPath(*imagePath)
		src = &s
	}

	out := orch.SendTurn(ctx, *text, src)
	switch out.Status {
	case tutor.StatusIgnored:
		sugar.Warnw("Нечего отправлять: нужен -text и/или -image")
		return 2
	case tutor.StatusFailed:
		sugar.Errorw("Реплика не удалась", "error", out.Err)
		printLast(stdout, orch)
		return 1
	}
	fmt.Fprintln(stdout, out.Reply)
	return 0
}

func printLast(w io.Writer, orch *tutor.Orchestrator) {
	if last, ok := orch.Transcript().Last(); ok {
		fmt.Fprintln(w, last.Text)
	}
}

func saveTranscript(orch *tutor.Orchestrator, path string, sugar *zap.SugaredLogger) {
	if path == "" {
		return
	}
	if err := os.WriteFile(path, []byte(orch.Transcript().Markdown()), 0o644); err != nil {
		sugar.Errorw("Не удалось сохранить ленту", "path", path, "error", err)
	}
}
