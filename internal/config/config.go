package config

import (
	"flag"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// SystemInstruction задаёт инструкцию репетитора по умолчанию: не решать задачу, а вести ученика по шагам.
const SystemInstruction = `You are a compassionate, Socratic AI math tutor specializing in calculus and algebra. Your goal is to guide users to the solution, not to provide it directly.

Follow these rules strictly:
1.  When a user uploads a math problem, your first response must ONLY identify the problem type and suggest the very first conceptual step to solve it. Do not perform any calculations or solve the step.
    -   Example for a product rule problem: "This looks like a problem where we need to find the derivative of a product of two functions. The first step is to apply the product rule. Do you remember how it works?"
    -   Example for an integration by parts problem: "This integral seems like a good candidate for integration by parts. The first step is to choose which part of the function will be 'u' and which will be 'dv'. What do you think would be a good choice?"
2.  After suggesting the first step, WAIT for the user's response.
3.  If the user asks for clarification (e.g., "why?", "what's the product rule?"), explain the underlying concept for that specific step in a simple, understandable way.
4.  Guide the user one small step at a time. Never give away multiple steps or the final answer.
5.  Maintain a patient, encouraging, and friendly tone throughout the conversation. Use phrases like "That's a great question!", "Exactly!", "What do you think we should do next?".
6.  Your objective is to foster understanding and critical thinking, making the user feel like they are solving the problem with a helpful teacher by their side.`

type Config struct {
	DebugMode bool   `env:"DEBUG_MODE"` // Режим дебага
	LogFile   string `env:"LOG_FILE"`   // Куда писать логи интерактивного режима (stdout занят интерфейсом)

	// Модель
	APIKey            string `env:"API_KEY"`            // Единственный обязательный ключ; отсутствие проверяется при создании сессии
	Provider          string `env:"AI_PROVIDER"`        // gemini|openai|stub
	Model             string `env:"AI_MODEL"`           // Имя модели у провайдера; если пусто, берётся дефолт провайдера
	BaseURL           string `env:"AI_BASE_URL"`        // Необязательный адрес API (openai-совместимые шлюзы)
	ReasoningBudget   int    `env:"REASONING_BUDGET"`   // Бюджет «размышлений» в токенах; -1 динамический, 0 выключить
	SystemInstruction string `env:"SYSTEM_INSTRUCTION"` // Инструкция репетитора
	Greeting          string `env:"GREETING"`           // Первое сообщение ассистента в ленте

	// Изображения
	ImageMaxWidth int `env:"IMAGE_MAX_WIDTH"` // Ужимать фото шире этого значения; при 0 отправлять как есть
	ImageMaxBytes int `env:"IMAGE_MAX_BYTES"` // Потолок размера после ужатия

	// Озвучка ответов и уведомления
	SpeakReplies          bool    `env:"SPEAK_REPLIES"`           // Зачитывать ответы репетитора через Google TTS
	NotificationSoundPath string  `env:"NOTIFICATION_SOUND_PATH"` // Звук при получении ответа; если пусто, без звука
	PlaybackVolumeDB      float64 `env:"TTS_VOLUME_DB"`           // Громкость локального воспроизведения в дБ (0 как есть)
	GoogleTTS             GoogleTTSConfig
}

// GoogleTTSConfig конфигурация для синтеза речи через Google Cloud Text-to-Speech.
type GoogleTTSConfig struct {
	// Ключ сервисного аккаунта SDK читает сам из ENV GOOGLE_APPLICATION_CREDENTIALS.
	Language     string  `env:"GOOGLE_TTS_LANGUAGE"`
	Voice        string  `env:"GOOGLE_TTS_VOICE"`
	SpeakingRate float64 `env:"GOOGLE_TTS_SPEAKING_RATE"`
	Pitch        float64 `env:"GOOGLE_TTS_PITCH"`
	VolumeGainDb float64 `env:"GOOGLE_TTS_VOLUME_DB"`
}

// Defaults возвращает конфигурацию с предустановленными значениями по умолчанию.
// Эти значения перекрываются .env, переменными окружения и флагами CLI.
func Defaults() *Config {
	return &Config{
		LogFile:           "tutor.log",
		Provider:          "gemini",
		Model:             "", // если пусто, модель провайдера по умолчанию
		ReasoningBudget:   32768,
		SystemInstruction: SystemInstruction,
		Greeting:          "Hello! I'm your Socratic math tutor. Please upload a photo of a calculus or algebra problem, and I'll help you work through the first step.",
		ImageMaxWidth:     0,
		ImageMaxBytes:     4 * 1024 * 1024,
		GoogleTTS: GoogleTTSConfig{
			Language:     "en-US",
			Voice:        "en-US-Standard-C",
			SpeakingRate: 1.0,
		},
	}
}

// Load собирает конфигурацию: дефолты, затем .env и окружение, затем флаги из args.
// Ошибку возвращает только разбор окружения или флагов; пустой API_KEY здесь не ошибка.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	fs.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "включить режим дебага")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "файл логов интерактивного режима")
	fs.StringVar(&cfg.Provider, "provider", cfg.Provider, "провайдер модели: gemini|openai|stub")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "имя модели")
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "адрес API провайдера (необязательно)")
	fs.IntVar(&cfg.ReasoningBudget, "reasoning-budget", cfg.ReasoningBudget, "бюджет размышлений в токенах (-1 динамический, 0 выключить)")
	fs.IntVar(&cfg.ImageMaxWidth, "image-max-width", cfg.ImageMaxWidth, "ужимать изображения шире N пикселей (0 не ужимать)")
	fs.IntVar(&cfg.ImageMaxBytes, "image-max-bytes", cfg.ImageMaxBytes, "максимальный размер изображения после ужатия")
	fs.BoolVar(&cfg.SpeakReplies, "speak-replies", cfg.SpeakReplies, "зачитывать ответы репетитора вслух")
	fs.StringVar(&cfg.NotificationSoundPath, "notification-sound-path", cfg.NotificationSoundPath, "звук уведомления о полученном ответе (mp3 или wav)")
	fs.Float64Var(&cfg.PlaybackVolumeDB, "tts-volume-db", cfg.PlaybackVolumeDB, "громкость озвучки и уведомлений в дБ (отрицательное значение тише)")
	fs.StringVar(&cfg.GoogleTTS.Language, "google-tts-language", cfg.GoogleTTS.Language, "язык синтеза, напр. en-US")
	fs.StringVar(&cfg.GoogleTTS.Voice, "google-tts-voice", cfg.GoogleTTS.Voice, "имя голоса, напр. en-US-Standard-C")
	fs.Float64Var(&cfg.GoogleTTS.SpeakingRate, "google-tts-speaking-rate", cfg.GoogleTTS.SpeakingRate, "скорость речи (1.0 по умолчанию)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if strings.TrimSpace(cfg.SystemInstruction) == "" {
		cfg.SystemInstruction = SystemInstruction
	}
	return cfg, nil
}
