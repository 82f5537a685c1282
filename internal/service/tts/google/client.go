package google

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"MathTutor/internal/config"
	"MathTutor/internal/service/tts"
	"MathTutor/internal/service/tts/player"

	gctts "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"go.uber.org/zap"
)

// Client зачитывает ответы репетитора через Google Cloud Text-to-Speech.
type Client struct {
	cfg    config.GoogleTTSConfig
	player player.Player
	logger *zap.SugaredLogger
}

func New(cfg config.GoogleTTSConfig, p player.Player, logger *zap.SugaredLogger) *Client {
	return &Client{cfg: cfg, player: p, logger: logger}
}

// Synthesize синтезирует речь и проигрывает MP3. Markdown предварительно вычищается.
func (c *Client) Synthesize(ctx context.Context, text string) error {
	plain := tts.PlainText(text)
	if plain == "" {
		return errors.New("google tts: empty input text")
	}

	// Ключ SDK берёт из GOOGLE_APPLICATION_CREDENTIALS
	ttsClient, err := gctts.NewClient(ctx)
	if err != nil {
		return err
	}
	defer ttsClient.Close()

	req := &ttspb.SynthesizeSpeechRequest{
		Input: &ttspb.SynthesisInput{InputSource: &ttspb.SynthesisInput_Text{Text: plain}},
		Voice: &ttspb.VoiceSelectionParams{
			LanguageCode: c.cfg.Language,
			Name:         strings.TrimSpace(c.cfg.Voice),
		},
		AudioConfig: &ttspb.AudioConfig{
			AudioEncoding: ttspb.AudioEncoding_MP3,
			SpeakingRate:  c.cfg.SpeakingRate,
			Pitch:         c.cfg.Pitch,
			VolumeGainDb:  c.cfg.VolumeGainDb,
		},
	}

	started := time.Now()
	resp, err := ttsClient.SynthesizeSpeech(ctx, req)
	if err != nil {
		return err
	}
	c.logger.Infow("Google TTS synthesize completed", "took", time.Since(started).String(), "chars", len(plain))

	return c.player.Play("mp3", io.NopCloser(bytes.NewReader(resp.GetAudioContent())))
}

var _ tts.Synthesizer = (*Client)(nil)
