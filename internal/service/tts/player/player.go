package player

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// Player воспроизводит аудио потоком в зависимости от формата.
type Player interface {
	Play(format string, r io.ReadCloser) error
}

// Default реализует Player и поддерживает mp3 и wav.
// Воспроизведение последовательное: озвучка и звук уведомления не накладываются.
type Default struct {
	volumeDB float64
	mu       sync.Mutex
}

// New создаёт плеер без изменения громкости (0 dB).
func New() *Default { return &Default{} }

// NewWithVolume создаёт плеер с усилением volumeDB; отрицательные значения делают звук тише.
func NewWithVolume(volumeDB float64) *Default { return &Default{volumeDB: volumeDB} }

// withVolume оборачивает поток регулятором громкости, если усиление задано.
func (d *Default) withVolume(s beep.Streamer) beep.Streamer {
	if d.volumeDB == 0 {
		return s
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: d.volumeDB / 6}
}

type decodeFunc func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

func decoderFor(format string) (decodeFunc, error) {
	switch strings.ToLower(format) {
	case "mp3":
		return mp3.Decode, nil
	case "wav":
		return func(r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(r) }, nil
	default:
		return nil, fmt.Errorf("unsupported format %q for direct playback; use mp3 or wav", format)
	}
}

// Play блокирует до конца воспроизведения.
func (d *Default) Play(format string, r io.ReadCloser) error {
	decode, err := decoderFor(format)
	if err != nil {
		_ = r.Close()
		return err
	}
	streamer, f, err := decode(r)
	if err != nil {
		return err
	}
	defer streamer.Close()

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := speaker.Init(f.SampleRate, f.SampleRate.N(time.Second/10)); err != nil {
		return err
	}
	done := make(chan struct{})
	speaker.Play(beep.Seq(d.withVolume(streamer), beep.Callback(func() { close(done) })))
	<-done
	return nil
}
