package player

import (
	"io"
	"strings"
	"testing"

	"github.com/faiface/beep/effects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackingCloser struct {
	io.Reader
	closed bool
}

func (c *trackingCloser) Close() error {
	c.closed = true
	return nil
}

func TestDecoderFor(t *testing.T) {
	for _, f := range []string{"mp3", "MP3", "wav"} {
		dec, err := decoderFor(f)
		require.NoError(t, err, f)
		assert.NotNil(t, dec)
	}
	_, err := decoderFor("ogg")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestPlayUnsupportedClosesReader(t *testing.T) {
	rc := &trackingCloser{Reader: strings.NewReader("noise")}

	err := New().Play("flac", rc)
	assert.Error(t, err)
	assert.True(t, rc.closed)
}

type quietStreamer struct{}

func (quietStreamer) Stream(samples [][2]float64) (int, bool) { return len(samples), true }

func (quietStreamer) Err() error { return nil }

func TestWithVolume(t *testing.T) {
	src := &quietStreamer{}

	assert.Same(t, src, New().withVolume(src), "no gain leaves the stream alone")

	vol, ok := NewWithVolume(-6).withVolume(src).(*effects.Volume)
	require.True(t, ok)
	assert.Same(t, src, vol.Streamer)
	assert.Equal(t, float64(2), vol.Base)
	assert.Equal(t, float64(-1), vol.Volume)
	assert.False(t, vol.Silent)
}
