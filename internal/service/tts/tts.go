package tts

import (
	"context"
	"regexp"
	"strings"
)

// Synthesizer абстракция TTS. Метод воспроизводит речь и не возвращает контент.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) error
}

var (
	mdLink     = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	mdMarkers  = strings.NewReplacer("**", "", "__", "", "`", "", "#", "", "*", "", "$", "")
	extraSpace = regexp.MustCompile(`[ \t]+`)
)

// PlainText убирает markdown-разметку из ответа репетитора, чтобы её не зачитывали вслух.
func PlainText(md string) string {
	s := mdLink.ReplaceAllString(md, "$1")
	s = mdMarkers.Replace(s)
	s = extraSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
