package screenshotter

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"time"

	imgsvc "MathTutor/internal/service/image"

	"github.com/kbinani/screenshot"
	"go.uber.org/zap"
)

const (
	maxWidth = 1920
	quality  = 90
)

// Screenshotter снимает весь экран, когда задача открыта в другом окне.
type Screenshotter struct {
	logger *zap.SugaredLogger
}

func New(logger *zap.SugaredLogger) *Screenshotter {
	return &Screenshotter{logger: logger}
}

// Capture снимает все мониторы одним кадром и возвращает его как источник для вложения.
func (s *Screenshotter) Capture() (imgsvc.Source, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return imgsvc.Source{}, errors.New("no active displays detected for screenshot")
	}

	// Вычисляем объединённые границы всех мониторов
	union := image.Rect(0, 0, 0, 0)
	for i := range n {
		b := screenshot.GetDisplayBounds(i)
		if i == 0 {
			union = b
			continue
		}
		union = union.Union(b)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, union.Dx(), union.Dy()))
	captured := 0
	for i := range n {
		b := screenshot.GetDisplayBounds(i)
		img, err := screenshot.CaptureRect(b)
		if err != nil {
			s.logger.Errorw("Failed to capture display", "index", i, "error", err)
			continue
		}
		// Копируем в холст со смещением
		dstPoint := image.Pt(b.Min.X-union.Min.X, b.Min.Y-union.Min.Y)
		dstRect := image.Rectangle{Min: dstPoint, Max: dstPoint.Add(b.Size())}
		draw.Draw(canvas, dstRect, img, image.Point{}, draw.Src)
		captured++
	}
	if captured == 0 {
		return imgsvc.Source{}, errors.New("failed to capture any display")
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, imgsvc.Fit(canvas, maxWidth), &jpeg.Options{Quality: quality}); err != nil {
		return imgsvc.Source{}, fmt.Errorf("encode screenshot: %w", err)
	}

	name := "screen_" + time.Now().Format("2006-01-02_15-04-05") + ".jpg"
	s.logger.Infow("Screenshot captured", "name", name, "displays", captured, "bytes", buf.Len())
	return imgsvc.FromBytes(name, buf.Bytes()), nil
}
