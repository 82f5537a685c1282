package image

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

const (
	defaultMaxSizeBytes = 4 * 1024 * 1024
	defaultQuality      = 85
	minWidth            = 320
)

// Processor ужимает слишком крупные фото задачи перед отправкой.
type Processor struct {
	maxWidth    int
	maxSizeByte int
	quality     int
}

// NewProcessor возвращает nil, если ужатие выключено (maxWidth <= 0).
func NewProcessor(maxWidth, maxSizeBytes int) *Processor {
	if maxWidth <= 0 {
		return nil
	}
	if maxSizeBytes <= 0 {
		maxSizeBytes = defaultMaxSizeBytes
	}
	return &Processor{
		maxWidth:    maxWidth,
		maxSizeByte: maxSizeBytes,
		quality:     defaultQuality,
	}
}

// Shrink перекодирует изображение в JPEG, если оно шире лимита или тяжелее потолка.
// Подходящие по размеру изображения возвращаются без изменений.
func (p *Processor) Shrink(data []byte, mimeType string) ([]byte, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		// формат не знаем, отдаём как есть, пусть модель разбирается
		return data, mimeType, nil
	}
	if cfg.Width <= p.maxWidth && len(data) <= p.maxSizeByte {
		return data, mimeType, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	origWidth := img.Bounds().Dx()
	origHeight := img.Bounds().Dy()
	if origWidth == 0 || origHeight == 0 {
		return nil, "", fmt.Errorf("invalid image size: %dx%d", origWidth, origHeight)
	}

	resizedWidth := min(origWidth, p.maxWidth)
	for {
		encoded, err := p.encode(Fit(img, resizedWidth))
		if err != nil {
			return nil, "", err
		}
		if len(encoded) <= p.maxSizeByte {
			return encoded, "image/jpeg", nil
		}
		if resizedWidth <= minWidth {
			return nil, "", fmt.Errorf("image exceeds max size %d bytes even after downscale", p.maxSizeByte)
		}
		resizedWidth = max(minWidth, int(float64(resizedWidth)*0.9))
	}
}

// Fit масштабирует изображение до ширины width с сохранением пропорций.
// Изображения не шире width возвращаются как есть.
func Fit(src image.Image, width int) image.Image {
	b := src.Bounds()
	if width <= 0 || b.Dx() <= width {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, max(1, b.Dy()*width/b.Dx())))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func (p *Processor) encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
