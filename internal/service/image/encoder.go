package image

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	dataURLScheme    = "data:"
	base64Delimiter  = ";base64,"
	fallbackMimeType = "application/octet-stream"
)

// DecodeError означает, что не удалось прочитать или разобрать выбранный файл изображения.
type DecodeError struct {
	Name string
	Op   string // "open", "read", "process", "parse"
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("image decode error: %s %s: %v", e.Op, e.Name, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Source описывает файл изображения, выбранный пользователем. Open вызывается один раз на кодирование.
type Source struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FromPath создаёт источник из файла на диске.
func FromPath(path string) Source {
	return Source{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// FromBytes создаёт источник из уже прочитанных данных (скриншот, тесты).
func FromBytes(name string, data []byte) Source {
	return Source{
		Name: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// Encoded хранит изображение в виде MIME-типа и base64 без префикса data URL.
type Encoded struct {
	MimeType string
	Data     string
}

// DataURL склеивает MIME и данные обратно в ссылку, пригодную для показа.
func (e Encoded) DataURL() string {
	return dataURLScheme + e.MimeType + base64Delimiter + e.Data
}

// Bytes декодирует base64 обратно в исходные байты.
func (e Encoded) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(e.Data)
}

// ParseDataURL разбирает data URL вида data:<mime>;base64,<data>.
func ParseDataURL(s string) (Encoded, error) {
	head, body, ok := strings.Cut(s, base64Delimiter)
	if !ok {
		return Encoded{}, errors.New("missing ;base64, delimiter")
	}
	mimeType, ok := strings.CutPrefix(head, dataURLScheme)
	if !ok || mimeType == "" {
		return Encoded{}, errors.New("missing data: mime prefix")
	}
	return Encoded{MimeType: mimeType, Data: body}, nil
}

// Encoder превращает выбранный файл в base64 + MIME для отправки модели и для превью.
type Encoder struct {
	processor *Processor
}

// NewEncoder создаёт кодировщик. processor может быть nil, тогда байты уходят как есть.
func NewEncoder(processor *Processor) *Encoder {
	return &Encoder{processor: processor}
}

// Encode читает источник один раз и возвращает закодированное изображение.
func (e *Encoder) Encode(src Source) (Encoded, error) {
	if src.Open == nil {
		return Encoded{}, &DecodeError{Name: src.Name, Op: "open", Err: errors.New("no file handle")}
	}
	rc, err := src.Open()
	if err != nil {
		return Encoded{}, &DecodeError{Name: src.Name, Op: "open", Err: err}
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return Encoded{}, &DecodeError{Name: src.Name, Op: "read", Err: err}
	}
	if len(data) == 0 {
		return Encoded{}, &DecodeError{Name: src.Name, Op: "read", Err: errors.New("image file is empty")}
	}

	mimeType := detectMimeType(src.Name, data)
	if e.processor != nil {
		data, mimeType, err = e.processor.Shrink(data, mimeType)
		if err != nil {
			return Encoded{}, &DecodeError{Name: src.Name, Op: "process", Err: err}
		}
	}

	// Идём тем же путём, что и браузерный FileReader: data URL, затем разрез по ;base64,
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
	enc, err := ParseDataURL(dataURL)
	if err != nil {
		return Encoded{}, &DecodeError{Name: src.Name, Op: "parse", Err: err}
	}
	return enc, nil
}

// Preview возвращает data URL для локального превью, не дожидаясь отправки.
func (e *Encoder) Preview(src Source) (string, error) {
	enc, err := e.Encode(src)
	if err != nil {
		return "", err
	}
	return enc.DataURL(), nil
}

func detectMimeType(name string, data []byte) string {
	if mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); mt != "" {
		// отбрасываем параметры вроде "; charset=utf-8"
		if i := strings.IndexByte(mt, ';'); i >= 0 {
			mt = strings.TrimSpace(mt[:i])
		}
		return mt
	}
	mt := http.DetectContentType(data)
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if mt == "" {
		return fallbackMimeType
	}
	return mt
}
