package tutor

import (
	"strings"

	"MathTutor/internal/service/image"
)

// Draft хранит черновик поля ввода: текст и не больше одной картинки с превью.
type Draft struct {
	Text string

	image   *image.Source
	preview string
}

// Attach прикрепляет картинку, заменяя прежнюю, и готовит превью.
// Если превью не получилось, картинка всё равно прикреплена: ошибку покажет отправка.
func (d *Draft) Attach(enc *image.Encoder, src image.Source) error {
	d.image = &src
	d.preview = ""
	p, err := enc.Preview(src)
	if err != nil {
		return err
	}
	d.preview = p
	return nil
}

// Remove убирает прикреплённую картинку.
func (d *Draft) Remove() {
	d.image = nil
	d.preview = ""
}

func (d *Draft) Image() *image.Source { return d.image }

func (d *Draft) Preview() string { return d.preview }

// Empty сообщает, что отправлять нечего.
func (d *Draft) Empty() bool {
	return strings.TrimSpace(d.Text) == "" && d.image == nil
}

// Clear очищает черновик после отправки.
func (d *Draft) Clear() {
	d.Text = ""
	d.Remove()
}
