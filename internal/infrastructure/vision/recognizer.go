package vision

import (
	"context"
	"sync"
	"time"

	"plate-reader/internal/domain/entity"
	"plate-reader/internal/domain/port"
)

// Pipeline распознаёт номер на снимке с въездной камеры.
// Один экземпляр можно использовать из нескольких горутин: движок OCR берётся из пула
// на время одного вызова.
type Pipeline struct {
	params    Params
	readers   port.GlyphReaderPool
	templates port.TemplateRepository
	observer  port.Observer
	now       func() time.Time
	glyph     string

	diceOnce sync.Once
	dice     *DiceMatcher
}

// Option настраивает Pipeline.
type Option func(*Pipeline)

// WithObserver подключает наблюдателя за промежуточными изображениями.
func WithObserver(o port.Observer) Option {
	return func(p *Pipeline) { p.observer = o }
}

// WithClock подменяет источник времени для отметки результата.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithTemplateGlyph задаёт имя файла эталона буквы "I".
func WithTemplateGlyph(name string) Option {
	return func(p *Pipeline) { p.glyph = name }
}

// NewPipeline создаёт конвейер распознавания.
func NewPipeline(params Params, readers port.GlyphReaderPool, templates port.TemplateRepository, opts ...Option) *Pipeline {
	p := &Pipeline{
		params:    params,
		readers:   readers,
		templates: templates,
		now:       time.Now,
		glyph:     "i.jpg",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TextFromImage возвращает результат в виде "<номер|N/A>\n<время>".
func (p *Pipeline) TextFromImage(ctx context.Context, src, dst string) string {
	result, _ := p.Recognize(ctx, src, dst)
	if result == nil {
		result = entity.NewFailedResult(entity.FormatTimestamp(p.now()), entity.ReasonMalformedInput)
	}
	return result.String()
}
