package ocr

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"plate-reader/internal/domain/port"
)

// ErrPoolClosed возвращается при обращении к закрытому пулу.
var ErrPoolClosed = errors.New("ocr pool is closed")

// Factory создаёт новый движок OCR.
type Factory func() (port.GlyphReader, error)

// Pool выдаёт движки OCR по одному на вызов. Движки создаются по требованию,
// но не больше size одновременно.
type Pool struct {
	factory Factory
	idle    chan port.GlyphReader
	slots   chan struct{}

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewPool создаёт пул не более чем на size движков.
func NewPool(size int, factory Factory) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid ocr pool size %d", size)
	}
	if factory == nil {
		return nil, errors.New("ocr reader factory is required")
	}
	return &Pool{
		factory: factory,
		idle:    make(chan port.GlyphReader, size),
		slots:   make(chan struct{}, size),
		done:    make(chan struct{}),
	}, nil
}

// Acquire возвращает свободный движок или создаёт новый, если лимит не исчерпан.
// Ждёт освобождения движка до отмены контекста.
func (p *Pool) Acquire(ctx context.Context) (port.GlyphReader, error) {
	select {
	case <-p.done:
		return nil, ErrPoolClosed
	default:
	}

	select {
	case r := <-p.idle:
		return r, nil
	default:
	}

	select {
	case r := <-p.idle:
		return r, nil
	case p.slots <- struct{}{}:
		r, err := p.factory()
		if err != nil {
			<-p.slots
			return nil, fmt.Errorf("create ocr reader: %w", err)
		}
		return r, nil
	case <-p.done:
		return nil, ErrPoolClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release возвращает движок в пул. После Close движок закрывается.
func (p *Pool) Release(r port.GlyphReader) {
	if r == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		_ = r.Close()
		<-p.slots
		return
	}
	p.idle <- r
}

// Close закрывает свободные движки. Выданные закрываются при возврате.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.done)

	var errs []error
	for {
		select {
		case r := <-p.idle:
			if err := r.Close(); err != nil {
				errs = append(errs, err)
			}
			<-p.slots
		default:
			return errors.Join(errs...)
		}
	}
}
