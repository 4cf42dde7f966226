package diagnostics

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"

	"plate-reader/internal/domain/entity"
	"plate-reader/internal/domain/port"
	"plate-reader/internal/logging"
)

// DirObserver сохраняет промежуточные изображения конвейера в каталог в формате PNG.
type DirObserver struct {
	dir string
	seq atomic.Uint64
}

// NewDirObserver создаёт каталог dir, если его нет.
func NewDirObserver(dir string) (*DirObserver, error) {
	if dir == "" {
		return nil, fmt.Errorf("diagnostics directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create diagnostics directory: %w", err)
	}
	return &DirObserver{dir: dir}, nil
}

// Observe пишет изображение в файл <порядковый номер>_c<кандидат>_<этап>.png.
// Ошибки записи только логируются.
func (o *DirObserver) Observe(ctx context.Context, stage entity.Stage, candidate int, img image.Image) {
	if ctx.Err() != nil || img == nil {
		return
	}
	name := fmt.Sprintf("%06d_c%02d_%s.png", o.seq.Add(1), candidate, stage)
	if err := writePNG(filepath.Join(o.dir, name), img); err != nil {
		logging.Warnf("diagnostics: %v", err)
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

var _ port.Observer = (*DirObserver)(nil)
