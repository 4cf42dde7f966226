package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"plate-reader/internal/domain/port"
)

// MemoryTemplateRepository in-memory кэш эталонных изображений символов.
// Файлы читаются из каталога при первом обращении.
type MemoryTemplateRepository struct {
	dir string

	mu        sync.RWMutex
	templates map[string][]byte
}

// NewMemoryTemplateRepository создаёт хранилище эталонов из каталога dir.
// Пустой dir значит, что эталоны можно только добавить через Put.
func NewMemoryTemplateRepository(dir string) *MemoryTemplateRepository {
	return &MemoryTemplateRepository{
		dir:       dir,
		templates: make(map[string][]byte),
	}
}

// Get возвращает эталон по имени файла, загружая его при необходимости
func (r *MemoryTemplateRepository) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name = filepath.Base(name)

	r.mu.RLock()
	data, exists := r.templates[name]
	r.mu.RUnlock()
	if exists {
		return data, nil
	}

	if r.dir == "" {
		return nil, fmt.Errorf("template %q: %w", name, os.ErrNotExist)
	}
	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return nil, fmt.Errorf("load template %q: %w", name, err)
	}

	r.mu.Lock()
	r.templates[name] = data
	r.mu.Unlock()

	return data, nil
}

// Put сохраняет эталон в кэше
func (r *MemoryTemplateRepository) Put(name string, data []byte) {
	r.mu.Lock()
	r.templates[filepath.Base(name)] = data
	r.mu.Unlock()
}

// Проверка реализации интерфейса
var _ port.TemplateRepository = (*MemoryTemplateRepository)(nil)
