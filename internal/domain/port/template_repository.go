package port

import "context"

// TemplateRepository интерфейс хранилища эталонных изображений символов
type TemplateRepository interface {
	// Get возвращает содержимое файла эталона по имени
	Get(ctx context.Context, name string) ([]byte, error)
}
