package container

import (
	"fmt"

	"plate-reader/config"
	app "plate-reader/internal/application"
	"plate-reader/internal/infrastructure/diagnostics"
	"plate-reader/internal/infrastructure/ocr"
	"plate-reader/internal/infrastructure/storage"
	"plate-reader/internal/infrastructure/vision"
)

type Container struct {
	Pipeline    *vision.Pipeline
	Recognition *app.RecognitionService

	readers *ocr.Pool
}

// New собирает конвейер распознавания и сервисы приложения по конфигурации.
func New(cfg *config.Config) (*Container, error) {
	templates := storage.NewMemoryTemplateRepository(cfg.AssetsDir)

	readers, err := ocr.NewPool(cfg.Workers, ocr.NewTesseractFactory(cfg.AssetsDir, cfg.OCRModel))
	if err != nil {
		return nil, err
	}

	opts := []vision.Option{vision.WithTemplateGlyph(cfg.GlyphTemplate)}
	if cfg.DebugDir != "" {
		observer, err := diagnostics.NewDirObserver(cfg.DebugDir)
		if err != nil {
			_ = readers.Close()
			return nil, err
		}
		opts = append(opts, vision.WithObserver(observer))
	}

	params := vision.DefaultParams()
	params.HoughMaxAttempts = cfg.HoughMaxAttempts
	params.OCRMaxShrinks = cfg.OCRMaxShrinks
	pipeline := vision.NewPipeline(params, readers, templates, opts...)

	recognition, err := app.NewRecognitionService(pipeline, cfg.Workers, cfg.RecognitionTimeout, cfg.OutputDir)
	if err != nil {
		_ = readers.Close()
		return nil, fmt.Errorf("create recognition service: %w", err)
	}

	return &Container{
		Pipeline:    pipeline,
		Recognition: recognition,
		readers:     readers,
	}, nil
}

// Close останавливает обработчики и освобождает движки OCR.
func (c *Container) Close() error {
	c.Recognition.Close()
	return c.readers.Close()
}
