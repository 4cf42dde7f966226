package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AssetsDir          string // каталог с моделью OCR и эталонами символов
	OCRModel           string // имя traineddata-модели без расширения
	GlyphTemplate      string // файл эталона буквы "I"
	OutputDir          string // куда класть размеченные снимки, пустой путь отключает запись
	Workers            int    // число параллельных распознаваний
	LogLevel           string
	DebugDir           string        // каталог для промежуточных изображений, пустой путь отключает отладку
	HoughMaxAttempts   int           // предел попыток поиска углов
	OCRMaxShrinks      int           // предел сужений рамки символа
	RecognitionTimeout time.Duration // предел времени на один снимок
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		AssetsDir:     getEnv("ASSETS_DIR", "assets"),
		OCRModel:      getEnv("OCR_MODEL", "DIN1451Mittelschrift"),
		GlyphTemplate: getEnv("GLYPH_TEMPLATE", "i.jpg"),
		OutputDir:     os.Getenv("OUTPUT_DIR"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DebugDir:      os.Getenv("DEBUG_DIR"),
	}

	var err error
	if cfg.Workers, err = getInt("WORKERS", runtime.NumCPU()); err != nil {
		return nil, err
	}
	if cfg.HoughMaxAttempts, err = getInt("HOUGH_MAX_ATTEMPTS", 64); err != nil {
		return nil, err
	}
	if cfg.OCRMaxShrinks, err = getInt("OCR_MAX_SHRINKS", 32); err != nil {
		return nil, err
	}
	if cfg.RecognitionTimeout, err = getDuration("RECOGNITION_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("WORKERS must be positive, got %d", cfg.Workers)
	}
	if cfg.HoughMaxAttempts <= 0 || cfg.OCRMaxShrinks <= 0 {
		return nil, fmt.Errorf("retry budgets must be positive, got HOUGH_MAX_ATTEMPTS=%d OCR_MAX_SHRINKS=%d",
			cfg.HoughMaxAttempts, cfg.OCRMaxShrinks)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
