//go:build ocr
// +build ocr

package ocr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"plate-reader/internal/domain/entity"
	"plate-reader/internal/domain/port"
)

// TesseractReader движок Tesseract для одиночных символов. Для каждого класса символов
// держит отдельный клиент со своим списком допустимых знаков.
// Не потокобезопасен: используйте через Pool.
type TesseractReader struct {
	clients map[entity.GlyphClass]*gosseract.Client
}

// NewTesseractFactory возвращает фабрику движков с моделью model из каталога tessdata.
func NewTesseractFactory(tessdata, model string) Factory {
	return func() (port.GlyphReader, error) {
		return NewTesseractReader(tessdata, model)
	}
}

// NewTesseractReader создаёт движок. Словари языковой модели отключены:
// номер не слово.
func NewTesseractReader(tessdata, model string) (*TesseractReader, error) {
	r := &TesseractReader{clients: make(map[entity.GlyphClass]*gosseract.Client, 2)}
	for _, class := range []entity.GlyphClass{entity.GlyphLetters, entity.GlyphDigits} {
		client, err := newClient(tessdata, model, class)
		if err != nil {
			_ = r.Close()
			return nil, err
		}
		r.clients[class] = client
	}
	return r, nil
}

func newClient(tessdata, model string, class entity.GlyphClass) (*gosseract.Client, error) {
	client := gosseract.NewClient()
	if tessdata != "" {
		if err := client.SetTessdataPrefix(tessdata); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(model); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}
	for _, v := range []string{
		"load_system_dawg", "load_freq_dawg", "load_unambig_dawg", "load_punc_dawg",
		"load_number_dawg", "load_fixed_length_dawgs", "load_bigram_dawg", "wordrec_enable_assoc",
	} {
		_ = client.SetVariable(gosseract.SettableVariable(v), "false")
	}
	if err := client.SetWhitelist(class.Whitelist()); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_CHAR); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set PSM: %w", err)
	}
	return client, nil
}

// ReadSymbols распознаёт символы на PNG-изображении. Уверенность от 0 до 100.
func (r *TesseractReader) ReadSymbols(imagePNG []byte, class entity.GlyphClass) ([]entity.Symbol, error) {
	client, ok := r.clients[class]
	if !ok {
		return nil, fmt.Errorf("unsupported glyph class %s", class)
	}
	if err := client.SetImageFromBytes(imagePNG); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_SYMBOL)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	symbols := make([]entity.Symbol, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		symbols = append(symbols, entity.Symbol{Text: text, Confidence: b.Confidence})
	}
	return symbols, nil
}

// Close освобождает клиентов Tesseract.
func (r *TesseractReader) Close() error {
	var errs []error
	for class, client := range r.clients {
		if err := client.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(r.clients, class)
	}
	return errors.Join(errs...)
}
