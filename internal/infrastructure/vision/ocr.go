//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gocv.io/x/gocv"

	"plate-reader/internal/domain/entity"
	"plate-reader/internal/domain/port"
	"plate-reader/internal/logging"
)

var errEmptyTemplate = errors.New("glyph template has no ink")

// NewDiceMatcher готовит эталон из файла изображения: серый, Оцу, обрезка по краске.
func NewDiceMatcher(data []byte) (*DiceMatcher, error) {
	img, err := gocv.IMDecode(data, gocv.IMReadGrayScale)
	if err != nil {
		return nil, fmt.Errorf("decode glyph template: %w", err)
	}
	defer img.Close()
	if img.Empty() {
		return nil, errors.New("decode glyph template: empty image")
	}

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(img, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	p, ok := planeFromMat(binary)
	if !ok {
		return nil, errEmptyTemplate
	}
	m, ok := newDiceMatcher(p)
	if !ok {
		return nil, errEmptyTemplate
	}
	return m, nil
}

// glyphPNG вырезает рамку из полосы и кодирует её тёмными знаками на светлом фоне.
func glyphPNG(strip gocv.Mat, box entity.Rect) ([]byte, error) {
	region := strip.Region(box.Image())
	defer region.Close()
	inverted := gocv.NewMat()
	defer inverted.Close()
	gocv.BitwiseNot(region, &inverted)
	return encodePNG(inverted)
}

// readGlyph читает один символ, сужая рамку на пиксель с каждой стороны, пока она не
// меньше плотной рамки плюс ShrinkMargin. Если движок ни разу ничего не вернул,
// символ сравнивается с эталоном буквы "I".
func readGlyph(ctx context.Context, strip gocv.Mat, tight, padded entity.Rect, class entity.GlyphClass,
	reader port.GlyphReader, dice *DiceMatcher, p Params) (string, float64, error) {
	bounds := entity.Size{Width: strip.Cols(), Height: strip.Rows()}
	allEmpty := true

	box := padded
	for attempt := 0; box.Width >= tight.Width+ShrinkMargin && box.Height >= tight.Height+ShrinkMargin; attempt++ {
		if attempt >= p.OCRMaxShrinks {
			logging.Debugf("ocr shrink budget exhausted for %s glyph at x=%d", class, tight.X)
			break
		}
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}
		clipped := box.Clip(bounds)
		if clipped.Empty() {
			break
		}
		data, err := glyphPNG(strip, clipped)
		if err != nil {
			return "", 0, entity.NewStageError(entity.StageOCR, entity.ReasonOCRInconclusive, err)
		}
		symbols, err := reader.ReadSymbols(data, class)
		if err != nil {
			return "", 0, entity.NewStageError(entity.StageOCR, entity.ReasonOCRInconclusive,
				fmt.Errorf("read %s glyph: %w", class, err))
		}

		var sb strings.Builder
		for _, s := range symbols {
			sb.WriteString(strings.TrimSpace(s.Text))
		}
		text := sb.String()
		if text != "" {
			allEmpty = false
		}
		if len(symbols) == 1 && utf8.RuneCountInString(text) == 1 {
			return text, symbols[0].Confidence, nil
		}
		box = box.Shrink(1)
	}

	if !allEmpty {
		return "", 0, nil
	}
	probe := strip.Region(tight.Clip(bounds).Image())
	defer probe.Close()
	pl, ok := planeFromMat(probe)
	if !ok {
		return "", 0, nil
	}
	if matched, d := dice.Match(pl, DiceThreshold); matched {
		return FallbackGlyph, d * 100, nil
	}
	return "", 0, nil
}

// RecognizeWord читает слово посимвольно и возвращает текст и сумму уверенностей.
func RecognizeWord(ctx context.Context, strip gocv.Mat, chars, padded []entity.Rect, class entity.GlyphClass,
	reader port.GlyphReader, dice *DiceMatcher, p Params) (string, float64, error) {
	if len(chars) == 0 || len(chars) != len(padded) {
		return "", 0, entity.NewStageError(entity.StageOCR, entity.ReasonWordSplit, nil)
	}
	var sb strings.Builder
	sum := 0.0
	for i := range chars {
		text, conf, err := readGlyph(ctx, strip, chars[i], padded[i], class, reader, dice, p)
		if err != nil {
			return "", 0, err
		}
		sb.WriteString(text)
		sum += conf
	}
	if sb.Len() == 0 {
		return "", 0, entity.NewStageError(entity.StageOCR, entity.ReasonOCRInconclusive, nil)
	}
	return sb.String(), sum, nil
}

// wordClasses порядок слов номера: буквы, цифры, буквы.
var wordClasses = [3]entity.GlyphClass{entity.GlyphLetters, entity.GlyphDigits, entity.GlyphLetters}

// ReadPlate читает три слова номера и возвращает текст и среднюю уверенность от 0 до 1.
func ReadPlate(ctx context.Context, layout Layout, split WordSplit, reader port.GlyphReader,
	dice *DiceMatcher, p Params) (string, float64, error) {
	words := SplitWords(layout.Chars, split)
	paddedWords := SplitWords(layout.Padded, split)

	var sb strings.Builder
	sum := 0.0
	for i, class := range wordClasses {
		if len(words[i]) == 0 || len(words[i]) != len(paddedWords[i]) {
			return "", 0, entity.NewStageError(entity.StageOCR, entity.ReasonWordSplit, nil)
		}
		text, conf, err := RecognizeWord(ctx, layout.Strip, words[i], paddedWords[i], class, reader, dice, p)
		if err != nil {
			return "", 0, err
		}
		sb.WriteString(text)
		sum += conf
	}

	plate := strings.ReplaceAll(sb.String(), "\n", "")
	n := utf8.RuneCountInString(plate)
	if n == 0 {
		return "", 0, entity.NewStageError(entity.StageOCR, entity.ReasonOCRInconclusive, nil)
	}
	return plate, sum / float64(n) / 100, nil
}
