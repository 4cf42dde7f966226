//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"plate-reader/internal/domain/entity"
	"plate-reader/internal/domain/port"
	"plate-reader/internal/logging"
)

// minInputSide наименьшая сторона снимка, у которого есть уменьшенная нижняя половина.
const minInputSide = 2 * DownscaleFactor

// Recognize читает номер со снимка src. Если dst задан, туда пишется размеченный снимок.
// Нечитаемый номер не ошибка: результат содержит N/A и причину отказа последнего кандидата.
func (p *Pipeline) Recognize(ctx context.Context, src, dst string) (*entity.PlateResult, error) {
	now := p.now()
	ts := entity.FormatTimestamp(now)

	img := gocv.IMRead(src, gocv.IMReadUnchanged)
	defer img.Close()
	if img.Empty() || img.Type() != gocv.MatTypeCV8UC3 ||
		img.Rows() < minInputSide || img.Cols() < minInputSide {
		logging.Warnf("skip %s: not a 3-channel 8-bit image", src)
		return entity.NewFailedResult(ts, entity.ReasonMalformedInput), nil
	}

	result := entity.NewFailedResult(ts, entity.ReasonNoCandidate)
	result.Warnings = AssessQuality(img, p.params.Quality)
	for _, w := range result.Warnings {
		logging.Warnf("quality of %s: %s", src, w)
	}

	frame, cropY := p.prepare(img)
	defer frame.Close()
	p.observe(ctx, entity.StageInput, 0, frame)

	found, scanErr := p.scan(ctx, src, frame, cropY, result)

	out := img.Clone()
	defer out.Close()
	Annotate(&out, found, cropY, result.Text, result.Confidence, now)
	p.observe(ctx, entity.StageAnnotate, 0, out)
	var writeErr error
	if dst != "" && !gocv.IMWrite(dst, out) {
		writeErr = fmt.Errorf("write annotated image %s", dst)
	}
	if err := errors.Join(scanErr, writeErr); err != nil {
		return result, err
	}

	logging.Infof("%s: plate=%s confidence=%.2f candidates=%d reason=%s",
		src, result.Text, result.Confidence, result.Candidates, result.Reason)
	return result, nil
}

// scan ищет кандидатов и читает их по очереди, записывая итог в result.
// Возвращает рамку прочитанного кандидата или nil.
func (p *Pipeline) scan(ctx context.Context, src string, frame gocv.Mat, cropY int,
	result *entity.PlateResult) (*entity.Rect, error) {
	rois := p.candidates(ctx, frame)
	if len(rois) == 0 {
		return nil, nil
	}
	if p.readers == nil {
		return nil, errors.New("ocr readers are not configured")
	}
	reader, err := p.readers.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire ocr reader: %w", err)
	}
	defer p.readers.Release(reader)
	dice := p.diceMatcher(ctx)

	outcome, err := scanCandidates(ctx, src, rois, func(i int, roi entity.Rect) (string, float64, error) {
		return p.readCandidate(ctx, frame, roi, i, reader, dice)
	})
	result.Candidates = outcome.Tried
	result.Reason = outcome.Reason
	if outcome.Index < 0 {
		return nil, err
	}
	result.Text = outcome.Text
	result.Confidence = outcome.Confidence
	result.Found = true
	result.Region = ScaleToSource(rois[outcome.Index], cropY)
	return &rois[outcome.Index], nil
}

// prepare уменьшает снимок, берёт нижнюю половину и размывает её.
// Возвращает кадр и смещение нижней половины в уменьшенном снимке.
func (p *Pipeline) prepare(img gocv.Mat) (gocv.Mat, int) {
	half := gocv.NewMat()
	defer half.Close()
	gocv.Resize(img, &half, image.Pt(0, 0), 1.0/DownscaleFactor, 1.0/DownscaleFactor, gocv.InterpolationArea)

	cropY := half.Rows() / 2
	lower := half.Region(image.Rect(0, cropY, half.Cols(), half.Rows()))
	defer lower.Close()

	frame := gocv.NewMat()
	k := p.params.BlurKernel
	gocv.GaussianBlur(lower, &frame, image.Pt(k, k), 0, 0, gocv.BorderDefault)
	return frame, cropY
}

// candidates рамки светлых малонасыщенных пятен, похожих на номер.
func (p *Pipeline) candidates(ctx context.Context, frame gocv.Mat) []entity.Rect {
	hsv := ToHSV(frame)
	defer hsv.Close()
	mask := BinaryByHueSaturation(hsv, p.params.BadgeThreshold)
	defer mask.Close()
	p.observe(ctx, entity.StageSegment, 0, mask)

	comps := ConnectedComponents(mask, p.params.MaxCandidates)
	size := entity.Size{Width: frame.Cols(), Height: frame.Rows()}
	return selectCandidates(comps, size, p.params)
}

// readCandidate проводит одного кандидата через все этапы до чтения текста.
func (p *Pipeline) readCandidate(ctx context.Context, frame gocv.Mat, roi entity.Rect, idx int,
	reader port.GlyphReader, dice *DiceMatcher) (string, float64, error) {
	crop := frame.Region(roi.Image())
	defer crop.Close()

	hsv := ToHSV(crop)
	defer hsv.Close()
	masked := MaskColorRange(hsv)
	defer masked.Close()
	bgr := ToBGR(masked)
	defer bgr.Close()
	if bgr.Empty() {
		return "", 0, entity.NewStageError(entity.StageEdges, entity.ReasonNoRegion, nil)
	}
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)

	edges := Edges(gray)
	defer edges.Close()
	p.observe(ctx, entity.StageEdges, idx, edges)

	region, ok := IsolateLargestRegion(gray, &edges, p.params.RegionMinWidth)
	defer region.Close()
	if !ok {
		return "", 0, entity.NewStageError(entity.StageRegion, entity.ReasonNoRegion, nil)
	}
	p.observe(ctx, entity.StageRegion, idx, region.Mask)

	corners, err := FindCorners(ctx, region.Mask, region.Contour, p.params)
	if err != nil {
		return "", 0, err
	}
	padded, corners, err := PadToFitPoints(gray, corners, p.params.MaxPaddingGrowth)
	defer padded.Close()
	if err != nil {
		return "", 0, err
	}
	warped, err := Rectify(padded, corners, p.params.MinPlateHeight)
	defer warped.Close()
	if err != nil {
		return "", 0, err
	}
	p.observe(ctx, entity.StageRectify, idx, warped)

	interior := InteriorMask(warped)
	defer interior.Close()
	if interior.Empty() {
		return "", 0, entity.NewStageError(entity.StageInterior, entity.ReasonTooFewGlyphs, nil)
	}
	clean, err := Denoise(interior, p.params.HeightDeviation)
	defer clean.Close()
	if err != nil {
		return "", 0, err
	}
	p.observe(ctx, entity.StageDenoise, idx, clean)

	chars := CharBoxes(clean)
	split, ok := WordBoundaries(chars)
	if !ok {
		reason := entity.ReasonWordSplit
		if len(chars) < MinGlyphs {
			reason = entity.ReasonTooFewGlyphs
		}
		return "", 0, entity.NewStageError(entity.StageChars, reason, nil)
	}

	layout, err := Relayout(clean, chars, PadChars(chars, p.params.CharPadding))
	defer layout.Close()
	if err != nil {
		return "", 0, err
	}
	p.observe(ctx, entity.StageLayout, idx, layout.Strip)

	return ReadPlate(ctx, layout, split, reader, dice, p.params)
}

// diceMatcher загружает эталон буквы "I" при первом обращении.
// Без эталона запасное сравнение просто не срабатывает. Загрузка не зависит от отмены ctx:
// эталон один на весь процесс.
func (p *Pipeline) diceMatcher(ctx context.Context) *DiceMatcher {
	p.diceOnce.Do(func() {
		if p.templates == nil {
			return
		}
		data, err := p.templates.Get(context.WithoutCancel(ctx), p.glyph)
		if err != nil {
			logging.Warnf("glyph template %s unavailable: %v", p.glyph, err)
			return
		}
		m, err := NewDiceMatcher(data)
		if err != nil {
			logging.Warnf("glyph template %s rejected: %v", p.glyph, err)
			return
		}
		p.dice = m
	})
	return p.dice
}

func (p *Pipeline) observe(ctx context.Context, stage entity.Stage, candidate int, m gocv.Mat) {
	if p.observer == nil || m.Empty() {
		return
	}
	img, err := m.ToImage()
	if err != nil {
		logging.Debugf("observe %s: %v", stage, err)
		return
	}
	p.observer.Observe(ctx, stage, candidate, img)
}
