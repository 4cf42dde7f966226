package vision

import (
	"context"
	"errors"

	"plate-reader/internal/domain/entity"
	"plate-reader/internal/logging"
)

// candidateReader проводит одного кандидата через все этапы до чтения текста.
type candidateReader func(idx int, roi entity.Rect) (string, float64, error)

// scanOutcome итог перебора кандидатов.
type scanOutcome struct {
	Index      int // -1, если ни один кандидат не прочитан
	Text       string
	Confidence float64
	Tried      int
	Reason     entity.FailureReason // причина отказа последнего кандидата
}

// scanCandidates проверяет кандидатов по порядку и останавливается на первом прочитанном.
// Отказ любого этапа отбрасывает только своего кандидата. Перебор прерывает лишь отмена ctx.
func scanCandidates(ctx context.Context, label string, rois []entity.Rect, read candidateReader) (scanOutcome, error) {
	out := scanOutcome{Index: -1, Reason: entity.ReasonNoCandidate}
	if logging.Enabled(logging.LevelDebug) {
		for i, roi := range rois {
			logging.Debugf("%s: candidate %d at %d,%d %dx%d", label, i, roi.X, roi.Y, roi.Width, roi.Height)
		}
	}

	for i, roi := range rois {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		out.Tried++
		text, conf, err := read(i, roi)
		if err == nil {
			out.Index = i
			out.Text = text
			out.Confidence = conf
			out.Reason = entity.ReasonNone
			return out, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, ctxErr
		}

		var se *entity.StageError
		if errors.As(err, &se) {
			out.Reason = se.Reason
			logging.Debugf("%s: candidate %d rejected: %v", label, i, se)
			continue
		}
		out.Reason = entity.ReasonStageFailed
		logging.Warnf("%s: candidate %d failed: %v", label, i, err)
	}
	return out, nil
}
