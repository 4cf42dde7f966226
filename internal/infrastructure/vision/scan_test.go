package vision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"plate-reader/internal/domain/entity"
)

func scanRects(n int) []entity.Rect {
	rois := make([]entity.Rect, n)
	for i := range rois {
		rois[i] = entity.Rect{X: 10 * i, Y: 0, Width: 8, Height: 4}
	}
	return rois
}

func TestScanCandidates_FirstSuccessStops(t *testing.T) {
	var called []int
	out, err := scanCandidates(context.Background(), "img", scanRects(3), func(i int, _ entity.Rect) (string, float64, error) {
		called = append(called, i)
		if i == 0 {
			return "", 0, entity.NewStageError(entity.StageCorners, entity.ReasonNoCorners, nil)
		}
		return "AB123CDE", 0.93, nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, called)
	require.Equal(t, 1, out.Index)
	require.Equal(t, 2, out.Tried)
	require.Equal(t, "AB123CDE", out.Text)
	require.InDelta(t, 0.93, out.Confidence, 1e-9)
	require.Equal(t, entity.ReasonNone, out.Reason)
}

func TestScanCandidates_AllRejected(t *testing.T) {
	reasons := []entity.FailureReason{entity.ReasonNoRegion, entity.ReasonWordSplit, entity.ReasonOCRInconclusive}
	out, err := scanCandidates(context.Background(), "img", scanRects(3), func(i int, _ entity.Rect) (string, float64, error) {
		return "", 0, entity.NewStageError(entity.StageOCR, reasons[i], nil)
	})
	require.NoError(t, err)
	require.Equal(t, -1, out.Index)
	require.Equal(t, 3, out.Tried)
	require.Equal(t, entity.ReasonOCRInconclusive, out.Reason)
}

func TestScanCandidates_PlainErrorAdvances(t *testing.T) {
	out, err := scanCandidates(context.Background(), "img", scanRects(2), func(i int, _ entity.Rect) (string, float64, error) {
		if i == 0 {
			return "", 0, errors.New("tesseract: engine failure")
		}
		return "A12BCD", 0.5, nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, out.Index)
	require.Equal(t, 2, out.Tried)

	out, err = scanCandidates(context.Background(), "img", scanRects(1), func(int, entity.Rect) (string, float64, error) {
		return "", 0, errors.New("tesseract: engine failure")
	})
	require.NoError(t, err)
	require.Equal(t, entity.ReasonStageFailed, out.Reason)
}

func TestScanCandidates_CancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := scanCandidates(ctx, "img", scanRects(3), func(i int, _ entity.Rect) (string, float64, error) {
		cancel()
		return "", 0, ctx.Err()
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, out.Tried)
	require.Equal(t, -1, out.Index)
}

func TestScanCandidates_Empty(t *testing.T) {
	out, err := scanCandidates(context.Background(), "img", nil, func(int, entity.Rect) (string, float64, error) {
		t.Fatal("reader must not be called")
		return "", 0, nil
	})
	require.NoError(t, err)
	require.Zero(t, out.Tried)
	require.Equal(t, entity.ReasonNoCandidate, out.Reason)
}
